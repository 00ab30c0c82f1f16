// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main implements the SDG CLI for generating synthetic business
// documents seeded with pattern-conformant fake credentials.
//
// Usage:
//
//	sdg init                       Create .sdg/config.yaml configuration
//	sdg generate [options]         Generate a batch of synthetic documents
//	sdg validate --file <path>     Scan a file for credential patterns
//	sdg db list|add                Inspect or extend the pattern database
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kraklabs/sdg/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags carries the flags shared by every command.
type GlobalFlags struct {
	// JSON selects machine-readable output; it implies Quiet.
	JSON bool

	// Quiet suppresses progress bars and informational output.
	Quiet bool

	// NoColor disables colored terminal output.
	NoColor bool

	// Verbose raises the log level; counted occurrences of -v.
	Verbose int
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to .sdg/config.yaml (default: ./.sdg/config.yaml)")
		jsonOut     = flag.Bool("json", false, "Machine-readable JSON output")
		quiet       = flag.Bool("q", false, "Suppress progress and informational output")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `SDG - Synthetic Document Generator

SDG produces realistic-looking business documents (emails, spreadsheets,
word-processing files, presentations, PDFs, images, diagrams) seeded with
synthetic credentials that match declared regex patterns. The output is
meant for security-awareness corpora and DLP/scanner testing; the
credential values are decorative strings, never real secrets.

Usage:
  sdg <command> [options]

Commands:
  init        Create .sdg/config.yaml configuration
  generate    Generate a batch of synthetic documents
  validate    Scan a file for credential patterns
  db          Inspect or extend the pattern database (list|add)
  completion  Generate shell completion script (bash|zsh|fish)

Global Options:
  --config    Path to .sdg/config.yaml
  --json      Machine-readable JSON output
  --no-color  Disable colored output
  -q          Quiet mode
  --version   Show version and exit

Examples:
  sdg init
  sdg generate --num-files 100 --formats eml,xlsx,pdf --credential-types aws_access_key,jwt_token --topics "cloud migration"
  sdg generate --num-files 10 --formats docx --language fr --seed 42
  sdg validate --file out/document_plan_20260301_101530_ab12.docx
  sdg db list

Environment Variables:
  SDG_OUTPUT_DIR        Default output directory
  SDG_REGEX_DB          Default pattern database path
  SDG_MAX_WORKERS       Default worker count
  OLLAMA_HOST           Ollama URL (default: http://localhost:11434)
  OLLAMA_MODEL          Ollama model for neural content

For detailed command help: sdg <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("sdg version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	globals := GlobalFlags{
		JSON:    *jsonOut,
		Quiet:   *quiet || *jsonOut,
		NoColor: *noColor,
	}
	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, globals)
	case "generate":
		runGenerate(cmdArgs, *configPath, globals)
	case "validate":
		runValidate(cmdArgs, *configPath, globals)
	case "db":
		runDB(cmdArgs, *configPath, globals)
	case "completion":
		runCompletion(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
