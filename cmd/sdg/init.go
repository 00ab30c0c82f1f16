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

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sdg/internal/errors"
	"github.com/kraklabs/sdg/internal/ui"
)

// runInit executes the 'init' CLI command, writing .sdg/config.yaml.
//
// Interactive by default; -y accepts every default for scripted setups.
//
// Examples:
//
//	sdg init                Interactive setup
//	sdg init -y             Use all defaults
//	sdg init --force        Overwrite an existing configuration
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	nonInteractive := fs.BoolP("yes", "y", false, "Non-interactive mode (use defaults)")
	outputDir := fs.String("output-dir", "", "Default output directory to record")
	regexDB := fs.String("regex-db", "", "Pattern database JSON path to record")
	llmProvider := fs.String("llm-provider", "", "LLM provider (ollama, openai, anthropic, mock)")
	llmModel := fs.String("llm-model", "", "LLM model name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sdg init [options]

Creates .sdg/config.yaml in the current directory. Prompts for the common
settings unless -y is given; existing configuration is kept unless --force
is given.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	path := filepath.Join(ConfigDir("."), "config.yaml")
	if _, err := os.Stat(path); err == nil && !*force {
		errors.FatalError(errors.NewConfigError(
			"Configuration already exists",
			fmt.Sprintf("%s is already present", path),
			"Pass --force to overwrite it",
			nil,
		), globals.JSON)
	}

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *regexDB != "" {
		cfg.RegexDB = *regexDB
	}
	if *llmProvider != "" {
		cfg.LLM.Provider = *llmProvider
	}
	if *llmModel != "" {
		cfg.LLM.Model = *llmModel
	}

	if !*nonInteractive {
		runInteractiveConfig(bufio.NewReader(os.Stdin), cfg)
	}

	if err := SaveConfig(cfg, ""); err != nil {
		errors.FatalError(errors.NewPermissionError(
			"Cannot write configuration",
			fmt.Sprintf("Writing %s failed: %v", path, err),
			"Check the directory permissions",
			err,
		), globals.JSON)
	}

	ui.Successf("Wrote %s", path)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  sdg db list                        Browse available credential types")
	fmt.Println("  sdg generate --num-files 5 --formats eml --credential-types aws_access_key --topics demo")
}

func runInteractiveConfig(reader *bufio.Reader, cfg *Config) {
	fmt.Println("SDG Configuration")
	fmt.Println("=================")
	fmt.Println()

	cfg.OutputDir = prompt(reader, "Output directory", cfg.OutputDir)
	cfg.RegexDB = prompt(reader, "Pattern database JSON (empty for builtin catalog)", cfg.RegexDB)

	fmt.Println()
	fmt.Println("LLM Configuration (for --neural-content / --neural-credentials)")
	fmt.Println("Providers: ollama, openai, anthropic, mock")
	cfg.LLM.Provider = prompt(reader, "LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = prompt(reader, "LLM model", cfg.LLM.Model)
	if v := prompt(reader, "LLM temperature", strconv.FormatFloat(cfg.LLM.Temperature, 'g', -1, 64)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.LLM.Temperature = f
		}
	}
	fmt.Println()
}

// prompt reads a line, returning fallback on empty input.
func prompt(reader *bufio.Reader, label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return fallback
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}
