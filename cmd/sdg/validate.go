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
	"fmt"
	"os"
	"regexp"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sdg/internal/errors"
	"github.com/kraklabs/sdg/internal/output"
	"github.com/kraklabs/sdg/internal/ui"
)

// validateReport is the machine-readable result of a validate run.
type validateReport struct {
	File    string         `json:"file"`
	Matches map[string]int `json:"matches"`
	Total   int            `json:"total"`
}

// runValidate executes the 'validate' CLI command: it scans a produced file
// for substrings matching any catalog pattern.
//
// Examples:
//
//	sdg validate --file out/document_plan_20260301_101530_ab12.docx
//	sdg validate --file out/message.eml --verbose
func runValidate(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	file := fs.String("file", "", "File to scan (required)")
	regexDB := fs.String("regex-db", "", "Pattern database JSON (default: builtin catalog)")
	verbose := fs.BoolP("verbose", "v", false, "Print every matched value")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sdg validate --file <path> [options]

Scans a file for credential-shaped substrings matching the pattern
database. Exit code 0 when at least one pattern matches.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *file == "" {
		errors.FatalError(errors.NewInputError(
			"Missing --file",
			"validate needs a file to scan",
			"Run: sdg validate --file <path>",
		), globals.JSON)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	db, err := loadPatternDB(firstNonEmpty(*regexDB, cfg.RegexDB))
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	data, err := os.ReadFile(*file) //nolint:gosec // G304: user-supplied scan target
	if err != nil {
		errors.FatalError(errors.NewNotFoundError(
			"Cannot read file",
			fmt.Sprintf("Reading %s failed: %v", *file, err),
			"Check the path",
		), globals.JSON)
	}
	text := string(data)

	report := validateReport{File: *file, Matches: make(map[string]int)}
	for _, entry := range db.Entries() {
		re, err := searchPattern(entry.Regex)
		if err != nil {
			continue
		}
		found := re.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		report.Matches[entry.Type] = len(found)
		report.Total += len(found)
		if *verbose && !globals.JSON {
			for _, v := range found {
				fmt.Printf("  %s: %s\n", entry.Type, ui.DimText(v))
			}
		}
	}

	if globals.JSON {
		if err := output.JSON(report); err != nil {
			errors.FatalError(err, true)
		}
	} else {
		ui.Header("Validation Report")
		fmt.Printf("  File: %s\n", *file)
		if report.Total == 0 {
			ui.Warning("No credential patterns found")
		} else {
			for _, k := range sortedKeys(report.Matches) {
				fmt.Printf("  %-24s %d\n", k, report.Matches[k])
			}
			ui.Successf("%d credential value(s) found", report.Total)
		}
	}

	if report.Total == 0 {
		os.Exit(errors.ExitNotFound)
	}
}

// searchPattern converts an anchored catalog regex into a substring search.
func searchPattern(pattern string) (*regexp.Regexp, error) {
	p := strings.TrimPrefix(pattern, "^")
	p = strings.TrimSuffix(p, "$")
	return regexp.Compile(p)
}
