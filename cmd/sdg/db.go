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

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sdg/internal/errors"
	"github.com/kraklabs/sdg/internal/output"
	"github.com/kraklabs/sdg/internal/ui"
)

// runDB executes the 'db' CLI command group: list and add.
//
// Examples:
//
//	sdg db list
//	sdg db list --json
//	sdg db add --type acme_token --regex '^ACME-[0-9a-f]{24}$' --description "ACME service token" --db patterns.json
func runDB(args []string, configPath string, globals GlobalFlags) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: sdg db <list|add> [options]")
		os.Exit(1)
	}

	switch args[0] {
	case "list":
		runDBList(args[1:], configPath, globals)
	case "add":
		runDBAdd(args[1:], configPath, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown db subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runDBList(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("db list", flag.ExitOnError)
	regexDB := fs.String("db", "", "Pattern database JSON (default: builtin catalog)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	db, err := loadPatternDB(firstNonEmpty(*regexDB, cfg.RegexDB))
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if globals.JSON {
		if err := output.JSON(db.Entries()); err != nil {
			errors.FatalError(err, true)
		}
		return
	}

	ui.Header(fmt.Sprintf("Pattern Catalog (%d types)", db.Len()))
	for _, e := range db.Entries() {
		fmt.Printf("  %-28s %s\n", e.Type, e.Description)
	}
}

func runDBAdd(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("db add", flag.ExitOnError)
	regexDB := fs.String("db", "", "Pattern database JSON to load and extend (default: builtin catalog)")
	credType := fs.String("type", "", "Unique credential type id (required)")
	regex := fs.String("regex", "", "Anchored regular expression (required)")
	description := fs.String("description", "", "Human description (required)")
	generator := fs.String("generator", "", "Advisory generator hint")
	out := fs.String("out", "", "Where to save the extended database (default: --db path)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *credType == "" || *regex == "" || *description == "" {
		errors.FatalError(errors.NewInputError(
			"Missing required flags",
			"db add needs --type, --regex, and --description",
			"Run: sdg db add --type my_token --regex '^tok-[0-9]{8}$' --description 'My token'",
		), globals.JSON)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	dbPath := firstNonEmpty(*regexDB, cfg.RegexDB)
	db, err := loadPatternDB(dbPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if err := db.Add(*credType, *regex, *description, *generator); err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot add pattern",
			err.Error(),
			"Check that the regex compiles and the type id is unused",
		), globals.JSON)
	}

	savePath := firstNonEmpty(*out, dbPath)
	if savePath == "" {
		errors.FatalError(errors.NewInputError(
			"No destination for the extended database",
			"The builtin catalog cannot be saved in place",
			"Pass --out <path> to export the catalog with your addition",
		), globals.JSON)
	}
	if err := db.Save(savePath); err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Cannot save pattern database",
			fmt.Sprintf("Writing %s failed: %v", savePath, err),
			"Check the directory permissions",
			err,
		), globals.JSON)
	}

	ui.Successf("Added %s (%d types) -> %s", *credType, db.Len(), savePath)
}
