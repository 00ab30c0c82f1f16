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

// Package ui holds the colored-output helpers for the SDG CLI.
//
// All helpers go through fatih/color, so the NO_COLOR environment variable
// and non-TTY output are handled automatically; InitColors adds the
// --no-color flag on top. Color conventions: red for failures, yellow for
// warnings, green for success, cyan for counts and info, bold for headers.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors applies the --no-color flag. Call once in main after flag
// parsing; fatih/color handles NO_COLOR and TTY detection on its own.
func InitColors(noColor bool) {
	color.NoColor = noColor
}

// Success prints a green line with a checkmark prefix.
func Success(msg string) {
	_, _ = Green.Println("✓ " + msg)
}

func Successf(format string, args ...any) {
	_, _ = Green.Printf("✓ "+format+"\n", args...)
}

// Warning prints a yellow line with a warning-sign prefix, e.g.
// "⚠ No credential patterns found".
func Warning(msg string) {
	_, _ = Yellow.Println("⚠ " + msg)
}

func Warningf(format string, args ...any) {
	_, _ = Yellow.Printf("⚠ "+format+"\n", args...)
}

// Error prints a red line with an X prefix. For fatal errors prefer
// errors.FatalError, which also sets the exit code.
func Error(msg string) {
	_, _ = Red.Println("✗ " + msg)
}

func Errorf(format string, args ...any) {
	_, _ = Red.Printf("✗ "+format+"\n", args...)
}

// Info prints a cyan line with an info prefix.
func Info(msg string) {
	_, _ = Cyan.Println("ℹ " + msg)
}

func Infof(format string, args ...any) {
	_, _ = Cyan.Printf("ℹ "+format+"\n", args...)
}

// Header prints a bold title with an = underline of the same width:
//
//	Generation Summary
//	==================
func Header(text string) {
	_, _ = Bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

// SubHeader prints a bold title without the underline.
func SubHeader(text string) {
	_, _ = Bold.Println(text)
}

// Label returns text bolded for inline use:
// fmt.Printf("%s %s\n", ui.Label("Run ID:"), runID).
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns text dimmed, for paths and secondary detail.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText returns a count rendered in cyan for the summary tables.
func CountText(count int) string {
	return Cyan.Sprint(count)
}
