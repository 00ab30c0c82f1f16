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

package ui

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

// disableColors turns colors off for deterministic string comparison and
// restores the previous state after the test.
func disableColors(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

func TestInitColors(t *testing.T) {
	original := color.NoColor
	t.Cleanup(func() { color.NoColor = original })

	InitColors(true)
	assert.True(t, color.NoColor)
	InitColors(false)
	assert.False(t, color.NoColor)
}

func TestInlineFormatters(t *testing.T) {
	disableColors(t)

	assert.Equal(t, "Run ID:", Label("Run ID:"))
	assert.Equal(t, "out/report_q1.pdf", DimText("out/report_q1.pdf"))
	assert.Equal(t, "42", CountText(42))
	assert.Equal(t, "0", CountText(0))
	assert.Equal(t, "-1", CountText(-1))
	assert.Equal(t, "", Label(""))
	assert.Equal(t, "a <>\"'& b", Label("a <>\"'& b"))
}

// The print helpers write straight to stdout; the test only asserts that
// every variant runs without panicking in both color modes.
func TestPrintHelpers(t *testing.T) {
	for _, noColor := range []bool{true, false} {
		original := color.NoColor
		color.NoColor = noColor

		Success("generated 5 files")
		Successf("generated %d files", 5)
		Warning("no credential patterns found")
		Warningf("skipped %d files", 2)
		Error("cannot write output directory")
		Errorf("file %d failed", 3)
		Info("loading pattern catalog")
		Infof("catalog has %d types", 70)
		Header("Generation Summary")
		SubHeader("Per format")

		color.NoColor = original
	}
}

func TestColorInstancesInitialized(t *testing.T) {
	for name, c := range map[string]*color.Color{
		"Red": Red, "Yellow": Yellow, "Green": Green,
		"Cyan": Cyan, "Bold": Bold, "Dim": Dim,
	} {
		assert.NotNil(t, c, name)
	}
}
