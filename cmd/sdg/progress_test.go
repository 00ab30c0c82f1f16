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
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stderr is never a TTY under 'go test', so Enabled is always false here;
// the flag-driven cases still pin down the gating logic.
func TestNewProgressConfig(t *testing.T) {
	tests := []struct {
		name        string
		globals     GlobalFlags
		wantNoColor bool
	}{
		{"defaults", GlobalFlags{}, false},
		{"quiet", GlobalFlags{Quiet: true}, false},
		{"json implies quiet", GlobalFlags{JSON: true, Quiet: true}, false},
		{"no-color propagates", GlobalFlags{NoColor: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewProgressConfig(tt.globals)
			assert.False(t, cfg.Enabled)
			assert.Equal(t, tt.wantNoColor, cfg.NoColor)
			assert.Equal(t, os.Stderr, cfg.Writer)
		})
	}
}

func TestNewProgressBar(t *testing.T) {
	assert.Nil(t, NewProgressBar(ProgressConfig{Enabled: false}, 100, "Generating"))

	var buf bytes.Buffer
	bar := NewProgressBar(ProgressConfig{Enabled: true, Writer: &buf}, 100, "Generating")
	require.NotNil(t, bar)
	require.NoError(t, bar.Set(50))
	require.NoError(t, bar.Finish())
}

func TestNewSpinner(t *testing.T) {
	assert.Nil(t, NewSpinner(ProgressConfig{Enabled: false}, "Probing LLM"))

	var buf bytes.Buffer
	s := NewSpinner(ProgressConfig{Enabled: true, Writer: &buf}, "Probing LLM")
	require.NotNil(t, s)
	require.NoError(t, s.Finish())
}
