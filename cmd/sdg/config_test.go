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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 10, cfg.Generation.BatchSize)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `output_dir: corpus
regex_db: patterns.json
generation:
  batch_size: 25
  max_workers: 4
llm:
  provider: mock
  model: tiny
  temperature: 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "corpus", cfg.OutputDir)
	assert.Equal(t, "patterns.json", cfg.RegexDB)
	assert.Equal(t, 25, cfg.Generation.BatchSize)
	assert.Equal(t, 4, cfg.Generation.MaxWorkers)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: [unclosed"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot parse SDG configuration")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("SDG_OUTPUT_DIR", "/tmp/corpus")
	t.Setenv("SDG_MAX_WORKERS", "6")
	t.Setenv("SDG_LLM_TEMPERATURE", "0.9")
	t.Setenv("OLLAMA_MODEL", "llama3.2:70b")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/corpus", cfg.OutputDir)
	assert.Equal(t, 6, cfg.Generation.MaxWorkers)
	assert.InDelta(t, 0.9, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "llama3.2:70b", cfg.LLM.Model)
}

func TestLoadConfigEnvOverridesIgnoreBadNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("SDG_MAX_WORKERS", "not-a-number")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Generation.MaxWorkers)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.OutputDir = "corpus"
	cfg.Generation.BatchSize = 50
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "corpus", loaded.OutputDir)
	assert.Equal(t, 50, loaded.Generation.BatchSize)
}
