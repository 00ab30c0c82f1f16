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
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/sdg/internal/errors"
)

// Config is the persisted CLI configuration, stored at .sdg/config.yaml.
type Config struct {
	OutputDir string `yaml:"output_dir"`
	RegexDB   string `yaml:"regex_db,omitempty"`

	Companies string `yaml:"companies,omitempty"`

	Generation struct {
		BatchSize      int     `yaml:"batch_size"`
		MaxWorkers     int     `yaml:"max_workers"`
		MemoryLimitGiB float64 `yaml:"memory_limit_gib"`
		UltraFast      bool    `yaml:"ultra_fast"`
	} `yaml:"generation"`

	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{OutputDir: "out"}
	cfg.Generation.BatchSize = 10
	cfg.Generation.UltraFast = false
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.2"
	cfg.LLM.Temperature = 0.7
	return cfg
}

// ConfigDir returns the .sdg directory under root.
func ConfigDir(root string) string {
	return filepath.Join(root, ".sdg")
}

func configFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(ConfigDir("."), "config.yaml")
}

// LoadConfig reads the configuration, falling back to defaults when the
// file does not exist, then applies environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	path := configFile(configPath)
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied config path
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, errors.NewConfigError(
			"Cannot read SDG configuration",
			fmt.Sprintf("Reading %s failed: %v", path, err),
			"Check the file permissions or pass --config",
			err,
		)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError(
				"Cannot parse SDG configuration",
				fmt.Sprintf("%s is not valid YAML: %v", path, err),
				"Fix the file or regenerate it with: sdg init --force",
				err,
			)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// SaveConfig writes cfg to path (or the default location).
func SaveConfig(cfg *Config, configPath string) error {
	path := configFile(configPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets the environment win over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SDG_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SDG_REGEX_DB"); v != "" {
		cfg.RegexDB = v
	}
	if v := os.Getenv("SDG_COMPANIES"); v != "" {
		cfg.Companies = v
	}
	if v := os.Getenv("SDG_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Generation.MaxWorkers = n
		}
	}
	if v := os.Getenv("SDG_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.LLM.Temperature = f
		}
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
}
