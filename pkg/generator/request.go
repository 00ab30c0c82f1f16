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

// Package generator orchestrates whole runs: it validates a Request,
// partitions work into batches, dispatches file jobs to a bounded worker
// pool under memory-governor supervision, and aggregates a RunResult.
package generator

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/kraklabs/sdg/pkg/content"
	"github.com/kraklabs/sdg/pkg/patterndb"
)

// ErrValidation marks Request errors. It is one of the two error classes
// that escape Run; per-file failures are reported in RunResult.Errors.
var ErrValidation = errors.New("invalid request")

// Request is one run's intent.
type Request struct {
	OutputDir string `yaml:"output_dir" json:"output_dir"`
	NumFiles  int    `yaml:"num_files" json:"num_files"`
	BatchSize int    `yaml:"batch_size" json:"batch_size"`

	Formats         []string `yaml:"formats" json:"formats"`
	CredentialTypes []string `yaml:"credential_types" json:"credential_types"`
	Topics          []string `yaml:"topics" json:"topics"`

	// Languages is the candidate set; empty means the language is chosen
	// per file together with the company.
	Languages []string `yaml:"languages" json:"languages"`

	// EmbedStrategy is declarative: random, metadata, or body. The
	// orchestrator resolves random per file.
	EmbedStrategy string `yaml:"embed_strategy" json:"embed_strategy"`

	// Seed makes the run reproducible. Nil means a time-derived seed.
	Seed *int64 `yaml:"seed" json:"seed"`

	MinCredentials int `yaml:"min_credentials" json:"min_credentials"`
	MaxCredentials int `yaml:"max_credentials" json:"max_credentials"`

	UseNeuralContent     bool `yaml:"use_neural_content" json:"use_neural_content"`
	UseNeuralCredentials bool `yaml:"use_neural_credentials" json:"use_neural_credentials"`

	// Tuning hints.
	MemoryLimitGiB      float64 `yaml:"memory_limit_gib" json:"memory_limit_gib"`
	MaxWorkers          int     `yaml:"max_workers" json:"max_workers"`
	UseProcessIsolation bool    `yaml:"use_process_isolation" json:"use_process_isolation"`
	UltraFast           bool    `yaml:"ultra_fast" json:"ultra_fast"`
	Temperature         float64 `yaml:"temperature" json:"temperature"`
}

// DefaultRequest returns a Request with the tuning fields at their built-in
// defaults; callers fill in the work description.
func DefaultRequest() Request {
	return Request{
		NumFiles:       1,
		BatchSize:      10,
		EmbedStrategy:  content.EmbedRandom,
		MinCredentials: 1,
		MaxCredentials: 1,
		Temperature:    0.7,
	}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Validate checks the Request against the loaded pattern database. Every
// reported problem aborts the run before any file work starts.
func (r *Request) Validate(db *patterndb.DB) error {
	if r.OutputDir == "" {
		return validationErr("output directory is required")
	}
	if r.NumFiles < 1 {
		return validationErr("num_files must be >= 1, got %d", r.NumFiles)
	}
	if r.BatchSize < 1 {
		return validationErr("batch_size must be >= 1, got %d", r.BatchSize)
	}

	if len(r.Formats) == 0 {
		return validationErr("at least one format is required")
	}
	for _, f := range r.Formats {
		if !content.SupportedFormat(f) {
			return validationErr("unsupported format %q", f)
		}
	}

	if len(r.CredentialTypes) == 0 {
		return validationErr("at least one credential type is required")
	}
	for _, t := range r.CredentialTypes {
		if !db.Has(t) {
			return validationErr("unknown credential type %q", t)
		}
	}

	if len(r.Topics) == 0 {
		return validationErr("at least one topic is required")
	}

	for _, lang := range r.Languages {
		if !slices.Contains(content.SupportedLanguages, lang) {
			return validationErr("unsupported language %q", lang)
		}
	}

	switch r.EmbedStrategy {
	case content.EmbedRandom, content.EmbedBody, content.EmbedMetadata:
	case "ai_determined":
		// Accepted by older request files but never implemented anywhere.
		return validationErr("embed strategy 'ai_determined' is not supported; use random, metadata, or body")
	default:
		return validationErr("unknown embed strategy %q", r.EmbedStrategy)
	}

	if r.MinCredentials < 1 {
		return validationErr("min_credentials must be >= 1, got %d", r.MinCredentials)
	}
	if r.MaxCredentials < r.MinCredentials {
		return validationErr("max_credentials (%d) must be >= min_credentials (%d)",
			r.MaxCredentials, r.MinCredentials)
	}
	if r.MaxCredentials > len(r.CredentialTypes) {
		return validationErr("max_credentials (%d) exceeds the %d declared credential types",
			r.MaxCredentials, len(r.CredentialTypes))
	}

	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return validationErr("output directory %q is not writable: %v", r.OutputDir, err)
	}
	return nil
}
