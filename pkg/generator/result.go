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

package generator

import "time"

// Per-file failure categories. They mirror the behavioral error classes the
// run reports: generation covers the assembler and credential factory,
// synthesis covers binder fallback write failures, timeout and worker cover
// the pool.
const (
	CategoryGeneration = "generation"
	CategorySynthesis  = "synthesis"
	CategoryTimeout    = "timeout"
	CategoryWorker     = "worker"
)

// FileError is one failed file job. The run continues past it.
type FileError struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Stats aggregates run counters. PerFormat and PerType count generated
// files and embedded credentials respectively.
type Stats struct {
	FilesGenerated   int            `json:"files_generated"`
	TotalCredentials int            `json:"total_credentials"`
	PerFormat        map[string]int `json:"per_format"`
	PerType          map[string]int `json:"per_type"`
	BatchesRun       int            `json:"batches_run"`
	MemoryCleanups   int            `json:"memory_cleanups"`
	Workers          int            `json:"workers"`
	Elapsed          time.Duration  `json:"elapsed_ns"`
}

// RunResult is the outcome of one Run call.
//
// Files holds artifact paths in completion order, which may differ from
// file-index order. len(Files) + len(Errors) always equals the requested
// file count.
type RunResult struct {
	RunID  string      `json:"run_id"`
	Files  []string    `json:"files"`
	Errors []FileError `json:"errors"`
	Stats  Stats       `json:"stats"`
}
