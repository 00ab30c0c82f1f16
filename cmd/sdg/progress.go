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
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressConfig decides whether a run shows a progress bar at all.
// Progress goes to stderr so --json output on stdout stays parseable.
type ProgressConfig struct {
	// Enabled is false under -q/--json and whenever stderr is not a TTY
	// (pipes, CI logs).
	Enabled bool

	// Writer receives the bar output.
	Writer io.Writer

	// NoColor propagates the --no-color flag into the bar rendering.
	NoColor bool
}

// NewProgressConfig derives the progress settings from the global flags
// and a TTY check on stderr.
func NewProgressConfig(globals GlobalFlags) ProgressConfig {
	return ProgressConfig{
		Enabled: !globals.Quiet && isatty.IsTerminal(os.Stderr.Fd()),
		Writer:  os.Stderr,
		NoColor: globals.NoColor,
	}
}

// barOptions is the option set shared by the file bar and the spinner.
func barOptions(cfg ProgressConfig, description string) []progressbar.Option {
	return []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(cfg.Writer),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(!cfg.NoColor),
	}
}

// NewProgressBar builds the per-file progress bar for a run of total
// files. Returns nil when progress is disabled; callers nil-check before
// every Set/Finish.
func NewProgressBar(cfg ProgressConfig, total int64, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}

	opts := append(barOptions(cfg, description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		// 65ms keeps redraws under the terminal refresh without visible lag.
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return progressbar.NewOptions64(total, opts...)
}

// NewSpinner builds an indeterminate spinner for waits without a known
// total, such as the LLM readiness probe. Returns nil when progress is
// disabled.
func NewSpinner(cfg ProgressConfig, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}

	opts := append(barOptions(cfg, description),
		progressbar.OptionSpinnerType(14),
	)
	return progressbar.NewOptions(-1, opts...)
}
