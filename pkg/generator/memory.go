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

import (
	"bufio"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// pressureThreshold is the fraction of the memory limit at which the
	// governor starts shrinking batches.
	pressureThreshold = 0.95

	// cleanupInterval forces a cleanup every N batches regardless of
	// pressure.
	cleanupInterval = 5

	// batchFloor is the smallest batch size the governor will shrink to.
	batchFloor = 2

	// historyCap bounds the retained usage samples.
	historyCap = 100
)

// MemSample is one point of the governor's usage history.
type MemSample struct {
	At    time.Time
	Bytes uint64
}

// Governor watches process memory between batches. Under pressure it halves
// the next batch and triggers a cleanup; every cleanupInterval batches it
// cleans up unconditionally.
type Governor struct {
	limitBytes uint64

	// sample is swappable so tests can force pressure.
	sample func() uint64

	mu       sync.Mutex
	batches  int
	cleanups int
	history  []MemSample
}

// NewGovernor builds a governor for limitGiB. Zero means "derive from
// system memory".
func NewGovernor(limitGiB float64) *Governor {
	if limitGiB <= 0 {
		limitGiB = systemMemoryGiB()
	}
	return &Governor{
		limitBytes: uint64(limitGiB * float64(1<<30)),
		sample:     heapInUse,
	}
}

func heapInUse() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// BeforeBatch records a sample and returns the batch size to use: the input
// size, or half of it (not below the floor) when memory pressure is high.
func (g *Governor) BeforeBatch(batchSize int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	usage := g.sample()
	g.history = append(g.history, MemSample{At: time.Now(), Bytes: usage})
	if len(g.history) > historyCap {
		g.history = g.history[len(g.history)-historyCap:]
	}

	g.batches++
	periodic := g.batches%cleanupInterval == 0
	pressured := float64(usage) >= pressureThreshold*float64(g.limitBytes)

	if pressured || periodic {
		g.cleanupLocked()
	}
	if pressured && batchSize > batchFloor {
		half := batchSize / 2
		if half < batchFloor {
			half = batchFloor
		}
		slog.Warn("generate.memory.pressure",
			"usage_bytes", usage, "limit_bytes", g.limitBytes, "batch_size", half)
		return half
	}
	return batchSize
}

// Cleanup releases memory to the OS.
func (g *Governor) Cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cleanupLocked()
}

func (g *Governor) cleanupLocked() {
	g.cleanups++
	runtime.GC()
	debug.FreeOSMemory()
}

// Cleanups reports how many cleanups have run.
func (g *Governor) Cleanups() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cleanups
}

// History returns a copy of the retained usage samples.
func (g *Governor) History() []MemSample {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]MemSample, len(g.history))
	copy(out, g.history)
	return out
}

// systemMemoryGiB reads total system memory, falling back to 8 GiB when the
// platform offers no /proc/meminfo.
func systemMemoryGiB() float64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 8
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kib, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			break
		}
		return float64(kib) / (1 << 20)
	}
	return 8
}
