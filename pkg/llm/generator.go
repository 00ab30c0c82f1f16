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

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the lifecycle state of a Generator.
type State int32

const (
	// StateLoading means the backend probe has not finished yet.
	StateLoading State = iota
	// StateReady means the backend answered the probe.
	StateReady
	// StateUnavailable means the probe failed; callers should fall back.
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// ErrUnavailable is returned when the backend never became ready or was
// unloaded. Callers treat it as "use the template path".
var ErrUnavailable = errors.New("llm backend unavailable")

// Stats are the generator's cumulative performance counters.
type Stats struct {
	Calls         int           `json:"calls"`
	Failures      int           `json:"failures"`
	PromptTokens  int           `json:"prompt_tokens"`
	OutputTokens  int           `json:"output_tokens"`
	TotalDuration time.Duration `json:"total_duration"`
	TokensPerSec  float64       `json:"tokens_per_sec"`
}

// Generator wraps a Provider with an explicit ready/loading/unavailable
// lifecycle and performance counters.
//
// Load probes the backend in the background; the first GenerateText waits a
// bounded time for readiness instead of failing immediately. All methods are
// safe for concurrent use.
type Generator struct {
	provider  Provider
	readyWait time.Duration

	loadOnce sync.Once

	mu    sync.Mutex
	state State
	ready chan struct{}
	stats Stats
}

// NewGenerator wraps provider without probing it. Call Load to start the
// readiness probe; until then the state is loading.
func NewGenerator(provider Provider) *Generator {
	return &Generator{
		provider:  provider,
		readyWait: 30 * time.Second,
		state:     StateLoading,
		ready:     make(chan struct{}),
	}
}

// Load starts the background readiness probe. The probe asks the backend for
// its model list; a response, even an empty one, means the endpoint is up.
func (g *Generator) Load(ctx context.Context) {
	g.loadOnce.Do(func() { go g.probe(ctx) })
}

func (g *Generator) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, g.readyWait)
	defer cancel()

	_, err := g.provider.Models(probeCtx)

	g.mu.Lock()
	if err != nil {
		g.state = StateUnavailable
		slog.Warn("llm.load.unavailable", "provider", g.provider.Name(), "error", err)
	} else if g.state == StateLoading {
		g.state = StateReady
		slog.Debug("llm.load.ready", "provider", g.provider.Name())
	}
	close(g.ready)
	g.mu.Unlock()
}

// State returns the current lifecycle state.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// waitReady blocks until the probe resolves, the bounded wait elapses, or
// ctx is done.
func (g *Generator) waitReady(ctx context.Context) State {
	select {
	case <-g.ready:
	case <-time.After(g.readyWait):
	case <-ctx.Done():
	}
	return g.State()
}

// GenerateText runs one completion, enforcing the lifecycle and recording
// counters. It satisfies the narrow capability the content assembler and the
// credential factory consume.
func (g *Generator) GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if g.waitReady(ctx) != StateReady {
		return "", ErrUnavailable
	}

	start := time.Now()
	resp, err := g.provider.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	elapsed := time.Since(start)

	g.mu.Lock()
	g.stats.Calls++
	g.stats.TotalDuration += elapsed
	if err != nil {
		g.stats.Failures++
	} else {
		g.stats.PromptTokens += resp.PromptTokens
		g.stats.OutputTokens += resp.OutputTokens
	}
	if secs := g.stats.TotalDuration.Seconds(); secs > 0 {
		g.stats.TokensPerSec = float64(g.stats.OutputTokens) / secs
	}
	g.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	return resp.Text, nil
}

// Stats returns a snapshot of the performance counters.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// Provider exposes the wrapped backend, for provider-specific reporting.
func (g *Generator) Provider() Provider {
	return g.provider
}

// Clone returns a fresh Generator over the same provider, with its own
// lifecycle state and counters. Callers that want worker-isolated handles
// Load each clone themselves.
func (g *Generator) Clone() *Generator {
	return NewGenerator(g.provider)
}

// Unload marks the generator unavailable. Backends here are remote
// endpoints, so there is nothing to release beyond the state change.
func (g *Generator) Unload() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateUnavailable {
		g.state = StateUnavailable
		slog.Debug("llm.unload", "provider", g.provider.Name())
	}
}
