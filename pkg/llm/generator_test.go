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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderTypes(t *testing.T) {
	for _, typ := range []string{"ollama", "openai", "anthropic", "mock"} {
		p, err := NewProvider(ProviderConfig{Type: typ})
		require.NoError(t, err, typ)
		assert.NotNil(t, p)
	}

	_, err := NewProvider(ProviderConfig{Type: "nonsense"})
	assert.Error(t, err)
}

func TestGeneratorLifecycle(t *testing.T) {
	g := NewGenerator(&MockProvider{})
	assert.Equal(t, StateLoading, g.State())

	g.Load(context.Background())
	text, err := g.GenerateText(context.Background(), "write a title", 64, 0.7)
	require.NoError(t, err)
	assert.Contains(t, text, "[mock]")
	assert.Equal(t, StateReady, g.State())

	g.Unload()
	assert.Equal(t, StateUnavailable, g.State())
	_, err = g.GenerateText(context.Background(), "again", 64, 0.7)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeneratorClone(t *testing.T) {
	g := NewGenerator(&MockProvider{})
	g.Load(context.Background())
	_, err := g.GenerateText(context.Background(), "warm up", 16, 0)
	require.NoError(t, err)

	clone := g.Clone()
	assert.Same(t, g.Provider(), clone.Provider())
	assert.Equal(t, StateLoading, clone.State(), "clone starts its own lifecycle")
	assert.Zero(t, clone.Stats().Calls, "clone keeps its own counters")

	clone.Load(context.Background())
	_, err = clone.GenerateText(context.Background(), "independent", 16, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, clone.Stats().Calls)
	assert.Equal(t, 1, g.Stats().Calls, "original counters untouched")
}

func TestGeneratorUnavailableBackend(t *testing.T) {
	failing := &MockProvider{GenerateFunc: func(context.Context, GenerateRequest) (*GenerateResponse, error) {
		return nil, errors.New("should not be called")
	}}
	g := NewGenerator(&probeFailProvider{failing})
	g.readyWait = 100 * time.Millisecond
	g.Load(context.Background())

	_, err := g.GenerateText(context.Background(), "x", 10, 0)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateUnavailable, g.State())
}

// probeFailProvider wraps a provider and fails the model probe.
type probeFailProvider struct{ Provider }

func (p *probeFailProvider) Models(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

func TestGeneratorStats(t *testing.T) {
	g := NewGenerator(&MockProvider{})
	g.Load(context.Background())

	for i := 0; i < 3; i++ {
		_, err := g.GenerateText(context.Background(), "prompt text for stats", 32, 0)
		require.NoError(t, err)
	}

	s := g.Stats()
	assert.Equal(t, 3, s.Calls)
	assert.Equal(t, 0, s.Failures)
	assert.Equal(t, 60, s.OutputTokens)
	assert.Greater(t, s.TotalDuration, time.Duration(0))
}

func TestGeneratorCountsFailures(t *testing.T) {
	calls := 0
	p := &MockProvider{GenerateFunc: func(context.Context, GenerateRequest) (*GenerateResponse, error) {
		calls++
		return nil, errors.New("decode error")
	}}
	g := NewGenerator(p)
	g.Load(context.Background())

	_, err := g.GenerateText(context.Background(), "x", 10, 0)
	assert.Error(t, err)
	assert.Equal(t, 1, g.Stats().Failures)
	assert.Equal(t, 1, calls)
}

func TestDocumentPromptBuild(t *testing.T) {
	p := DocumentPrompt{
		Task:     "two short paragraphs",
		Topic:    "database migration",
		Company:  "Acme GmbH",
		Language: "de",
		Section:  "Overview",
		Constraints: []string{
			"mention a rollout date",
		},
	}
	out := p.Build()

	assert.Contains(t, out, "database migration")
	assert.Contains(t, out, "Acme GmbH")
	assert.Contains(t, out, "German")
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "- mention a rollout date")
	assert.True(t, strings.HasSuffix(out, "no preamble, headings, or commentary."))
}

func TestLanguageNameFallback(t *testing.T) {
	assert.Equal(t, "Japanese", LanguageName("ja"))
	assert.Equal(t, "English", LanguageName("xx"))
}

func TestTranslatePrompt(t *testing.T) {
	out := TranslatePrompt("Hello team", "fr")
	assert.Contains(t, out, "French")
	assert.Contains(t, out, "Hello team")
}
