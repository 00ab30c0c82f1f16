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

// Package credgen produces synthetic, regex-conformant credential values.
//
// Values are decorative: they satisfy the declared pattern of their type and
// nothing more. A static dispatch table covers the builtin catalog types;
// unknown types fall back to generating directly from the parsed pattern.
// Every issued value is unique for the lifetime of the shared Registry.
package credgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/kraklabs/sdg/pkg/patterndb"
)

var (
	// ErrUnknownType is returned when the credential type has no catalog entry.
	ErrUnknownType = errors.New("unknown credential type")

	// ErrExhausted is returned when bounded retries could not produce a
	// fresh unique value.
	ErrExhausted = errors.New("could not generate a unique value")
)

const (
	// reseedAfter is the collision count after which the working RNG is
	// reseeded with a microsecond-precision seed.
	reseedAfter = 10

	// maxAttempts bounds total generation attempts for one value.
	maxAttempts = 100
)

// TextGenerator is the neural capability the factory optionally consumes.
// pkg/llm's Generator satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// GenContext carries the per-file state a generation call runs under.
type GenContext struct {
	// Rand is the per-file RNG derived from (seed, fileIndex). Required.
	Rand *rand.Rand

	// Topic, Company, and Language flavor neural prompts. Optional.
	Topic    string
	Company  string
	Language string
}

// Factory produces pattern-conformant unique credential values.
//
// The Factory itself holds no mutable state; concurrent use is safe as long
// as each caller brings its own GenContext.Rand. Uniqueness is enforced
// through the shared Registry.
type Factory struct {
	db        *patterndb.DB
	reg       *Registry
	neural    TextGenerator
	useNeural bool
}

// NewFactory builds a factory over the catalog and uniqueness registry.
func NewFactory(db *patterndb.DB, reg *Registry) *Factory {
	return &Factory{db: db, reg: reg}
}

// WithNeural enables the neural generation path backed by gen. Values from
// the model are post-validated; on mismatch the deterministic path runs.
func (f *Factory) WithNeural(gen TextGenerator) *Factory {
	f.neural = gen
	f.useNeural = gen != nil
	return f
}

// Generate produces one fresh value for credType.
//
// On a uniqueness collision it regenerates; after ten collisions it reseeds
// the working RNG with a microsecond seed and keeps going, up to a bounded
// attempt count. Suffixing a colliding value is never done since it would
// break the pattern.
func (f *Factory) Generate(ctx context.Context, credType string, gctx GenContext) (string, error) {
	entry, ok := f.db.Lookup(credType)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, credType)
	}

	r := gctx.Rand
	if f.useNeural {
		if v, ok := f.generateNeural(ctx, entry, gctx); ok {
			if f.reg.Remember(credType, v) {
				return v, nil
			}
			// Collision on the neural value; fall through to the
			// deterministic path rather than re-prompting.
		}
	}

	collisions := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := f.generateOnce(entry, r)
		if err != nil {
			return "", fmt.Errorf("generate %q: %w", credType, err)
		}
		if !f.db.Validate(v, credType) {
			// Dispatch-table drift against a customized catalog regex.
			// The pattern walker is authoritative in that case.
			v, err = fromPattern(entry.Regex, r)
			if err != nil || !f.db.Validate(v, credType) {
				return "", fmt.Errorf("generate %q: value does not match catalog pattern", credType)
			}
		}
		if f.reg.Remember(credType, v) {
			return v, nil
		}
		collisions++
		if collisions == reseedAfter {
			slog.Debug("credgen.collision.reseed", "type", credType, "collisions", collisions)
			r = rand.New(rand.NewSource(time.Now().UnixMicro())) //nolint:gosec // synthetic data, not crypto
		}
	}
	return "", fmt.Errorf("%w for %q after %d attempts", ErrExhausted, credType, maxAttempts)
}

// GenerateBatch produces count values per type. Best-effort: per-value
// failures are counted and returned, not propagated.
func (f *Factory) GenerateBatch(ctx context.Context, types []string, count int, gctx GenContext) (map[string][]string, int) {
	out := make(map[string][]string, len(types))
	failed := 0
	for _, t := range types {
		for i := 0; i < count; i++ {
			v, err := f.Generate(ctx, t, gctx)
			if err != nil {
				failed++
				slog.Debug("credgen.batch.value_failed", "type", t, "error", err)
				continue
			}
			out[t] = append(out[t], v)
		}
	}
	return out, failed
}

// Validate reports whether value matches the declared pattern of credType.
func (f *Factory) Validate(value, credType string) bool {
	return f.db.Validate(value, credType)
}

// Registry exposes the uniqueness registry for run statistics.
func (f *Factory) Registry() *Registry {
	return f.reg
}

// generateOnce routes to the dispatch table, falling back to walking the
// catalog pattern for types the table does not know.
func (f *Factory) generateOnce(entry patterndb.Entry, r *rand.Rand) (string, error) {
	if gen, ok := generators[entry.Type]; ok {
		return gen(r), nil
	}
	return fromPattern(entry.Regex, r)
}

// generateNeural asks the model for a value and post-validates it against
// the catalog pattern. A failed or non-conformant response reports !ok and
// the caller takes the deterministic path.
func (f *Factory) generateNeural(ctx context.Context, entry patterndb.Entry, gctx GenContext) (string, bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Produce exactly one synthetic %s value.\n", entry.Description)
	fmt.Fprintf(&sb, "It must match this regular expression: %s\n", entry.Regex)
	if len(entry.Examples) > 0 {
		fmt.Fprintf(&sb, "Shape example (do not copy): %s\n", entry.Examples[0])
	}
	if gctx.Company != "" {
		fmt.Fprintf(&sb, "Context: internal systems at %s.\n", gctx.Company)
	}
	sb.WriteString("Reply with the value only, no explanation.")

	text, err := f.neural.GenerateText(ctx, sb.String(), 128, 0.3)
	if err != nil {
		slog.Debug("credgen.neural.error", "type", entry.Type, "error", err)
		return "", false
	}
	v := strings.TrimSpace(text)
	if i := strings.IndexByte(v, '\n'); i >= 0 && !strings.HasPrefix(v, "-----BEGIN") {
		v = strings.TrimSpace(v[:i])
	}
	if !f.db.Validate(v, entry.Type) {
		slog.Debug("credgen.neural.rejected", "type", entry.Type)
		return "", false
	}
	return v, true
}
