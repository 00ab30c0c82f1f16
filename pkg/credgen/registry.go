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

package credgen

import "sync"

// Registry tracks every credential value issued during a run so the same
// string is never embedded twice, no matter which worker produced it.
type Registry struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	byType map[string]int
}

// NewRegistry returns an empty uniqueness registry.
func NewRegistry() *Registry {
	return &Registry{
		seen:   make(map[string]struct{}),
		byType: make(map[string]int),
	}
}

// Remember records value if it has not been issued before. It returns false
// on a collision, leaving the registry unchanged.
func (g *Registry) Remember(credType, value string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.seen[value]; dup {
		return false
	}
	g.seen[value] = struct{}{}
	g.byType[credType]++
	return true
}

// Count returns the number of unique values issued for credType.
func (g *Registry) Count(credType string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byType[credType]
}

// Total returns the number of unique values issued across all types.
func (g *Registry) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

// CountsByType returns a copy of the per-type issue counters.
func (g *Registry) CountsByType() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]int, len(g.byType))
	for k, v := range g.byType {
		out[k] = v
	}
	return out
}
