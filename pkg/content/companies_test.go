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

package content

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCompaniesCoverLanguages(t *testing.T) {
	m := BuiltinCompanies()
	r := rand.New(rand.NewSource(1))

	for _, lang := range SupportedLanguages {
		c := m.ForLanguage(lang, r)
		assert.Equal(t, lang, c.Language, "no builtin company for %s", lang)
		assert.NotEmpty(t, c.Country)
	}
}

func TestForLanguageFallsBackToAny(t *testing.T) {
	m := BuiltinCompanies()
	c := m.ForLanguage("ko", rand.New(rand.NewSource(2)))
	assert.NotEmpty(t, c.Name)
}

func TestForLanguageDeterministic(t *testing.T) {
	m := BuiltinCompanies()
	a := m.ForLanguage("en", rand.New(rand.NewSource(9)))
	b := m.ForLanguage("en", rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
}

func TestLoadCompaniesMergeLastWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(first, []byte(`{
		"Custom Corp": {"language": "en", "country": "Ireland", "region": "Europe"}
	}`), 0644))
	require.NoError(t, os.WriteFile(second, []byte(`{
		"Custom Corp": {"language": "de", "country": "Germany", "region": "Europe"}
	}`), 0644))

	m, err := LoadCompanies(first, second)
	require.NoError(t, err)

	c, ok := m.Lookup("Custom Corp")
	require.True(t, ok)
	assert.Equal(t, "de", c.Language)
	assert.Equal(t, "Germany", c.Country)
	assert.Greater(t, m.Len(), BuiltinCompanies().Len())
}

func TestLoadCompaniesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0644))
	_, err := LoadCompanies(path)
	assert.Error(t, err)
}
