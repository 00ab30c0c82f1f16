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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdgtest "github.com/kraklabs/sdg/internal/testing"
)

func TestLoadPatternDBBuiltin(t *testing.T) {
	db, err := loadPatternDB("")
	require.NoError(t, err)
	assert.Greater(t, db.Len(), 0)
	assert.True(t, db.Has("aws_access_key"))
}

func TestLoadPatternDBFromFile(t *testing.T) {
	path := sdgtest.WriteCatalog(t)

	db, err := loadPatternDB(path)
	require.NoError(t, err)
	assert.Equal(t, 2, db.Len())
}

func TestLoadPatternDBBadFile(t *testing.T) {
	_, err := loadPatternDB("/nonexistent/patterns.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot load pattern database")
}

func TestLoadCompaniesFromFile(t *testing.T) {
	path := sdgtest.WriteCompanies(t, map[string]sdgtest.CompanyRecord{
		"Tidewater Freight": {Language: "en", Country: "United States", Region: "North America"},
	})

	m, err := loadCompanies(path)
	require.NoError(t, err)
	_, ok := m.Lookup("Tidewater Freight")
	assert.True(t, ok)
}

func TestLoadCompaniesBuiltin(t *testing.T) {
	m, err := loadCompanies("")
	require.NoError(t, err)
	assert.Greater(t, m.Len(), 0)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "b", firstNonEmpty("  ", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestSortedKeys(t *testing.T) {
	keys := sortedKeys(map[string]int{"xlsx": 3, "eml": 2, "pdf": 1})
	assert.Equal(t, []string{"eml", "pdf", "xlsx"}, keys)
}
