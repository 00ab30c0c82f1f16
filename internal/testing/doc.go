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

// Package testing provides shared fixtures for SDG tests.
//
// The helpers cover the three inputs most tests need: a pattern catalog
// on disk, a company map on disk, and a ready-made document structure for
// format binders.
//
// # Quick Start
//
//	import sdgtest "github.com/kraklabs/sdg/internal/testing"
//
//	func TestMyFeature(t *testing.T) {
//	    path := sdgtest.WriteCatalog(t) // sample entries, temp file
//	    db, err := patterndb.Load(path)
//	    require.NoError(t, err)
//	    // ...
//	}
//
// # Fixtures
//
//   - SampleEntries: a small, valid pattern catalog
//   - WriteCatalog: marshal entries to a temp patterns.json
//   - SetupCatalog: an in-memory *patterndb.DB from entries
//   - WriteCompanies: marshal a company map to a temp companies.json
//   - SampleStructure: a two-section document with one embedded credential
//
// Everything written to disk lands under t.TempDir() and is cleaned up by
// the test framework.
package testing
