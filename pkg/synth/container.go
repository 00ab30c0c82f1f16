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

package synth

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/kraklabs/sdg/pkg/content"
)

// zipEntry is one member of an OOXML/ODF container.
type zipEntry struct {
	name string
	data []byte

	// store disables compression. ODF requires the mimetype member to be
	// the first entry and stored uncompressed.
	store bool
}

// writeContainer writes a zip container to path with entries in order.
func writeContainer(path string, entries []zipEntry) error {
	f, err := os.Create(path) //nolint:gosec // G304: path is under the run's output dir
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		if e.store {
			header.Method = zip.Store
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("container entry %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return fmt.Errorf("container entry %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize container: %w", err)
	}
	return f.Close()
}

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// credentialLines renders the credential block rows for binders that embed
// natively in metadata regions.
func credentialLines(creds []content.Credential) []string {
	out := make([]string, 0, len(creds))
	for _, c := range creds {
		out = append(out, c.Label+": "+c.Value)
	}
	return out
}
