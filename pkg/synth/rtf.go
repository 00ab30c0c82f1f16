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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kraklabs/sdg/pkg/content"
)

// rtfBinder hand-rolls RTF output. The legacy doc format carries the same
// RTF payload under the .doc extension.
type rtfBinder struct{}

func (b *rtfBinder) Formats() []string { return []string{"rtf", "doc"} }

func (b *rtfBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))

	var sb strings.Builder
	sb.WriteString(`{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}` + "\n")

	// Info group carries the metadata; in metadata mode the credential
	// block rides in the doccomm field.
	sb.WriteString(`{\info{\title ` + rtfEscape(cs.Title) + `}`)
	sb.WriteString(`{\author ` + rtfEscape(cs.Metadata["company"]) + `}`)
	sb.WriteString(`{\subject ` + rtfEscape(cs.Metadata["topic"]) + `}`)
	if cs.EmbedStrategy == content.EmbedMetadata && !cs.CredentialsPreEmbedded {
		sb.WriteString(`{\doccomm ` + rtfEscape(strings.Join(credentialLines(cs.Credentials), "; ")) + `}`)
	}
	sb.WriteString("}\n")

	sb.WriteString(`\fs48\b ` + rtfEscape(cs.Title) + `\b0\fs24\par\par` + "\n")
	for _, s := range cs.Sections {
		sb.WriteString(`\fs32\b ` + rtfEscape(s.Title) + `\b0\fs24\par` + "\n")
		for _, para := range strings.Split(s.Body, "\n\n") {
			sb.WriteString(rtfEscape(para) + `\par\par` + "\n")
		}
	}
	sb.WriteString("}\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", cs.FormatType, err)
	}
	return path, nil
}

// rtfEscape escapes RTF control characters, encodes non-ASCII runes as \uN
// sequences, and converts newlines to \line.
func rtfEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\line `)
		case r < 0x80:
			sb.WriteRune(r)
		default:
			// RTF \u takes a signed 16-bit value; '?' is the
			// fallback for readers without Unicode support.
			sb.WriteString(fmt.Sprintf(`\u%d?`, int16(r))) //nolint:gosec // G115: intentional wrap per RTF spec
		}
	}
	return sb.String()
}
