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

// visioBinder emits a simplified Visio drawing XML (VDX dialect) under each
// of the diagram extensions: one shape per section laid out on a grid, plus
// a title shape and, outside body mode, a credentials shape.
type visioBinder struct{}

func (b *visioBinder) Formats() []string {
	return []string{"vsd", "vsdx", "vsdm", "vssx", "vssm", "vstx", "vstm"}
}

func (b *visioBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<VisioDocument xmlns="http://schemas.microsoft.com/visio/2003/core">` + "\n")

	sb.WriteString("<DocumentProperties>")
	sb.WriteString("<Title>" + xmlEscape(cs.Title) + "</Title>")
	sb.WriteString("<Creator>" + xmlEscape(cs.Metadata["company"]) + "</Creator>")
	sb.WriteString("<Subject>" + xmlEscape(cs.Metadata["topic"]) + "</Subject>")
	if cs.EmbedStrategy == content.EmbedMetadata && !cs.CredentialsPreEmbedded {
		sb.WriteString("<Desc>" + xmlEscape(strings.Join(credentialLines(cs.Credentials), "; ")) + "</Desc>")
	}
	sb.WriteString("</DocumentProperties>\n")

	sb.WriteString(`<Pages><Page ID="0" Name="Page-1"><Shapes>` + "\n")

	id := 1
	shape := func(text string, col, row int) {
		// 2-column grid on a letter-sized page, coordinates in inches.
		pinX := 2.25 + float64(col)*4.0
		pinY := 9.5 - float64(row)*2.0
		sb.WriteString(fmt.Sprintf(`<Shape ID="%d" Type="Shape">`, id))
		sb.WriteString(fmt.Sprintf(`<XForm><PinX>%.2f</PinX><PinY>%.2f</PinY><Width>3.5</Width><Height>1.5</Height></XForm>`, pinX, pinY))
		sb.WriteString("<Text>" + xmlEscape(text) + "</Text>")
		sb.WriteString("</Shape>\n")
		id++
	}

	shape(cs.Title, 0, 0)
	for i, s := range cs.Sections {
		text := s.Title
		if first, _, ok := strings.Cut(s.Body, "\n"); ok || first != "" {
			text += "\n" + first
		}
		shape(text, (i+1)%2, (i+1)/2)
	}
	if !cs.CredentialsPreEmbedded {
		pack := content.PackFor(cs.Language)
		n := len(cs.Sections) + 1
		shape(pack.ConfigHeading+"\n"+strings.Join(credentialLines(cs.Credentials), "\n"), n%2, n/2)
	}

	sb.WriteString("</Shapes></Page></Pages>\n</VisioDocument>\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", cs.FormatType, err)
	}
	return path, nil
}
