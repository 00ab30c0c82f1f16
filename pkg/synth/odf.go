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
	"path/filepath"
	"strings"

	"github.com/kraklabs/sdg/pkg/content"
)

// odfBinder writes OpenDocument containers: odt (text), odp (presentation),
// ods (spreadsheet), and the generic odf extension as a text document.
type odfBinder struct{}

func (b *odfBinder) Formats() []string { return []string{"odt", "odp", "ods", "odf"} }

var odfMimetypes = map[string]string{
	"odt": "application/vnd.oasis.opendocument.text",
	"odf": "application/vnd.oasis.opendocument.text",
	"odp": "application/vnd.oasis.opendocument.presentation",
	"ods": "application/vnd.oasis.opendocument.spreadsheet",
}

func (b *odfBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))
	mimetype := odfMimetypes[cs.FormatType]

	var body string
	switch cs.FormatType {
	case "odp":
		body = b.presentationContent(cs)
	case "ods":
		body = b.spreadsheetContent(cs)
	default:
		body = b.textContent(cs)
	}

	// The mimetype member must come first and be stored uncompressed.
	entries := []zipEntry{
		{name: "mimetype", data: []byte(mimetype), store: true},
		{name: "META-INF/manifest.xml", data: []byte(b.manifest(mimetype))},
		{name: "meta.xml", data: []byte(b.meta(cs))},
		{name: "content.xml", data: []byte(body)},
	}
	if err := writeContainer(path, entries); err != nil {
		return "", err
	}
	return path, nil
}

func (b *odfBinder) manifest(mimetype string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
<manifest:file-entry manifest:full-path="/" manifest:media-type="` + mimetype + `"/>
<manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
<manifest:file-entry manifest:full-path="meta.xml" manifest:media-type="text/xml"/>
</manifest:manifest>`
}

func (b *odfBinder) meta(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:dc="http://purl.org/dc/elements/1.1/" office:version="1.2"><office:meta>`)
	sb.WriteString("<dc:title>" + xmlEscape(cs.Title) + "</dc:title>")
	sb.WriteString("<dc:creator>" + xmlEscape(cs.Metadata["company"]) + "</dc:creator>")
	sb.WriteString("<dc:subject>" + xmlEscape(cs.Metadata["topic"]) + "</dc:subject>")
	sb.WriteString("<dc:language>" + xmlEscape(cs.Language) + "</dc:language>")
	if cs.EmbedStrategy == content.EmbedMetadata && !cs.CredentialsPreEmbedded {
		sb.WriteString("<dc:description>" + xmlEscape(strings.Join(credentialLines(cs.Credentials), "; ")) + "</dc:description>")
	}
	sb.WriteString("</office:meta></office:document-meta>")
	return sb.String()
}

const odfContentOpen = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0" office:version="1.2"><office:body>`

const odfContentClose = `</office:body></office:document-content>`

func (b *odfBinder) textContent(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString(odfContentOpen)
	sb.WriteString("<office:text>")
	sb.WriteString(`<text:h text:outline-level="1">` + xmlEscape(cs.Title) + "</text:h>")
	for _, s := range cs.Sections {
		sb.WriteString(`<text:h text:outline-level="2">` + xmlEscape(s.Title) + "</text:h>")
		for _, para := range strings.Split(s.Body, "\n\n") {
			sb.WriteString("<text:p>" + xmlEscape(strings.ReplaceAll(para, "\n", " ")) + "</text:p>")
		}
	}
	sb.WriteString("</office:text>")
	sb.WriteString(odfContentClose)
	return sb.String()
}

func (b *odfBinder) presentationContent(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString(odfContentOpen)
	sb.WriteString("<office:presentation>")

	page := func(name, title, body string) {
		sb.WriteString(`<draw:page draw:name="` + xmlEscape(name) + `">`)
		sb.WriteString(`<draw:frame><draw:text-box><text:p>` + xmlEscape(title) + `</text:p></draw:text-box></draw:frame>`)
		if body != "" {
			sb.WriteString(`<draw:frame><draw:text-box>`)
			for _, line := range strings.Split(body, "\n") {
				sb.WriteString("<text:p>" + xmlEscape(line) + "</text:p>")
			}
			sb.WriteString(`</draw:text-box></draw:frame>`)
		}
		sb.WriteString("</draw:page>")
	}

	page("Title", cs.Title, cs.Metadata["company"])
	for _, s := range cs.Sections {
		page(s.Title, s.Title, s.Body)
	}
	if !cs.CredentialsPreEmbedded {
		pack := content.PackFor(cs.Language)
		page(pack.ConfigHeading, pack.ConfigHeading, strings.Join(credentialLines(cs.Credentials), "\n"))
	}

	sb.WriteString("</office:presentation>")
	sb.WriteString(odfContentClose)
	return sb.String()
}

func (b *odfBinder) spreadsheetContent(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString(odfContentOpen)
	sb.WriteString("<office:spreadsheet>")

	table := func(name string, rows [][]string) {
		sb.WriteString(`<table:table table:name="` + xmlEscape(name) + `">`)
		for _, row := range rows {
			sb.WriteString("<table:table-row>")
			for _, cell := range row {
				sb.WriteString(`<table:table-cell office:value-type="string"><text:p>` + xmlEscape(cell) + "</text:p></table:table-cell>")
			}
			sb.WriteString("</table:table-row>")
		}
		sb.WriteString("</table:table>")
	}

	infoRows := [][]string{{"Title", cs.Title}}
	for _, line := range metadataLines(cs) {
		k, v, _ := strings.Cut(line, ": ")
		infoRows = append(infoRows, []string{k, v})
	}
	table("Document Info", infoRows)

	for i, s := range cs.Sections {
		rows := [][]string{{s.Title}}
		for _, line := range strings.Split(s.Body, "\n") {
			rows = append(rows, []string{line})
		}
		table(sheetName(s.Title, i), rows)
	}

	if !cs.CredentialsPreEmbedded {
		rows := [][]string{{"Type", "Value", "Label"}}
		for _, c := range cs.Credentials {
			rows = append(rows, []string{c.Type, c.Value, c.Label})
		}
		pack := content.PackFor(cs.Language)
		table(sheetName(pack.ConfigHeading, len(cs.Sections)), rows)
	}

	sb.WriteString("</office:spreadsheet>")
	sb.WriteString(odfContentClose)
	return sb.String()
}
