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

// docxBinder writes WordprocessingML containers for docx and docm. The
// legacy doc format is emitted as an RTF payload under the .doc extension;
// old Word versions and every modern detector open RTF transparently.
type docxBinder struct{}

func (b *docxBinder) Formats() []string { return []string{"docx", "docm"} }

func (b *docxBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))

	entries := []zipEntry{
		{name: "[Content_Types].xml", data: []byte(docxContentTypes)},
		{name: "_rels/.rels", data: []byte(docxRootRels)},
		{name: "docProps/core.xml", data: []byte(b.coreProps(cs))},
		{name: "word/document.xml", data: []byte(b.document(cs))},
	}
	if err := writeContainer(path, entries); err != nil {
		return "", err
	}
	return path, nil
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

// coreProps writes the document properties part. In metadata mode the
// credential block lands in the description property.
func (b *docxBinder) coreProps(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	sb.WriteString("<dc:title>" + xmlEscape(cs.Title) + "</dc:title>")
	sb.WriteString("<dc:creator>" + xmlEscape(cs.Metadata["company"]) + "</dc:creator>")
	sb.WriteString("<dc:subject>" + xmlEscape(cs.Metadata["topic"]) + "</dc:subject>")
	sb.WriteString("<dc:language>" + xmlEscape(cs.Language) + "</dc:language>")
	if cs.EmbedStrategy == content.EmbedMetadata && !cs.CredentialsPreEmbedded {
		desc := strings.Join(credentialLines(cs.Credentials), "; ")
		sb.WriteString("<dc:description>" + xmlEscape(desc) + "</dc:description>")
	}
	sb.WriteString("</cp:coreProperties>")
	return sb.String()
}

// document renders the main part: level-0 title, a level-1 heading per
// section, a paragraph per body paragraph.
func (b *docxBinder) document(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	sb.WriteString(docxHeading(cs.Title, "Title"))
	for _, s := range cs.Sections {
		sb.WriteString(docxHeading(s.Title, "Heading1"))
		for _, para := range strings.Split(s.Body, "\n\n") {
			sb.WriteString(docxParagraph(para))
		}
	}
	sb.WriteString(`<w:sectPr/></w:body></w:document>`)
	return sb.String()
}

func docxHeading(text, style string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>` + docxRuns(text) + `</w:p>`
}

func docxParagraph(text string) string {
	return "<w:p>" + docxRuns(text) + "</w:p>"
}

// docxRuns emits one run per line with explicit breaks; WordprocessingML
// ignores literal newlines inside w:t.
func docxRuns(text string) string {
	var sb strings.Builder
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		sb.WriteString(`<w:r><w:t xml:space="preserve">` + xmlEscape(line) + `</w:t></w:r>`)
		if i < len(lines)-1 {
			sb.WriteString(`<w:r><w:br/></w:r>`)
		}
	}
	return sb.String()
}
