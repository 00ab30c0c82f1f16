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
	"path/filepath"
	"strings"

	"github.com/kraklabs/sdg/pkg/content"
)

// pptxBinder writes PresentationML containers. The legacy ppt extension
// carries the same container under the old name.
type pptxBinder struct{}

func (b *pptxBinder) Formats() []string { return []string{"pptx", "ppt"} }

type slide struct {
	title string
	lines []string
	notes []string

	// creds, when set, renders instead of lines: one color-coded run per
	// credential, matching the workbook's credentials sheet.
	creds []content.Credential
}

func (b *pptxBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))

	slides := b.slides(cs)

	entries := []zipEntry{
		{name: "[Content_Types].xml", data: []byte(b.contentTypes(slides))},
		{name: "_rels/.rels", data: []byte(pptxRootRels)},
		{name: "docProps/core.xml", data: []byte(b.coreProps(cs))},
		{name: "ppt/presentation.xml", data: []byte(b.presentation(slides))},
		{name: "ppt/_rels/presentation.xml.rels", data: []byte(b.presentationRels(slides))},
	}
	for i, s := range slides {
		entries = append(entries, zipEntry{
			name: fmt.Sprintf("ppt/slides/slide%d.xml", i+1),
			data: []byte(b.slideXML(s)),
		})
		if len(s.notes) > 0 {
			entries = append(entries,
				zipEntry{
					name: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1),
					data: []byte(fmt.Sprintf(pptxSlideRels, i+1)),
				},
				zipEntry{
					name: fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", i+1),
					data: []byte(b.notesXML(s)),
				})
		}
	}

	if err := writeContainer(path, entries); err != nil {
		return "", err
	}
	return path, nil
}

// slides lays the deck out: a title slide, one slide per section, and a
// closing slide holding the credential block in its speaker notes.
func (b *pptxBinder) slides(cs *content.ContentStructure) []slide {
	out := []slide{{title: cs.Title, lines: []string{cs.Metadata["company"]}}}
	for _, s := range cs.Sections {
		out = append(out, slide{title: s.Title, lines: strings.Split(s.Body, "\n")})
	}
	if !cs.CredentialsPreEmbedded {
		pack := content.PackFor(cs.Language)
		out = append(out, slide{
			title: pack.ConfigHeading,
			creds: cs.Credentials,
			notes: credentialLines(cs.Credentials),
		})
	}
	return out
}

func (b *pptxBinder) contentTypes(slides []slide) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
`)
	for i, s := range slides {
		sb.WriteString(fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`+"\n", i+1))
		if len(s.notes) > 0 {
			sb.WriteString(fmt.Sprintf(`<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`+"\n", i+1))
		}
	}
	sb.WriteString("</Types>")
	return sb.String()
}

const pptxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const pptxSlideRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>
</Relationships>`

func (b *pptxBinder) coreProps(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	sb.WriteString("<dc:title>" + xmlEscape(cs.Title) + "</dc:title>")
	sb.WriteString("<dc:creator>" + xmlEscape(cs.Metadata["company"]) + "</dc:creator>")
	sb.WriteString("<dc:subject>" + xmlEscape(cs.Metadata["topic"]) + "</dc:subject>")
	if cs.EmbedStrategy == content.EmbedMetadata && !cs.CredentialsPreEmbedded {
		sb.WriteString("<dc:description>" + xmlEscape(strings.Join(credentialLines(cs.Credentials), "; ")) + "</dc:description>")
	}
	sb.WriteString("</cp:coreProperties>")
	return sb.String()
}

func (b *pptxBinder) presentation(slides []slide) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><p:sldIdLst>`)
	for i := range slides {
		sb.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+1))
	}
	sb.WriteString(`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`)
	return sb.String()
}

func (b *pptxBinder) presentationRels(slides []slide) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + "\n")
	for i := range slides {
		sb.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`+"\n", i+1, i+1))
	}
	sb.WriteString("</Relationships>")
	return sb.String()
}

func (b *pptxBinder) slideXML(s slide) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	sb.WriteString(pptxTextBox(2, "Title", 457200, 274638, []string{s.title}))
	switch {
	case len(s.creds) > 0:
		sb.WriteString(pptxCredentialBox(3, s.creds))
	case len(s.lines) > 0:
		sb.WriteString(pptxTextBox(3, "Body", 457200, 1600200, s.lines))
	}
	sb.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return sb.String()
}

func (b *pptxBinder) notesXML(s slide) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	sb.WriteString(pptxTextBox(2, "Notes", 457200, 457200, s.notes))
	sb.WriteString(`</p:spTree></p:cSld></p:notes>`)
	return sb.String()
}

// pptxTextBox emits one shape with a paragraph per line. Offsets are EMUs.
func pptxTextBox(id int, name string, offX, offY int, lines []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, name))
	sb.WriteString(fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="11277600" cy="1143000"/></a:xfrm></p:spPr>`, offX, offY))
	sb.WriteString(`<p:txBody><a:bodyPr wrap="square"/>`)
	for _, line := range lines {
		sb.WriteString(`<a:p><a:r><a:t>` + xmlEscape(line) + `</a:t></a:r></a:p>`)
	}
	sb.WriteString(`</p:txBody></p:sp>`)
	return sb.String()
}

// pptxCredentialBox emits the credentials shape: one bold run per value,
// colored by type family from the shared palette.
func pptxCredentialBox(id int, creds []content.Credential) string {
	colors := familyColorMap(creds)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Credentials"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id))
	sb.WriteString(`<p:spPr><a:xfrm><a:off x="457200" y="1600200"/><a:ext cx="11277600" cy="1143000"/></a:xfrm></p:spPr>`)
	sb.WriteString(`<p:txBody><a:bodyPr wrap="square"/>`)
	for _, c := range creds {
		sb.WriteString(`<a:p><a:r>`)
		sb.WriteString(`<a:rPr b="1"><a:solidFill><a:srgbClr val="` + colors[credFamily(c.Type)] + `"/></a:solidFill></a:rPr>`)
		sb.WriteString(`<a:t>` + xmlEscape(c.Label+": "+c.Value) + `</a:t></a:r></a:p>`)
	}
	sb.WriteString(`</p:txBody></p:sp>`)
	return sb.String()
}
