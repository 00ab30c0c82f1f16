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

	"github.com/go-pdf/fpdf"

	"github.com/kraklabs/sdg/pkg/content"
)

// pdfBinder renders the document as A4 portrait PDF.
type pdfBinder struct{}

func (b *pdfBinder) Formats() []string { return []string{"pdf"} }

func (b *pdfBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, "pdf"))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(cs.Title, true)
	pdf.SetAuthor(cs.Metadata["company"], true)
	pdf.SetSubject(cs.Metadata["topic"], true)
	if cs.EmbedStrategy == content.EmbedMetadata && !cs.CredentialsPreEmbedded {
		// Document keywords are the PDF's metadata region.
		pdf.SetKeywords(strings.Join(credentialLines(cs.Credentials), "; "), true)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, tr(cs.Title), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 9)
	for _, line := range metadataLines(cs) {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(6)

	for _, s := range cs.Sections {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, tr(s.Title), "", "L", false)
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 11)
		for _, para := range strings.Split(s.Body, "\n\n") {
			pdf.MultiCell(0, 5.5, tr(strings.ReplaceAll(para, "\n", " ")), "", "L", false)
			pdf.Ln(3)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}
