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

	"github.com/xuri/excelize/v2"

	"github.com/kraklabs/sdg/pkg/content"
)

// workbookBinder writes spreadsheet workbooks. The modern formats go
// through excelize; the legacy xls and xlsb containers are emitted as
// SpreadsheetML 2003 flat XML under the requested extension.
type workbookBinder struct{}

func (b *workbookBinder) Formats() []string {
	return []string{"xlsx", "xlsm", "xltm", "xls", "xlsb"}
}

func (b *workbookBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))

	switch cs.FormatType {
	case "xls", "xlsb":
		return path, b.writeSpreadsheetML(cs, path)
	default:
		return path, b.writeWorkbook(cs, path)
	}
}

func (b *workbookBinder) writeWorkbook(cs *content.ContentStructure, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const info = "Document Info"
	if err := f.SetSheetName("Sheet1", info); err != nil {
		return fmt.Errorf("workbook info sheet: %w", err)
	}
	infoRows := [][2]string{{"Title", cs.Title}}
	for _, line := range metadataLines(cs) {
		k, v, _ := strings.Cut(line, ": ")
		infoRows = append(infoRows, [2]string{k, v})
	}
	for i, row := range infoRows {
		_ = f.SetCellValue(info, fmt.Sprintf("A%d", i+1), row[0])
		_ = f.SetCellValue(info, fmt.Sprintf("B%d", i+1), row[1])
	}

	for i, s := range cs.Sections {
		name := sheetName(s.Title, i)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("workbook sheet %q: %w", name, err)
		}
		_ = f.SetCellValue(name, "A1", s.Title)
		row := 3
		for _, line := range strings.Split(s.Body, "\n") {
			_ = f.SetCellValue(name, fmt.Sprintf("A%d", row), line)
			row++
		}
	}

	// The dedicated credentials sheet is the workbook's native metadata
	// region; skip it when the assembler already embedded the values.
	if !cs.CredentialsPreEmbedded {
		if err := b.credentialsSheet(f, cs); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (b *workbookBinder) credentialsSheet(f *excelize.File, cs *content.ContentStructure) error {
	pack := content.PackFor(cs.Language)
	name := sheetName(pack.ConfigHeading, len(cs.Sections))
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("credentials sheet: %w", err)
	}

	_ = f.SetCellValue(name, "A1", "Type")
	_ = f.SetCellValue(name, "B1", "Value")
	_ = f.SetCellValue(name, "C1", "Label")
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(name, "A1", "C1", header)
	}

	colors := familyColorMap(cs.Credentials)
	for i, c := range cs.Credentials {
		row := i + 2
		_ = f.SetCellValue(name, fmt.Sprintf("A%d", row), c.Type)
		_ = f.SetCellValue(name, fmt.Sprintf("B%d", row), c.Value)
		_ = f.SetCellValue(name, fmt.Sprintf("C%d", row), c.Label)

		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{colors[credFamily(c.Type)]}, Pattern: 1},
		})
		if err != nil {
			continue
		}
		_ = f.SetCellStyle(name, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), style)
	}
	return nil
}

// sheetName makes a legal, unique worksheet name: Excel forbids several
// characters and caps names at 31 runes.
func sheetName(title string, idx int) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, title)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = "Sheet"
	}
	suffix := fmt.Sprintf(" %d", idx+1)
	if runes := []rune(cleaned); len(runes) > 31-len(suffix) {
		cleaned = string(runes[:31-len(suffix)])
	}
	return cleaned + suffix
}

// writeSpreadsheetML emits the 2003 flat-XML workbook used for the legacy
// extensions.
func (b *workbookBinder) writeSpreadsheetML(cs *content.ContentStructure, path string) error {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?>` + "\n")
	sb.WriteString(`<?mso-application progid="Excel.Sheet"?>` + "\n")
	sb.WriteString(`<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet" xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">` + "\n")

	writeSheet := func(name string, rows [][]string) {
		sb.WriteString(`<Worksheet ss:Name="` + xmlEscape(name) + `"><Table>` + "\n")
		for _, row := range rows {
			sb.WriteString("<Row>")
			for _, cell := range row {
				sb.WriteString(`<Cell><Data ss:Type="String">` + xmlEscape(cell) + `</Data></Cell>`)
			}
			sb.WriteString("</Row>\n")
		}
		sb.WriteString("</Table></Worksheet>\n")
	}

	infoRows := [][]string{{"Title", cs.Title}}
	for _, line := range metadataLines(cs) {
		k, v, _ := strings.Cut(line, ": ")
		infoRows = append(infoRows, []string{k, v})
	}
	writeSheet("Document Info", infoRows)

	for i, s := range cs.Sections {
		rows := [][]string{{s.Title}}
		for _, line := range strings.Split(s.Body, "\n") {
			rows = append(rows, []string{line})
		}
		writeSheet(sheetName(s.Title, i), rows)
	}

	if !cs.CredentialsPreEmbedded {
		rows := [][]string{{"Type", "Value", "Label"}}
		for _, c := range cs.Credentials {
			rows = append(rows, []string{c.Type, c.Value, c.Label})
		}
		pack := content.PackFor(cs.Language)
		writeSheet(sheetName(pack.ConfigHeading, len(cs.Sections)), rows)
	}

	sb.WriteString("</Workbook>\n")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", cs.FormatType, err)
	}
	return nil
}
