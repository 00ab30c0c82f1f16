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

package content

import "sort"

// StructureKind describes the overall document shape a format expects.
type StructureKind string

const (
	KindEmail        StructureKind = "email"
	KindDocument     StructureKind = "document"
	KindPresentation StructureKind = "presentation"
	KindSpreadsheet  StructureKind = "spreadsheet"
	KindImage        StructureKind = "image"
	KindDiagram      StructureKind = "diagram"
)

// FormatTemplate maps a format type to its structure kind and the canonical
// section keys the assembler fills.
type FormatTemplate struct {
	Kind     StructureKind
	Sections []string
}

var (
	emailTemplate        = FormatTemplate{KindEmail, []string{"overview", "details", "configuration", "next_steps"}}
	documentTemplate     = FormatTemplate{KindDocument, []string{"overview", "background", "implementation", "configuration", "security", "next_steps"}}
	presentationTemplate = FormatTemplate{KindPresentation, []string{"overview", "agenda", "details", "configuration", "timeline", "summary"}}
	spreadsheetTemplate  = FormatTemplate{KindSpreadsheet, []string{"overview", "details", "configuration", "notes"}}
	imageTemplate        = FormatTemplate{KindImage, []string{"overview", "configuration", "notes"}}
	diagramTemplate      = FormatTemplate{KindDiagram, []string{"overview", "details", "configuration"}}
)

// formatTemplates covers the closed format set. Every supported format must
// have an entry; the orchestrator validates requests against this table.
var formatTemplates = map[string]FormatTemplate{
	"eml": emailTemplate,
	"msg": emailTemplate,

	"xlsx": spreadsheetTemplate,
	"xlsm": spreadsheetTemplate,
	"xltm": spreadsheetTemplate,
	"xls":  spreadsheetTemplate,
	"xlsb": spreadsheetTemplate,
	"ods":  spreadsheetTemplate,

	"docx": documentTemplate,
	"doc":  documentTemplate,
	"docm": documentTemplate,
	"rtf":  documentTemplate,
	"odt":  documentTemplate,
	"odf":  documentTemplate,
	"pdf":  documentTemplate,

	"pptx": presentationTemplate,
	"ppt":  presentationTemplate,
	"odp":  presentationTemplate,

	"png":  imageTemplate,
	"jpg":  imageTemplate,
	"jpeg": imageTemplate,
	"bmp":  imageTemplate,

	"vsd":  diagramTemplate,
	"vsdx": diagramTemplate,
	"vsdm": diagramTemplate,
	"vssx": diagramTemplate,
	"vssm": diagramTemplate,
	"vstx": diagramTemplate,
	"vstm": diagramTemplate,
}

// TemplateFor returns the format template for a format type.
func TemplateFor(format string) (FormatTemplate, bool) {
	t, ok := formatTemplates[format]
	return t, ok
}

// SupportedFormat reports whether the format type is in the closed set.
func SupportedFormat(format string) bool {
	_, ok := formatTemplates[format]
	return ok
}

// SupportedFormats returns the closed format set, sorted.
func SupportedFormats() []string {
	out := make([]string, 0, len(formatTemplates))
	for f := range formatTemplates {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
