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

// Package synth serializes ContentStructures into concrete file formats.
//
// Each binder covers one format family (message, workbook, word-processing,
// presentation, OpenDocument, PDF, raster, diagram) behind a single
// Synthesize contract. The registry routes by format type; a format without
// a working binder falls back to a plain-text rendition so a run never
// produces nothing for a requested file.
package synth

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kraklabs/sdg/pkg/content"
)

// Binder serializes one format family.
type Binder interface {
	// Synthesize writes cs to a file under dir and returns the path.
	Synthesize(cs *content.ContentStructure, dir string) (string, error)

	// Formats lists the format types this binder accepts.
	Formats() []string
}

// Registry routes ContentStructures to binders by format type.
type Registry struct {
	outputDir string
	byFormat  map[string]Binder
}

// NewRegistry builds a registry with every built-in binder, writing under
// outputDir.
func NewRegistry(outputDir string) *Registry {
	r := &Registry{
		outputDir: outputDir,
		byFormat:  make(map[string]Binder),
	}
	r.Register(&emlBinder{})
	r.Register(&workbookBinder{})
	r.Register(&docxBinder{})
	r.Register(&rtfBinder{})
	r.Register(&odfBinder{})
	r.Register(&pptxBinder{})
	r.Register(&pdfBinder{})
	r.Register(&rasterBinder{})
	r.Register(&visioBinder{})
	return r
}

// Register adds a binder for each of its formats.
func (r *Registry) Register(b Binder) {
	for _, f := range b.Formats() {
		r.byFormat[f] = b
	}
}

// Synthesize routes cs to its binder. A missing binder or a binder failure
// degrades to the textual fallback; only a fallback write failure is
// returned as an error.
func (r *Registry) Synthesize(cs *content.ContentStructure) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	b, ok := r.byFormat[cs.FormatType]
	if !ok {
		slog.Warn("synth.binder.missing", "format", cs.FormatType)
		return writeTextFallback(cs, r.outputDir)
	}

	path, err := b.Synthesize(cs, r.outputDir)
	if err != nil {
		slog.Warn("synth.binder.fallback", "format", cs.FormatType, "error", err)
		return writeTextFallback(cs, r.outputDir)
	}
	return path, nil
}

// buildFilename renders the shared scheme
// <kind>_<slug-of-title>_<yyyymmdd_hhmmss>_<rand4>.<ext>.
func buildFilename(cs *content.ContentStructure, ext string) string {
	kind := "document"
	if tmpl, ok := content.TemplateFor(cs.FormatType); ok {
		kind = string(tmpl.Kind)
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s",
		kind, slugify(cs.Title), time.Now().Format("20060102_150405"), rand4(), ext)
}

// slugify lowercases and keeps alnum, '-', '_'; runs of other characters
// collapse into single dashes. Long slugs are truncated.
func slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
			dash = false
		default:
			if !dash && sb.Len() > 0 {
				sb.WriteByte('-')
				dash = true
			}
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "untitled"
	}
	if len(slug) > 48 {
		slug = strings.Trim(slug[:48], "-")
	}
	return slug
}

func rand4() string {
	return uuid.NewString()[:4]
}

// writeTextFallback emits the whole structure as plain text under .txt.
func writeTextFallback(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, "txt"))

	var sb strings.Builder
	sb.WriteString(cs.Title + "\n")
	sb.WriteString(strings.Repeat("=", len(cs.Title)) + "\n\n")
	for _, line := range metadataLines(cs) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
	for _, s := range cs.Sections {
		sb.WriteString(s.Title + "\n")
		sb.WriteString(strings.Repeat("-", len(s.Title)) + "\n")
		sb.WriteString(s.Body + "\n\n")
	}
	if !cs.CredentialsPreEmbedded {
		for _, c := range cs.Credentials {
			sb.WriteString(c.Label + ": " + c.Value + "\n")
		}
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write text fallback: %w", err)
	}
	return path, nil
}

// familyColors color-code credential rows by type family across binders:
// the workbook's credentials sheet and the presentation's credentials slide
// draw from the same palette.
var familyColors = []string{"FFE699", "C6E0B4", "F8CBAD", "BDD7EE", "D9D9D9", "FFD6E8", "E2CFEA"}

// credFamily is the token before the first underscore of a type id, e.g.
// "aws" for aws_access_key.
func credFamily(credType string) string {
	return strings.SplitN(credType, "_", 2)[0]
}

// familyColorMap assigns each family a palette color in order of first
// appearance, so one structure renders consistently in every binder.
func familyColorMap(creds []content.Credential) map[string]string {
	colors := make(map[string]string)
	for _, c := range creds {
		family := credFamily(c.Type)
		if _, ok := colors[family]; !ok {
			colors[family] = familyColors[len(colors)%len(familyColors)]
		}
	}
	return colors
}

// metadataLines renders metadata in a stable order.
func metadataLines(cs *content.ContentStructure) []string {
	keys := []string{"topic", "language", "format", "generatedAt", "company", "country", "region"}
	var out []string
	for _, k := range keys {
		if v, ok := cs.Metadata[k]; ok && v != "" {
			out = append(out, k+": "+v)
		}
	}
	return out
}
