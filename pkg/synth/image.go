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
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font/basicfont"

	"github.com/kraklabs/sdg/pkg/content"
)

// rasterBinder paints the document onto an A4-proportioned canvas and
// encodes it as png, jpg, or bmp. Credentials are drawn as pixels, which is
// what makes the image corpus useful for OCR-path detection tests.
type rasterBinder struct{}

func (b *rasterBinder) Formats() []string { return []string{"png", "jpg", "jpeg", "bmp"} }

const (
	rasterWidth  = 1240
	rasterHeight = 1754
	rasterMargin = 60.0
)

func (b *rasterBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))

	dc := gg.NewContext(rasterWidth, rasterHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(0, 0, 0)

	y := rasterMargin
	line := func(text string, gap float64) {
		if y > rasterHeight-rasterMargin {
			return
		}
		// basicfont only covers ASCII-ish glyphs; keep lines to canvas width.
		dc.DrawString(truncateLine(text, 160), rasterMargin, y)
		y += gap
	}

	line(cs.Title, 28)
	line(strings.Repeat("=", min(len(cs.Title), 80)), 24)
	for _, m := range metadataLines(cs) {
		line(m, 18)
	}
	y += 14

	for _, s := range cs.Sections {
		line(s.Title, 22)
		for _, l := range strings.Split(s.Body, "\n") {
			line(l, 17)
		}
		y += 12
	}

	if !cs.CredentialsPreEmbedded {
		pack := content.PackFor(cs.Language)
		line(pack.ConfigHeading, 22)
		for _, cl := range credentialLines(cs.Credentials) {
			line(cl, 17)
		}
	}

	f, err := os.Create(path) //nolint:gosec // G304: path is under the run's output dir
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	defer f.Close()

	img := dc.Image()
	switch cs.FormatType {
	case "jpg", "jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	case "bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", cs.FormatType, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	return path, nil
}

func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
