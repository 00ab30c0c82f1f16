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
	"html"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kraklabs/sdg/pkg/content"
)

// emlBinder writes RFC 5322 multipart messages. The msg format carries the
// same MIME payload under the .msg extension.
type emlBinder struct{}

func (b *emlBinder) Formats() []string { return []string{"eml", "msg"} }

func (b *emlBinder) Synthesize(cs *content.ContentStructure, dir string) (string, error) {
	path := filepath.Join(dir, buildFilename(cs, cs.FormatType))

	company := cs.Metadata["company"]
	domain := senderDomain(company)
	boundary := "==_sdg_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	var sb strings.Builder
	writeHeader := func(k, v string) {
		sb.WriteString(k + ": " + v + "\r\n")
	}

	writeHeader("From", mime.QEncoding.Encode("utf-8", "IT Operations")+" <it-operations@"+domain+">")
	writeHeader("To", mime.QEncoding.Encode("utf-8", "Engineering")+" <engineering@"+domain+">")
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("Message-ID", "<"+uuid.NewString()+"@"+domain+">")
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", cs.Title))
	writeHeader("MIME-Version", "1.0")

	// Metadata strategy: credentials travel as X- headers instead of body
	// text.
	if cs.EmbedStrategy == content.EmbedMetadata && !cs.CredentialsPreEmbedded {
		for _, c := range cs.Credentials {
			name := "X-" + strings.ReplaceAll(strings.Title(strings.ReplaceAll(c.Type, "_", " ")), " ", "-") //nolint:staticcheck // ASCII type ids
			writeHeader(name, strings.ReplaceAll(c.Value, "\n", " "))
		}
	}

	writeHeader("Content-Type", `multipart/alternative; boundary="`+boundary+`"`)
	sb.WriteString("\r\n")

	plain := b.plainBody(cs)
	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	sb.WriteString(plain)
	sb.WriteString("\r\n--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	sb.WriteString(b.htmlBody(cs))
	sb.WriteString("\r\n--" + boundary + "--\r\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", cs.FormatType, err)
	}
	return path, nil
}

func (b *emlBinder) plainBody(cs *content.ContentStructure) string {
	var sb strings.Builder
	for _, s := range cs.Sections {
		sb.WriteString(s.Title + "\r\n\r\n")
		sb.WriteString(strings.ReplaceAll(s.Body, "\n", "\r\n"))
		sb.WriteString("\r\n\r\n")
	}
	return strings.TrimRight(sb.String(), "\r\n")
}

func (b *emlBinder) htmlBody(cs *content.ContentStructure) string {
	var sb strings.Builder
	sb.WriteString("<html><body>\r\n")
	sb.WriteString("<h1>" + html.EscapeString(cs.Title) + "</h1>\r\n")
	for _, s := range cs.Sections {
		sb.WriteString("<h2>" + html.EscapeString(s.Title) + "</h2>\r\n")
		for _, para := range strings.Split(s.Body, "\n\n") {
			sb.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(para), "\n", "<br/>") + "</p>\r\n")
		}
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// senderDomain derives a plausible mail domain from the company name.
func senderDomain(company string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(company) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "example.com"
	}
	s := sb.String()
	if len(s) > 20 {
		s = s[:20]
	}
	return s + ".example.com"
}
