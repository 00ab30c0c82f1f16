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

// Package content composes the intermediate representation every format
// binder consumes: a localized, topic-anchored document structure with the
// synthetic credentials already attached.
package content

// Embed strategies. They are declarative; the assembler resolves "random"
// per file, and each binder interprets the resolved strategy for its format.
const (
	EmbedBody     = "body"
	EmbedMetadata = "metadata"
	EmbedRandom   = "random"
)

// Credential is one produced credential instance.
type Credential struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Section is one titled block of document body text.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ContentStructure is the intermediate representation handed to binders.
type ContentStructure struct {
	Title       string            `json:"title"`
	Sections    []Section         `json:"sections"`
	Credentials []Credential      `json:"credentials"`
	Metadata    map[string]string `json:"metadata"`
	Language    string            `json:"language"`
	FormatType  string            `json:"format_type"`

	// EmbedStrategy is the resolved strategy for this file: EmbedBody or
	// EmbedMetadata, never EmbedRandom.
	EmbedStrategy string `json:"embed_strategy"`

	// CredentialsPreEmbedded is true when the assembler already wrote the
	// credential block into a section body. Binders that place credentials
	// natively must check it so values are never embedded twice.
	CredentialsPreEmbedded bool `json:"credentials_pre_embedded"`
}

// Company is one named actor from the company map.
type Company struct {
	Name     string `json:"-"`
	Language string `json:"language"`
	Country  string `json:"country"`
	Region   string `json:"region"`
}
