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

package llm

import (
	"fmt"
	"strings"
)

// DocumentPrompt builds prompts for business-document text generation.
type DocumentPrompt struct {
	// Task is what to produce: "a document title", "two paragraphs", ...
	Task string

	// Topic anchors the text.
	Topic string

	// Company is the named actor the text is written for.
	Company string

	// Language is the ISO-like code the output must be written in.
	Language string

	// Section names the document section being written, if any.
	Section string

	// Constraints are extra bullet requirements.
	Constraints []string
}

// languageNames maps supported codes to the name used in prompts.
var languageNames = map[string]string{
	"en": "English", "fr": "French", "es": "Spanish", "de": "German",
	"it": "Italian", "pt": "Portuguese", "nl": "Dutch", "tr": "Turkish",
	"zh": "Chinese", "ja": "Japanese",
}

// LanguageName returns the prompt-facing name for a language code,
// defaulting to English.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

// Build renders the prompt.
func (dp DocumentPrompt) Build() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write %s for an internal business document about %q.\n", dp.Task, dp.Topic)
	if dp.Company != "" {
		fmt.Fprintf(&sb, "The document belongs to %s.\n", dp.Company)
	}
	if dp.Section != "" {
		fmt.Fprintf(&sb, "It is the %q section of the document.\n", dp.Section)
	}
	fmt.Fprintf(&sb, "Write entirely in %s.\n", LanguageName(dp.Language))
	for _, c := range dp.Constraints {
		fmt.Fprintf(&sb, "- %s\n", c)
	}
	sb.WriteString("Output the text only, with no preamble, headings, or commentary.")

	return sb.String()
}

// TranslatePrompt builds the language-compliance re-prompt: the body came
// back in the wrong language and must be rewritten.
func TranslatePrompt(body, language string) string {
	return fmt.Sprintf(
		"Translate the following text into %s. Keep line breaks and any code-like tokens exactly as they are.\n\n%s",
		LanguageName(language), body)
}
