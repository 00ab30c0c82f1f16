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

import "strings"

// cleanMinLength: cleaned neural output shorter than this is discarded and
// the template path is used instead.
const cleanMinLength = 10

// artifactPrefixes are line starts that mark leaked prompt instructions.
var artifactPrefixes = []string{
	"- Use",
	"- Ensure",
	"- Do not",
	"- Write",
	"- Mention",
	"Requirements:",
	"Constraints:",
	"Language:",
	"Task:",
	"Note:",
	"Generate only",
	"Output the text",
	"Here is",
	"Here's",
	"Sure,",
	"Sure!",
	"Certainly",
	"```",
}

// metaMarkers anywhere in the cleaned text mean the model is still talking
// about the task instead of doing it.
var metaMarkers = []string{
	"as an ai",
	"language model",
	"the requested text",
	"[insert",
	"{topic}",
	"{company}",
}

// CleanGenerated filters neural output line-by-line against the artifact
// blacklist. It returns "" when the result is too short or still carries
// meta-instruction markers, which signals the caller to fall back.
func CleanGenerated(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, "")
			continue
		}
		if hasArtifactPrefix(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}

	out := strings.TrimSpace(strings.Join(kept, "\n"))
	if len(out) < cleanMinLength {
		return ""
	}
	lower := strings.ToLower(out)
	for _, m := range metaMarkers {
		if strings.Contains(lower, m) {
			return ""
		}
	}
	return out
}

func hasArtifactPrefix(line string) bool {
	for _, p := range artifactPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// commonEnglishTokens drive the language-compliance heuristic. They are
// frequent English function words unlikely to appear in conforming text of
// the other supported languages.
var commonEnglishTokens = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "is": {}, "that": {},
	"for": {}, "with": {}, "this": {}, "are": {}, "was": {}, "have": {},
	"from": {}, "will": {}, "been": {}, "which": {}, "their": {}, "would": {},
}

// englishRatioThreshold: above this share of common English tokens, a
// non-English body is considered non-compliant.
const englishRatioThreshold = 0.08

// LooksEnglish reports whether text reads as English by common-token ratio.
// Short texts (under 5 words) are never flagged.
func LooksEnglish(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 5 {
		return false
	}
	hits := 0
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?()\"'")
		if _, ok := commonEnglishTokens[w]; ok {
			hits++
		}
	}
	return float64(hits)/float64(len(words)) > englishRatioThreshold
}
