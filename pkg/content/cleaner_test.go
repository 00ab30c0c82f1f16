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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanGeneratedStripsArtifacts(t *testing.T) {
	in := "Here is the section you asked for:\n" +
		"- Use a formal tone\n" +
		"The migration window opens on Friday evening.\n" +
		"Requirements: none\n" +
		"All services will be drained beforehand."
	out := CleanGenerated(in)

	assert.Contains(t, out, "migration window")
	assert.Contains(t, out, "drained beforehand")
	assert.NotContains(t, out, "formal tone")
	assert.NotContains(t, out, "Requirements")
	assert.NotContains(t, out, "Here is")
}

func TestCleanGeneratedRejectsShort(t *testing.T) {
	assert.Empty(t, CleanGenerated("ok"))
	assert.Empty(t, CleanGenerated("- Use bullet points\n- Ensure clarity"))
}

func TestCleanGeneratedRejectsMetaMarkers(t *testing.T) {
	assert.Empty(t, CleanGenerated("As an AI language model I cannot write internal documents."))
	assert.Empty(t, CleanGenerated("The report about {topic} is attached for review by the team."))
}

func TestLooksEnglish(t *testing.T) {
	assert.True(t, LooksEnglish("The team reviewed the plan and agreed that the rollout of the system will proceed."))
	assert.False(t, LooksEnglish("L'équipe a examiné le plan et validé les étapes décrites ci-dessous."))
	assert.False(t, LooksEnglish("too short"))
}

func TestTemplateCoverage(t *testing.T) {
	// The closed format set from the request contract.
	formats := []string{
		"eml", "msg", "xlsm", "xlsx", "xltm", "xls", "xlsb",
		"docx", "doc", "docm", "rtf", "pptx", "ppt",
		"odf", "ods", "odp", "odt", "pdf",
		"png", "jpg", "jpeg", "bmp",
		"vsd", "vsdx", "vsdm", "vssx", "vssm", "vstx", "vstm",
	}
	for _, f := range formats {
		tmpl, ok := TemplateFor(f)
		require.True(t, ok, "format %s has no template", f)
		assert.NotEmpty(t, tmpl.Sections, f)
	}
	assert.False(t, SupportedFormat("tiff"))
	assert.Len(t, SupportedFormats(), len(formats))
}

func TestPackFallbacks(t *testing.T) {
	assert.Equal(t, "en", PackFor("xx").Code)
	assert.Equal(t, "Overview", PackFor("xx").SectionTitle("overview"))

	// A key missing from a non-English pack falls back to English.
	assert.NotEmpty(t, PackFor("fr").SectionTitle("overview"))
}

func TestAllPacksComplete(t *testing.T) {
	keys := []string{"overview", "background", "details", "configuration",
		"implementation", "security", "timeline", "next_steps", "summary",
		"agenda", "budget", "contacts", "setup", "notes"}

	for _, code := range SupportedLanguages {
		p := PackFor(code)
		require.Equal(t, code, p.Code)
		assert.NotEmpty(t, p.TitleTemplates, code)
		assert.NotEmpty(t, p.BodyTemplates, code)
		assert.NotEmpty(t, p.ConfigHeading, code)
		assert.NotEmpty(t, p.Greeting, code)
		for _, k := range keys {
			assert.Contains(t, p.SectionTitles, k, "pack %s missing section %s", code, k)
		}
	}
}

func TestCredentialLabels(t *testing.T) {
	fr := PackFor("fr")
	assert.Equal(t, "Clé API", fr.LabelFor("gcp_api_key"))
	assert.Equal(t, "Jeton d'accès", fr.LabelFor("github_pat"))
	assert.Equal(t, "Chaîne de connexion", fr.LabelFor("postgres_connection_string"))
	assert.Equal(t, "Clé privée", fr.LabelFor("rsa_private_key"))

	en := PackFor("en")
	assert.Equal(t, "Certificate", en.LabelFor("tls_certificate"))
	assert.Equal(t, "Webhook URL", en.LabelFor("slack_webhook_url"))
	assert.NotEmpty(t, en.LabelFor("something_never_seen"))
}
