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
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/sdg/pkg/credgen"
	"github.com/kraklabs/sdg/pkg/patterndb"
)

func newTestAssembler() *Assembler {
	factory := credgen.NewFactory(patterndb.Builtin(), credgen.NewRegistry())
	a := NewAssembler(factory, BuiltinCompanies())
	a.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return a
}

func params(seed int64, format, lang, strategy string) Params {
	return Params{
		Topic:           "database migration",
		CredentialTypes: []string{"aws_access_key", "postgres_connection_string"},
		Language:        lang,
		Format:          format,
		EmbedStrategy:   strategy,
		Rand:            rand.New(rand.NewSource(seed)),
	}
}

func TestAssembleDocument(t *testing.T) {
	a := newTestAssembler()
	cs, err := a.Assemble(context.Background(), params(1, "docx", "en", EmbedBody))
	require.NoError(t, err)

	assert.NotEmpty(t, cs.Title)
	assert.Contains(t, cs.Title, "database migration")
	require.Len(t, cs.Sections, 6)
	assert.Equal(t, "Overview", cs.Sections[0].Title)
	require.Len(t, cs.Credentials, 2)
	assert.Equal(t, "en", cs.Language)
	assert.Equal(t, "docx", cs.FormatType)

	assert.Equal(t, "database migration", cs.Metadata["topic"])
	assert.Equal(t, "2026-03-14T09:30:00Z", cs.Metadata["generatedAt"])
	assert.NotEmpty(t, cs.Metadata["company"])
}

func TestEmbedBodyPlacesCredentialsInConfigSection(t *testing.T) {
	a := newTestAssembler()
	cs, err := a.Assemble(context.Background(), params(2, "docx", "en", EmbedBody))
	require.NoError(t, err)
	require.True(t, cs.CredentialsPreEmbedded)

	var configBody string
	for _, s := range cs.Sections {
		if s.Title == "Configuration" {
			configBody = s.Body
		}
	}
	require.NotEmpty(t, configBody)
	assert.Contains(t, configBody, "Configuration Details")
	for _, c := range cs.Credentials {
		assert.Contains(t, configBody, c.Value)
		assert.Contains(t, configBody, c.Label+": ")
	}
}

func TestEmbedMetadataLeavesBodiesClean(t *testing.T) {
	a := newTestAssembler()
	cs, err := a.Assemble(context.Background(), params(3, "docx", "en", EmbedMetadata))
	require.NoError(t, err)

	assert.False(t, cs.CredentialsPreEmbedded)
	require.NotEmpty(t, cs.Credentials)
	for _, s := range cs.Sections {
		for _, c := range cs.Credentials {
			assert.NotContains(t, s.Body, c.Value)
		}
	}
}

func TestAssembleFrenchLocalization(t *testing.T) {
	a := newTestAssembler()
	p := params(4, "docx", "fr", EmbedBody)
	p.CredentialTypes = []string{"gcp_api_key"}
	cs, err := a.Assemble(context.Background(), p)
	require.NoError(t, err)

	titles := make([]string, len(cs.Sections))
	for i, s := range cs.Sections {
		titles[i] = s.Title
	}
	assert.Contains(t, titles, "Vue d'ensemble")
	assert.Contains(t, titles, "Configuration")
	require.Len(t, cs.Credentials, 1)
	assert.Equal(t, "Clé API", cs.Credentials[0].Label)

	company, ok := BuiltinCompanies().Lookup(cs.Metadata["company"])
	require.True(t, ok)
	assert.Equal(t, "fr", company.Language)
}

func TestAssembleDeterminism(t *testing.T) {
	run := func() *ContentStructure {
		a := newTestAssembler()
		cs, err := a.Assemble(context.Background(), params(42, "eml", "en", EmbedBody))
		require.NoError(t, err)
		return cs
	}
	assert.Equal(t, run(), run())
}

func TestParallelSectionsMatchSequential(t *testing.T) {
	sequential := func() *ContentStructure {
		a := newTestAssembler()
		cs, err := a.Assemble(context.Background(), params(7, "pptx", "en", EmbedBody))
		require.NoError(t, err)
		return cs
	}
	parallel := func() *ContentStructure {
		a := newTestAssembler().WithParallelSections(true)
		cs, err := a.Assemble(context.Background(), params(7, "pptx", "en", EmbedBody))
		require.NoError(t, err)
		return cs
	}
	assert.Equal(t, sequential(), parallel())
}

func TestAssembleUnsupportedFormat(t *testing.T) {
	a := newTestAssembler()
	_, err := a.Assemble(context.Background(), params(1, "tiff", "en", EmbedBody))
	assert.Error(t, err)
}

func TestAssembleUnresolvedStrategy(t *testing.T) {
	a := newTestAssembler()
	_, err := a.Assemble(context.Background(), params(1, "docx", "en", EmbedRandom))
	assert.Error(t, err)
}

// Ultra-fast caches must not change what a given seed produces: the same
// parameters yield the same document on a cold cache, a cache warmed by
// other files, and with the caches off entirely.
func TestUltraFastIndependentOfCacheState(t *testing.T) {
	ctx := context.Background()
	p := func() Params { return params(10, "docx", "de", EmbedMetadata) }

	plain, err := newTestAssembler().Assemble(ctx, p())
	require.NoError(t, err)

	cold, err := newTestAssembler().WithUltraFast(true).Assemble(ctx, p())
	require.NoError(t, err)

	warm := newTestAssembler().WithUltraFast(true)
	for _, seed := range []int64{20, 21, 22} {
		_, err := warm.Assemble(ctx, params(seed, "docx", "de", EmbedMetadata))
		require.NoError(t, err)
	}
	warmCS, err := warm.Assemble(ctx, p())
	require.NoError(t, err)

	assert.Equal(t, plain.Metadata["company"], cold.Metadata["company"])
	assert.Equal(t, plain.Metadata["company"], warmCS.Metadata["company"])
	assert.Equal(t, plain.Title, warmCS.Title)
	assert.Equal(t, plain.Sections, warmCS.Sections)
}

type cannedGenerator struct {
	text string
	err  error
}

func (c *cannedGenerator) GenerateText(context.Context, string, int, float64) (string, error) {
	return c.text, c.err
}

func TestNeuralTitleCleaned(t *testing.T) {
	a := newTestAssembler().WithNeural(&cannedGenerator{
		text: "Here is your title:\nMigration Runbook for Q3\n",
	})
	cs, err := a.Assemble(context.Background(), params(5, "docx", "en", EmbedBody))
	require.NoError(t, err)
	assert.Equal(t, "Migration Runbook for Q3", cs.Title)
}

func TestNeuralGarbageFallsBackToTemplates(t *testing.T) {
	a := newTestAssembler().WithNeural(&cannedGenerator{text: "ok"})
	cs, err := a.Assemble(context.Background(), params(6, "docx", "en", EmbedBody))
	require.NoError(t, err)

	// "ok" is under the cleaner's length floor, so the template path runs.
	assert.Contains(t, cs.Title, "database migration")
	for _, s := range cs.Sections {
		assert.NotEmpty(t, s.Body)
	}
}

func TestLanguageCompliancePass(t *testing.T) {
	english := "The team has reviewed the plan and the rollout of the new system will start next week for all of the regions."
	gen := &swappingGenerator{first: english, second: "L'équipe a examiné le plan et le déploiement commencera la semaine prochaine."}
	a := newTestAssembler().WithNeural(gen)

	p := params(8, "png", "fr", EmbedBody)
	cs, err := a.Assemble(context.Background(), p)
	require.NoError(t, err)

	for _, s := range cs.Sections {
		body := strings.Split(s.Body, "\n\n")[0]
		assert.False(t, LooksEnglish(body), "section %q kept English body: %q", s.Title, body)
	}
}

// swappingGenerator returns first on initial calls and second once a
// translation prompt arrives.
type swappingGenerator struct {
	first  string
	second string
}

func (g *swappingGenerator) GenerateText(_ context.Context, prompt string, _ int, _ float64) (string, error) {
	if strings.HasPrefix(prompt, "Translate") {
		return g.second, nil
	}
	return g.first, nil
}
