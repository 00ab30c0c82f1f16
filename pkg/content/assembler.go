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
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kraklabs/sdg/pkg/credgen"
	"github.com/kraklabs/sdg/pkg/llm"
)

// TextGenerator is the neural capability the assembler optionally consumes.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

const (
	titleMaxTokens = 64
	bodyMaxTokens  = 512

	// translateMaxRunes bounds the body passed to the translation
	// re-prompt so the prompt stays inside model context limits.
	translateMaxRunes = 4000

	// sectionParallelism bounds the inner errgroup.
	sectionParallelism = 4
)

// Params is one file's assembly input. Rand is the per-file RNG derived from
// (seed, fileIndex); EmbedStrategy must already be resolved to body or
// metadata.
type Params struct {
	Topic           string
	CredentialTypes []string
	Language        string
	Format          string
	EmbedStrategy   string
	Rand            *rand.Rand
	FileIndex       int
	Temperature     float64
}

// Assembler composes ContentStructures from topic, language, company, and
// format. One Assembler may serve many workers; its caches are guarded.
type Assembler struct {
	factory   *credgen.Factory
	companies *CompanyMap

	neural           TextGenerator
	useNeuralContent bool

	// ultraFast enables the per-run company and section-template caches.
	ultraFast bool

	// parallel enables bounded intra-file concurrency for sections and
	// credential generation when a file has more than two sections.
	parallel bool

	now func() time.Time

	// The caches memoize resolved records only; every RNG draw still
	// happens, so cache state never shifts the per-file stream.
	mu            sync.Mutex
	companyCache  map[string]Company
	templateCache map[templateKey]string
}

type templateKey struct {
	section  string
	language string
	company  string
	draw     int
}

// NewAssembler builds an assembler over the credential factory and company
// map. Both are shared read-only collaborators.
func NewAssembler(factory *credgen.Factory, companies *CompanyMap) *Assembler {
	return &Assembler{
		factory:       factory,
		companies:     companies,
		now:           time.Now,
		companyCache:  make(map[string]Company),
		templateCache: make(map[templateKey]string),
	}
}

// WithNeural enables neural body and title generation backed by gen.
func (a *Assembler) WithNeural(gen TextGenerator) *Assembler {
	a.neural = gen
	a.useNeuralContent = gen != nil
	return a
}

// WithUltraFast toggles the company/template caches.
func (a *Assembler) WithUltraFast(on bool) *Assembler {
	a.ultraFast = on
	return a
}

// WithParallelSections toggles bounded intra-file parallelism.
func (a *Assembler) WithParallelSections(on bool) *Assembler {
	a.parallel = on
	return a
}

// Assemble produces one ContentStructure for the given parameters.
//
// Determinism: all RNG draws happen in a fixed order on p.Rand before any
// concurrent work starts, so identical (seed, fileIndex) inputs yield
// identical output when the neural path is disabled.
func (a *Assembler) Assemble(ctx context.Context, p Params) (*ContentStructure, error) {
	tmpl, ok := TemplateFor(p.Format)
	if !ok {
		return nil, fmt.Errorf("unsupported format type %q", p.Format)
	}
	if p.EmbedStrategy != EmbedBody && p.EmbedStrategy != EmbedMetadata {
		return nil, fmt.Errorf("embed strategy %q not resolved", p.EmbedStrategy)
	}

	lang := p.Language
	if lang == "" {
		lang = "en"
	}
	pack := PackFor(lang)
	company := a.pickCompany(lang, p.Rand)

	// Draw every random choice up front, in section order, so the later
	// concurrent phase cannot perturb the sequence.
	titleIdx := p.Rand.Intn(len(pack.TitleTemplates))
	bodyIdx := make([]int, len(tmpl.Sections))
	for i := range tmpl.Sections {
		bodyIdx[i] = p.Rand.Intn(len(pack.BodyTemplates))
	}
	credRand := rand.New(rand.NewSource(p.Rand.Int63())) //nolint:gosec // derived deterministic stream

	title := a.buildTitle(ctx, p, pack, company, titleIdx)

	sections := make([]Section, len(tmpl.Sections))
	credentials := make([]Credential, 0, len(p.CredentialTypes))

	buildSection := func(i int) {
		key := tmpl.Sections[i]
		sections[i] = Section{
			Title: pack.SectionTitle(key),
			Body:  a.buildBody(ctx, p, pack, company, key, bodyIdx[i]),
		}
	}
	buildCredentials := func() error {
		gctx := credgen.GenContext{Rand: credRand, Topic: p.Topic, Company: company.Name, Language: lang}
		for _, credType := range p.CredentialTypes {
			value, err := a.factory.Generate(ctx, credType, gctx)
			if err != nil {
				return fmt.Errorf("credential %q: %w", credType, err)
			}
			credentials = append(credentials, Credential{
				Type:  credType,
				Value: value,
				Label: pack.LabelFor(credType),
			})
		}
		return nil
	}

	if a.parallel && len(tmpl.Sections) > 2 {
		g, gtx := errgroup.WithContext(ctx)
		g.SetLimit(sectionParallelism)
		for i := range tmpl.Sections {
			g.Go(func() error {
				select {
				case <-gtx.Done():
					return gtx.Err()
				default:
				}
				buildSection(i)
				return nil
			})
		}
		g.Go(buildCredentials)
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range tmpl.Sections {
			buildSection(i)
		}
		if err := buildCredentials(); err != nil {
			return nil, err
		}
	}

	cs := &ContentStructure{
		Title:         title,
		Sections:      sections,
		Credentials:   credentials,
		Language:      lang,
		FormatType:    p.Format,
		EmbedStrategy: p.EmbedStrategy,
		Metadata: map[string]string{
			"topic":       p.Topic,
			"language":    lang,
			"format":      p.Format,
			"generatedAt": a.now().UTC().Format(time.RFC3339),
			"company":     company.Name,
			"country":     company.Country,
			"region":      company.Region,
		},
	}

	if p.EmbedStrategy == EmbedBody {
		a.embedCredentials(cs, pack)
	}
	return cs, nil
}

// pickCompany resolves the company for a language. The draw on r happens
// before the cache is consulted, so the company and the rest of the
// per-file stream are identical whether or not another file already
// warmed the cache.
func (a *Assembler) pickCompany(lang string, r *rand.Rand) Company {
	names := a.companies.namesFor(lang)
	name := names[r.Intn(len(names))]
	if !a.ultraFast {
		return a.companies.byName[name]
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.companyCache[name]; ok {
		return c
	}
	c := a.companies.byName[name]
	a.companyCache[name] = c
	return c
}

func (a *Assembler) buildTitle(ctx context.Context, p Params, pack Pack, company Company, idx int) string {
	if a.useNeuralContent {
		prompt := llm.DocumentPrompt{
			Task:     "a single-line document title",
			Topic:    p.Topic,
			Company:  company.Name,
			Language: pack.Code,
		}.Build()
		if text, err := a.neural.GenerateText(ctx, prompt, titleMaxTokens, p.Temperature); err == nil {
			if cleaned := CleanGenerated(text); cleaned != "" {
				return firstLine(cleaned)
			}
		} else {
			slog.Debug("assemble.title.neural_fallback", "file_index", p.FileIndex, "error", err)
		}
	}
	return renderTemplate(pack.TitleTemplates[idx], p.Topic, company.Name)
}

// buildBody produces one section body: neural first when enabled, then the
// cached template path, then the plain template path.
func (a *Assembler) buildBody(ctx context.Context, p Params, pack Pack, company Company, sectionKey string, idx int) string {
	if a.useNeuralContent {
		prompt := llm.DocumentPrompt{
			Task:     "one or two short paragraphs",
			Topic:    p.Topic,
			Company:  company.Name,
			Language: pack.Code,
			Section:  pack.SectionTitle(sectionKey),
		}.Build()
		if text, err := a.neural.GenerateText(ctx, prompt, bodyMaxTokens, p.Temperature); err == nil {
			if cleaned := CleanGenerated(text); cleaned != "" {
				return a.ensureLanguage(ctx, cleaned, pack, p, company, sectionKey, idx)
			}
		} else {
			slog.Debug("assemble.section.neural_fallback",
				"file_index", p.FileIndex, "section", sectionKey, "error", err)
		}
	}
	return renderTemplate(a.sectionTemplate(sectionKey, pack, company, idx), p.Topic, company.Name)
}

// sectionTemplate returns the unrendered body template for a section,
// consulting the cache in ultra-fast mode. The key includes the drawn
// template index, so a hit always returns what the file's own stream
// selected. Cached entries keep their placeholders; substitution happens
// at render time so a template without the topic literal still renders
// correctly.
func (a *Assembler) sectionTemplate(sectionKey string, pack Pack, company Company, idx int) string {
	if !a.ultraFast {
		return pack.BodyTemplates[idx]
	}
	key := templateKey{section: sectionKey, language: pack.Code, company: company.Name, draw: idx}
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.templateCache[key]; ok {
		return t
	}
	t := pack.BodyTemplates[idx]
	a.templateCache[key] = t
	return t
}

// ensureLanguage runs the language-compliance pass: non-English bodies that
// read as English are re-prompted for translation; if that fails, the
// localized template path is used.
func (a *Assembler) ensureLanguage(ctx context.Context, body string, pack Pack, p Params, company Company, sectionKey string, idx int) string {
	if pack.Code == "en" || !LooksEnglish(body) {
		return body
	}

	truncated := body
	if runes := []rune(truncated); len(runes) > translateMaxRunes {
		truncated = string(runes[:translateMaxRunes])
	}
	if text, err := a.neural.GenerateText(ctx, llm.TranslatePrompt(truncated, pack.Code), bodyMaxTokens, p.Temperature); err == nil {
		if cleaned := CleanGenerated(text); cleaned != "" && !LooksEnglish(cleaned) {
			return cleaned
		}
	}
	slog.Debug("assemble.section.language_fallback",
		"file_index", p.FileIndex, "section", sectionKey, "language", pack.Code)
	return renderTemplate(pack.BodyTemplates[idx], p.Topic, company.Name)
}

// configSectionKeys are preferred hosts for the embedded credential block,
// in priority order.
var configSectionKeys = []string{"configuration", "setup", "implementation", "security", "details"}

// embedCredentials writes the localized credential block into the best
// matching section body and marks the structure pre-embedded.
func (a *Assembler) embedCredentials(cs *ContentStructure, pack Pack) {
	if len(cs.Credentials) == 0 || cs.CredentialsPreEmbedded {
		return
	}

	target := 0
	lookup := make(map[string]int, len(cs.Sections))
	for i, s := range cs.Sections {
		lookup[s.Title] = i
	}
	for _, key := range configSectionKeys {
		if i, ok := lookup[pack.SectionTitle(key)]; ok {
			target = i
			break
		}
	}

	var sb strings.Builder
	sb.WriteString(cs.Sections[target].Body)
	sb.WriteString("\n\n")
	sb.WriteString(pack.ConfigHeading)
	sb.WriteString("\n")
	for _, c := range cs.Credentials {
		sb.WriteString(c.Label)
		sb.WriteString(": ")
		sb.WriteString(c.Value)
		sb.WriteString("\n")
	}
	cs.Sections[target].Body = strings.TrimRight(sb.String(), "\n")
	cs.CredentialsPreEmbedded = true
}

func renderTemplate(tmpl, topic, company string) string {
	out := strings.ReplaceAll(tmpl, "{topic}", topic)
	return strings.ReplaceAll(out, "{company}", company)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
