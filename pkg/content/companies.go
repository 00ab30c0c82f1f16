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
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
)

// CompanyMap binds company names to their language, country, and region.
// It is read-only after construction and shared across workers.
type CompanyMap struct {
	byName   map[string]Company
	byLang   map[string][]string
	allNames []string
}

// companyRecord is the on-disk JSON value shape.
type companyRecord struct {
	Language string `json:"language"`
	Country  string `json:"country"`
	Region   string `json:"region"`
}

// BuiltinCompanies returns the compiled-in company map.
func BuiltinCompanies() *CompanyMap {
	return newCompanyMap(builtinCompanies)
}

// LoadCompanies reads one or more company mapping files and merges them over
// the builtin map. Duplicate company names: last file wins.
func LoadCompanies(paths ...string) (*CompanyMap, error) {
	merged := make(map[string]Company, len(builtinCompanies))
	for name, c := range builtinCompanies {
		merged[name] = c
	}
	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user flags/config
		if err != nil {
			return nil, fmt.Errorf("read company map: %w", err)
		}
		var records map[string]companyRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse company map %s: %w", path, err)
		}
		for name, rec := range records {
			merged[name] = Company{Name: name, Language: rec.Language, Country: rec.Country, Region: rec.Region}
		}
	}
	return newCompanyMap(merged), nil
}

func newCompanyMap(src map[string]Company) *CompanyMap {
	m := &CompanyMap{
		byName: make(map[string]Company, len(src)),
		byLang: make(map[string][]string),
	}
	for name, c := range src {
		c.Name = name
		m.byName[name] = c
		m.byLang[c.Language] = append(m.byLang[c.Language], name)
		m.allNames = append(m.allNames, name)
	}
	// Deterministic pick order for a given RNG state.
	sort.Strings(m.allNames)
	for lang := range m.byLang {
		sort.Strings(m.byLang[lang])
	}
	return m
}

// namesFor returns the candidate names for a language. When no company
// speaks the language, every company is a candidate.
func (m *CompanyMap) namesFor(language string) []string {
	if names := m.byLang[language]; len(names) > 0 {
		return names
	}
	return m.allNames
}

// ForLanguage picks a company whose declared language matches, using r.
func (m *CompanyMap) ForLanguage(language string, r *rand.Rand) Company {
	names := m.namesFor(language)
	return m.byName[names[r.Intn(len(names))]]
}

// Lookup returns the company by name.
func (m *CompanyMap) Lookup(name string) (Company, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// Len returns the number of companies.
func (m *CompanyMap) Len() int {
	return len(m.byName)
}

// builtinCompanies covers every supported language with a few plausible
// fictional companies each.
var builtinCompanies = map[string]Company{
	// English
	"Northwind Analytics":     {Language: "en", Country: "United States", Region: "North America"},
	"Harborview Logistics":    {Language: "en", Country: "United Kingdom", Region: "Europe"},
	"Bluegum Mining Group":    {Language: "en", Country: "Australia", Region: "Oceania"},
	"Cedarline Insurance":     {Language: "en", Country: "Canada", Region: "North America"},
	// French
	"Ateliers Rousseau":       {Language: "fr", Country: "France", Region: "Europe"},
	"Banque du Littoral":      {Language: "fr", Country: "France", Region: "Europe"},
	"Groupe Mercier Transport": {Language: "fr", Country: "Belgium", Region: "Europe"},
	// Spanish
	"Grupo Almendra":          {Language: "es", Country: "Spain", Region: "Europe"},
	"Logística del Pacífico":  {Language: "es", Country: "Mexico", Region: "Latin America"},
	"Energía Andina":          {Language: "es", Country: "Chile", Region: "Latin America"},
	// German
	"Falkenberg Maschinenbau": {Language: "de", Country: "Germany", Region: "Europe"},
	"Rheintal Versicherung":   {Language: "de", Country: "Germany", Region: "Europe"},
	"Alpenland Pharma":        {Language: "de", Country: "Austria", Region: "Europe"},
	// Italian
	"Officine Bellini":        {Language: "it", Country: "Italy", Region: "Europe"},
	"Adriatica Servizi":       {Language: "it", Country: "Italy", Region: "Europe"},
	// Portuguese
	"Transportes Mirante":     {Language: "pt", Country: "Brazil", Region: "Latin America"},
	"Atlântico Seguros":       {Language: "pt", Country: "Portugal", Region: "Europe"},
	// Dutch
	"Waterland Techniek":      {Language: "nl", Country: "Netherlands", Region: "Europe"},
	"Zeehaven Logistiek":      {Language: "nl", Country: "Netherlands", Region: "Europe"},
	// Turkish
	"Boğaziçi Yazılım":        {Language: "tr", Country: "Turkey", Region: "Europe"},
	"Anadolu Enerji Grubu":    {Language: "tr", Country: "Turkey", Region: "Europe"},
	// Chinese
	"华信科技有限公司":         {Language: "zh", Country: "China", Region: "Asia"},
	"长江物流集团":             {Language: "zh", Country: "China", Region: "Asia"},
	// Japanese
	"青山電子工業":             {Language: "ja", Country: "Japan", Region: "Asia"},
	"北斗物流株式会社":         {Language: "ja", Country: "Japan", Region: "Asia"},
}
