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

package credgen

import (
	"fmt"
	"math/rand"
	"regexp/syntax"
	"strings"
)

// fallbackRepeat is the repetition count used for unbounded quantifiers
// (x+, x*) when the pattern gives no length hint.
const fallbackRepeat = 16

// maxClassSample bounds how many runes of a character class are enumerated
// before picking one. Classes like \p{L} are huge; the low end is enough.
const maxClassSample = 256

// fromPattern builds a string matching pattern by walking its parse tree.
//
// This is the fallback path for catalog entries with no dedicated generator:
// custom types added via `sdg db add` or catalog drift. It covers the regex
// subset the catalog contract uses (anchors, literals, classes, bounded and
// unbounded repetition, alternation, grouping). Unsupported constructs such
// as backreferences do not exist in RE2 syntax, so a compiling catalog entry
// always parses here.
func fromPattern(pattern string, r *rand.Rand) (string, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", fmt.Errorf("parse pattern: %w", err)
	}
	var sb strings.Builder
	emitRegexp(re.Simplify(), r, &sb)
	return sb.String(), nil
}

func emitRegexp(re *syntax.Regexp, r *rand.Rand, sb *strings.Builder) {
	switch re.Op {
	case syntax.OpLiteral:
		sb.WriteString(string(re.Rune))
	case syntax.OpCharClass:
		sb.WriteRune(pickClassRune(re, r))
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		sb.WriteByte(alnum[r.Intn(len(alnum))])
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			emitRegexp(sub, r, sb)
		}
	case syntax.OpAlternate:
		emitRegexp(re.Sub[r.Intn(len(re.Sub))], r, sb)
	case syntax.OpCapture:
		emitRegexp(re.Sub[0], r, sb)
	case syntax.OpStar, syntax.OpPlus:
		for i := 0; i < fallbackRepeat; i++ {
			emitRegexp(re.Sub[0], r, sb)
		}
	case syntax.OpQuest:
		if r.Intn(2) == 1 {
			emitRegexp(re.Sub[0], r, sb)
		}
	case syntax.OpRepeat:
		n := re.Min
		if re.Max > re.Min {
			n += r.Intn(re.Max - re.Min + 1)
		} else if re.Max < 0 { // x{n,}
			n += r.Intn(4)
		}
		if n == 0 && re.Max != 0 {
			n = re.Min
		}
		for i := 0; i < n; i++ {
			emitRegexp(re.Sub[0], r, sb)
		}
	case syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary, syntax.OpEmptyMatch:
		// Zero-width; nothing to emit.
	}
}

// pickClassRune chooses a random rune from a character-class node. The class
// is enumerated up to maxClassSample runes so enormous Unicode classes stay
// cheap and the output stays printable.
func pickClassRune(re *syntax.Regexp, r *rand.Rand) rune {
	runes := make([]rune, 0, maxClassSample)
	for i := 0; i+1 < len(re.Rune) && len(runes) < maxClassSample; i += 2 {
		for c := re.Rune[i]; c <= re.Rune[i+1] && len(runes) < maxClassSample; c++ {
			runes = append(runes, c)
		}
	}
	if len(runes) == 0 {
		return 'x'
	}
	return runes[r.Intn(len(runes))]
}
