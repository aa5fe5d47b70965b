/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"regexp"
	"strings"
	"unicode"
)

// Context is the minimal local state the classifier needs: whether the
// previous physical line was blank and whether any body element has been
// seen yet (the title page is only valid before the first body element).
type Context struct {
	PrevBlank bool
	AtStart   bool
}

// Patterns for the line grammar.
var (
	rePageBreak    = regexp.MustCompile(`^={3,}\s*$`)
	reSection      = regexp.MustCompile(`^#{1,3}\s`)
	reCentered     = regexp.MustCompile(`^>.*<\s*$`)
	reSceneNatural = regexp.MustCompile(`(?i)^(INT\./?EXT|INT/EXT|I/E|INT|EXT|EST)\b`)
	reTransNatural = regexp.MustCompile(`^[A-Z\s]+TO:\s*$`)
	reTitleEntry   = regexp.MustCompile(`^\w[\w ]*:`)
	reParen        = regexp.MustCompile(`^\s*\(.*\)\s*$`)
	reSceneNumber  = regexp.MustCompile(`#([^#\s][^#]*)#\s*$`)
)

// Rule pairs a predicate with the kind it yields. Rules are evaluated
// top-to-bottom and the first match wins; the order below is a documented
// contract (see TestRuleOrder), not an accident of the code.
type Rule struct {
	Name  string
	Kind  ElementKind
	Match func(line string, ctx Context) bool
}

// rules is the classifier's fixed precedence order:
// boneyard-open, note-open, page-break, section, synopsis, centered,
// forced-scene-heading, natural-scene-heading, forced-transition,
// natural-transition, lyric, forced-character, character-cue,
// title-page-entry, forced-action. Anything else is action.
//
// One deliberate deviation inside the cue predicate: a line shaped like a
// title-page entry while we are still in the title-page region is never a
// cue — the title-page/cue ambiguity is resolved by document position.
var rules = []Rule{
	{"boneyard-open", KindBoneyard, func(line string, _ Context) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "/*")
	}},
	{"note-open", KindNote, func(line string, _ Context) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "[[")
	}},
	{"page-break", KindPageBreak, func(line string, _ Context) bool {
		return rePageBreak.MatchString(line)
	}},
	{"section", KindSection, func(line string, _ Context) bool {
		return reSection.MatchString(line)
	}},
	{"synopsis", KindSynopsis, func(line string, _ Context) bool {
		return strings.HasPrefix(line, "=") && !strings.HasPrefix(line, "==")
	}},
	{"centered", KindCentered, func(line string, _ Context) bool {
		return reCentered.MatchString(line)
	}},
	{"forced-scene-heading", KindSceneHeading, func(line string, _ Context) bool {
		return len(line) >= 2 && line[0] == '.' && line[1] != '.'
	}},
	{"natural-scene-heading", KindSceneHeading, func(line string, _ Context) bool {
		return reSceneNatural.MatchString(line)
	}},
	{"forced-transition", KindTransition, func(line string, _ Context) bool {
		return strings.HasPrefix(line, ">")
	}},
	{"natural-transition", KindTransition, func(line string, _ Context) bool {
		return reTransNatural.MatchString(line)
	}},
	{"lyric", KindLyric, func(line string, _ Context) bool {
		return strings.HasPrefix(line, "~")
	}},
	{"forced-character", KindCharacter, func(line string, _ Context) bool {
		return strings.HasPrefix(line, "@")
	}},
	{"character-cue", KindCharacter, func(line string, ctx Context) bool {
		if !ctx.PrevBlank && !ctx.AtStart {
			return false
		}
		if ctx.AtStart && reTitleEntry.MatchString(line) {
			return false
		}
		return isCueShaped(line)
	}},
	{"title-page-entry", KindTitlePage, func(line string, ctx Context) bool {
		return ctx.AtStart && reTitleEntry.MatchString(line)
	}},
	{"forced-action", KindAction, func(line string, _ Context) bool {
		return strings.HasPrefix(line, "!")
	}},
}

// Rules exposes the ordered rule table so the evaluation order can be
// asserted by tests.
func Rules() []Rule { return rules }

// Classify maps one physical line to an element kind. Blank lines are the
// caller's concern; passing one returns action. The second result reports
// whether the line opens a multi-line block that was not closed on the
// same line (a "[[" note or a "/*" boneyard comment).
func Classify(line string, ctx Context) (ElementKind, bool) {
	for _, r := range rules {
		if r.Match(line, ctx) {
			switch r.Kind {
			case KindBoneyard:
				return KindBoneyard, !strings.Contains(line, "*/")
			case KindNote:
				return KindNote, !strings.HasSuffix(strings.TrimSpace(line), "]]")
			}
			return r.Kind, false
		}
	}
	return KindAction, false
}

// isCueShaped reports whether a line looks like a character cue: entirely
// upper-case with at least one letter, optionally carrying a trailing
// dual-dialogue "^" marker and/or a parenthetical extension.
func isCueShaped(line string) bool {
	t := strings.TrimSpace(line)
	t = strings.TrimSuffix(t, "^")
	t = strings.TrimSpace(t)
	if i := strings.Index(t, "("); i >= 0 {
		if !strings.HasSuffix(t, ")") {
			return false
		}
		t = strings.TrimSpace(t[:i])
	}
	if t == "" || strings.Contains(t, ":") {
		return false
	}
	hasLetter := false
	for _, r := range t {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
