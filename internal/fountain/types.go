/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain implements the screenplay document engine: a line
// classifier and parser for the Fountain plain-text format, a serializer
// that round-trips parsed documents, and a rule-based validator.
//
// Everything in this package is pure: parsing the same text always yields
// an equal Document, nothing is cached between calls, and the raw text
// owned by the caller remains the single source of truth.
package fountain

import "strings"

// ElementKind classifies a physical block of screenplay text.
type ElementKind int

const (
	KindAction ElementKind = iota
	KindSceneHeading
	KindCharacter
	KindDialogue
	KindParenthetical
	KindTransition
	KindSection
	KindSynopsis
	KindLyric
	KindCentered
	KindNote
	KindBoneyard
	KindPageBreak
	KindTitlePage
)

func (k ElementKind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindSceneHeading:
		return "scene-heading"
	case KindCharacter:
		return "character"
	case KindDialogue:
		return "dialogue"
	case KindParenthetical:
		return "parenthetical"
	case KindTransition:
		return "transition"
	case KindSection:
		return "section"
	case KindSynopsis:
		return "synopsis"
	case KindLyric:
		return "lyric"
	case KindCentered:
		return "centered"
	case KindNote:
		return "note"
	case KindBoneyard:
		return "boneyard"
	case KindPageBreak:
		return "page-break"
	case KindTitlePage:
		return "title-page-entry"
	default:
		return "unknown"
	}
}

// Element is one parsed block. Text holds the source lines verbatim
// (joined with "\n" for multi-line blocks) so the serializer can re-emit
// them unchanged. StartLine and EndLine are 1-based and inclusive.
type Element struct {
	Kind      ElementKind
	Text      string
	StartLine int
	EndLine   int
}

// IntExt classifies a scene heading's opening token.
type IntExt int

const (
	IntExtOther IntExt = iota
	IntExtInt
	IntExtExt
)

func (ie IntExt) String() string {
	switch ie {
	case IntExtInt:
		return "INT"
	case IntExtExt:
		return "EXT"
	default:
		return "OTHER"
	}
}

// Scene groups the elements between one scene heading and the next.
// The line range is contiguous with its neighbors: EndLine runs up to the
// line before the next heading (or the end of the document), so scene
// ranges plus any title-page preamble partition the whole document.
type Scene struct {
	Heading     string
	IntExt      IntExt
	Location    string
	SceneNumber string
	StartLine   int
	EndLine     int
	Characters  []string
	Elements    []Element
}

// Document is the parsed screenplay. It is recomputed fresh on every
// parse and never mutated in place; edits go through text splice and
// re-parse.
type Document struct {
	Elements   []Element
	Scenes     []Scene
	TitlePage  map[string]string
	TitleOrder []string
	Characters []string
	TotalLines int
}

// Title returns the title-page title, or "" if none was given.
func (d *Document) Title() string { return d.TitlePage["title"] }

// SceneHeadings returns the headings of all scenes in order.
func (d *Document) SceneHeadings() []string {
	out := make([]string, len(d.Scenes))
	for i, s := range d.Scenes {
		out[i] = s.Heading
	}
	return out
}

// DialogueOf returns the dialogue elements spoken by the named character
// (case-insensitive), in document order.
func (d *Document) DialogueOf(name string) []Element {
	var out []Element
	want := strings.ToUpper(strings.TrimSpace(name))
	speaking := false
	for _, el := range d.Elements {
		switch el.Kind {
		case KindCharacter:
			speaking = strings.EqualFold(CharacterName(el.Text), want)
		case KindDialogue, KindLyric:
			if speaking {
				out = append(out, el)
			}
		case KindParenthetical, KindNote, KindBoneyard:
			// stays inside the dialogue block
		default:
			speaking = false
		}
	}
	return out
}

// CharacterName normalizes a character cue into a bare name: the forced
// "@" sigil, a dual-dialogue "^" marker, and "(V.O.)"-style extensions
// are stripped and the result upper-cased.
func CharacterName(cue string) string {
	s := strings.TrimSpace(cue)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimSuffix(s, "^")
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.ToUpper(strings.TrimSpace(s))
}
