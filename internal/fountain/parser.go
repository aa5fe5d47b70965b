/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// parser state machine: root, dialogue, and the two block states that
// remember where to return to when the block closes.
type parseState int

const (
	stateRoot parseState = iota
	stateDialogue
	stateNote
	stateBoneyard
)

// Parse turns raw Fountain text into a Document. It never fails:
// malformed input degrades to action elements, and an empty or
// preamble-only document simply yields zero scenes.
func Parse(text string) *Document {
	doc := &Document{TitlePage: map[string]string{}}

	lines := strings.Split(text, "\n")
	total := len(lines)
	if total > 0 && lines[total-1] == "" {
		total-- // trailing newline is not a line of its own
	}
	doc.TotalLines = total

	state := stateRoot
	returnState := stateRoot
	atStart := true
	prevBlank := true
	var pending *Element // open action/dialogue/title-page accumulation

	flush := func() {
		if pending != nil {
			doc.Elements = append(doc.Elements, *pending)
			pending = nil
		}
	}
	emit := func(kind ElementKind, text string, lineNo int) {
		flush()
		doc.Elements = append(doc.Elements, Element{Kind: kind, Text: text, StartLine: lineNo, EndLine: lineNo})
	}
	accumulate := func(kind ElementKind, text string, lineNo int) {
		if pending != nil && pending.Kind == kind && pending.EndLine == lineNo-1 {
			pending.Text += "\n" + text
			pending.EndLine = lineNo
			return
		}
		flush()
		pending = &Element{Kind: kind, Text: text, StartLine: lineNo, EndLine: lineNo}
	}

	for i := 0; i < total; i++ {
		lineNo := i + 1
		line := strings.TrimRight(lines[i], "\r")

		switch state {
		case stateNote:
			pending.Text += "\n" + line
			pending.EndLine = lineNo
			if strings.HasSuffix(strings.TrimSpace(line), "]]") {
				flush()
				state = returnState
			}
			continue
		case stateBoneyard:
			pending.Text += "\n" + line
			pending.EndLine = lineNo
			if strings.Contains(line, "*/") {
				flush()
				state = returnState
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			if state == stateDialogue {
				state = stateRoot
			}
			prevBlank = true
			continue
		}

		// Notes and boneyard comments open from any state and return to it.
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/*") {
			if strings.Contains(line, "*/") {
				emit(KindBoneyard, line, lineNo)
			} else {
				flush()
				pending = &Element{Kind: KindBoneyard, Text: line, StartLine: lineNo, EndLine: lineNo}
				returnState = state
				state = stateBoneyard
			}
			prevBlank = false
			continue
		}
		if strings.HasPrefix(trimmed, "[[") {
			if strings.HasSuffix(trimmed, "]]") && len(trimmed) > 3 {
				emit(KindNote, line, lineNo)
			} else {
				flush()
				pending = &Element{Kind: KindNote, Text: line, StartLine: lineNo, EndLine: lineNo}
				returnState = state
				state = stateNote
			}
			prevBlank = false
			continue
		}

		if state == stateDialogue {
			switch {
			case reParen.MatchString(line):
				emit(KindParenthetical, line, lineNo)
			case strings.HasPrefix(line, "~"):
				emit(KindLyric, line, lineNo)
			default:
				accumulate(KindDialogue, line, lineNo)
			}
			prevBlank = false
			continue
		}

		// Title-page value continuations are indented lines following an entry.
		if atStart && pending != nil && pending.Kind == KindTitlePage && strings.HasPrefix(line, "   ") {
			accumulate(KindTitlePage, line, lineNo)
			prevBlank = false
			continue
		}

		kind, _ := Classify(line, Context{PrevBlank: prevBlank, AtStart: atStart})
		switch kind {
		case KindTitlePage:
			accumulate(KindTitlePage, line, lineNo)
		case KindCharacter:
			emit(KindCharacter, line, lineNo)
			state = stateDialogue
			atStart = false
		case KindAction:
			accumulate(KindAction, line, lineNo)
			atStart = false
		default:
			emit(kind, line, lineNo)
			atStart = false
		}
		prevBlank = false
	}
	flush()

	collectTitlePage(doc)
	groupScenes(doc)
	collectCharacters(doc)
	return doc
}

// collectTitlePage fills the title-page map from title-page elements.
// Keys are lower-cased; continuation lines are folded into the value.
func collectTitlePage(doc *Document) {
	for _, el := range doc.Elements {
		if el.Kind != KindTitlePage {
			continue
		}
		for _, entry := range strings.Split(el.Text, "\n") {
			if strings.HasPrefix(entry, "   ") {
				if n := len(doc.TitleOrder); n > 0 {
					k := doc.TitleOrder[n-1]
					doc.TitlePage[k] = strings.TrimSpace(doc.TitlePage[k] + "\n" + strings.TrimSpace(entry))
				}
				continue
			}
			k, v, ok := strings.Cut(entry, ":")
			if !ok {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(k))
			if _, seen := doc.TitlePage[key]; !seen {
				doc.TitleOrder = append(doc.TitleOrder, key)
			}
			doc.TitlePage[key] = strings.TrimSpace(v)
		}
	}
}

// groupScenes partitions the element sequence on scene headings. Scene
// line ranges are contiguous: each scene ends on the line before the next
// heading so that scenes plus the preamble cover every line exactly once.
func groupScenes(doc *Document) {
	var idxs []int
	for i, el := range doc.Elements {
		if el.Kind == KindSceneHeading {
			idxs = append(idxs, i)
		}
	}
	for n, i := range idxs {
		heading := doc.Elements[i]
		endEl := len(doc.Elements)
		endLine := doc.TotalLines
		if n+1 < len(idxs) {
			endEl = idxs[n+1]
			endLine = doc.Elements[endEl].StartLine - 1
		}
		sc := Scene{
			StartLine: heading.StartLine,
			EndLine:   endLine,
			Elements:  doc.Elements[i:endEl],
		}
		sc.Heading, sc.IntExt, sc.Location, sc.SceneNumber = parseHeading(heading.Text)
		for _, el := range sc.Elements {
			if el.Kind == KindCharacter {
				sc.Characters = appendUnique(sc.Characters, CharacterName(el.Text))
			}
		}
		doc.Scenes = append(doc.Scenes, sc)
	}
}

func collectCharacters(doc *Document) {
	for _, el := range doc.Elements {
		if el.Kind == KindCharacter {
			doc.Characters = appendUnique(doc.Characters, CharacterName(el.Text))
		}
	}
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}

// parseHeading splits a heading line into its display text, INT/EXT
// class, location, and optional #number# suffix. The forcing "." of a
// forced heading is dropped from the display text.
func parseHeading(raw string) (heading string, ie IntExt, location, sceneNumber string) {
	h := strings.TrimSpace(raw)
	if len(h) >= 2 && h[0] == '.' && h[1] != '.' {
		h = strings.TrimSpace(h[1:])
	}
	if m := reSceneNumber.FindStringSubmatch(h); m != nil {
		sceneNumber = strings.TrimSpace(m[1])
		h = strings.TrimSpace(h[:len(h)-len(m[0])])
	}
	heading = h

	upper := strings.ToUpper(h)
	rest := h
	switch {
	case strings.HasPrefix(upper, "INT./EXT"), strings.HasPrefix(upper, "INT/EXT"), strings.HasPrefix(upper, "I/E"):
		ie = IntExtOther
		rest = trimHeadingPrefix(h)
	case strings.HasPrefix(upper, "INT"):
		ie = IntExtInt
		rest = trimHeadingPrefix(h)
	case strings.HasPrefix(upper, "EXT"):
		ie = IntExtExt
		rest = trimHeadingPrefix(h)
	case strings.HasPrefix(upper, "EST"):
		ie = IntExtOther
		rest = trimHeadingPrefix(h)
	default:
		ie = IntExtOther
	}
	location = strings.TrimSpace(rest)
	if i := strings.Index(location, " - "); i >= 0 {
		location = strings.TrimSpace(location[:i])
	}
	return heading, ie, location, sceneNumber
}

// trimHeadingPrefix drops the leading INT/EXT-style token, including its
// trailing "." or whitespace, returning the location-and-time remainder.
func trimHeadingPrefix(h string) string {
	if m := reSceneNatural.FindString(h); m != "" {
		rest := h[len(m):]
		rest = strings.TrimLeft(rest, ". ")
		return rest
	}
	return h
}
