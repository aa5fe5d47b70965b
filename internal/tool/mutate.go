/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"fmt"
	"strings"

	"screenwright/internal/fountain"
)

func init() {
	register(Definition{
		Name:        "replace_text",
		Description: "Replace every case-sensitive occurrence of a string, optionally within one scene.",
		Mutating:    true,
		Schema: objectSchema([]string{"find", "replace"},
			`"find": {"type": "string", "minLength": 1}, "replace": {"type": "string"}, "scene": `+sceneRefSchema),
		run: runReplaceText,
	})
	register(Definition{
		Name:        "insert_scene",
		Description: "Insert a new scene after an existing one, or at the start or end of the screenplay.",
		Mutating:    true,
		Schema: objectSchema([]string{"heading"},
			`"heading": {"type": "string", "minLength": 1}, "content": {"type": "string"}, "after_scene": `+sceneRefSchema+`, "at_start": {"type": "boolean"}`),
		run: runInsertScene,
	})
	register(Definition{
		Name:        "delete_scene",
		Description: "Delete one scene, heading and body.",
		Mutating:    true,
		Schema:      objectSchema([]string{"scene"}, `"scene": `+sceneRefSchema),
		run:         runDeleteScene,
	})
	register(Definition{
		Name:        "move_scene",
		Description: "Move a scene to a new 1-based position in the scene order.",
		Mutating:    true,
		Schema: objectSchema([]string{"scene", "to_position"},
			`"scene": `+sceneRefSchema+`, "to_position": {"type": "integer", "minimum": 1}`),
		run: runMoveScene,
	})
	register(Definition{
		Name:        "replace_scene_content",
		Description: "Replace a scene's body, keeping its heading.",
		Mutating:    true,
		Schema: objectSchema([]string{"scene", "content"},
			`"scene": `+sceneRefSchema+`, "content": {"type": "string"}`),
		run: runReplaceSceneContent,
	})
	register(Definition{
		Name:        "append_to_scene",
		Description: "Append new content at the end of a scene.",
		Mutating:    true,
		Schema: objectSchema([]string{"scene", "content"},
			`"scene": `+sceneRefSchema+`, "content": {"type": "string", "minLength": 1}`),
		run: runAppendToScene,
	})
	register(Definition{
		Name:        "set_title_page_entry",
		Description: "Set or replace one title page entry by key.",
		Mutating:    true,
		Schema: objectSchema([]string{"key", "value"},
			`"key": {"type": "string", "minLength": 1}, "value": {"type": "string"}`),
		run: runSetTitlePageEntry,
	})
}

func runReplaceText(in Input, text string) Result {
	find, repl := in.str("find"), in.str("replace")
	lines, nl := splitLines(text)
	lo, hi := 1, len(lines)
	scope := "the screenplay"
	if _, present := in["scene"]; present {
		doc := fountain.Parse(text)
		o := resolveScene(doc, in["scene"])
		if !o.ok {
			return textResult("%s", o.message())
		}
		sc := doc.Scenes[o.index]
		lo, hi = sc.StartLine, sc.EndLine
		scope = fmt.Sprintf("scene %d (%s)", o.index+1, sc.Heading)
	}
	total := 0
	for ln := lo; ln <= hi && ln <= len(lines); ln++ {
		n := strings.Count(lines[ln-1], find)
		if n == 0 {
			continue
		}
		total += n
		lines[ln-1] = strings.ReplaceAll(lines[ln-1], find, repl)
	}
	if total == 0 {
		return textResult("%q not found in %s; nothing replaced.", find, scope)
	}
	return updatedResult(joinLines(lines, nl),
		"Replaced %d occurrence(s) of %q with %q in %s.", total, find, repl, scope)
}

func runInsertScene(in Input, text string) Result {
	doc := fountain.Parse(text)
	heading := strings.TrimSpace(in.str("heading"))
	block := []string{heading}
	if content := strings.TrimRight(in.str("content"), "\n"); content != "" {
		block = append(block, "")
		block = append(block, strings.Split(content, "\n")...)
	}

	lines, nl := splitLines(text)
	at := len(lines) // default: append at end
	switch {
	case in.boolean("at_start"):
		at = 0
		if len(doc.Scenes) > 0 {
			at = doc.Scenes[0].StartLine - 1
		} else if len(lines) > 0 {
			// after any title page preamble
			at = len(lines)
		}
	default:
		if _, present := in["after_scene"]; present {
			o := resolveScene(doc, in["after_scene"])
			if !o.ok {
				return textResult("%s", o.message())
			}
			at = doc.Scenes[o.index].EndLine
		}
	}

	out := spliceLines(lines, at, at, block)
	updated := joinLines(out, nl || len(lines) == 0)
	pos := sceneNumberAt(updated, heading)
	return updatedResult(updated, "Inserted scene %q as scene %d (%d scenes total).",
		heading, pos, len(fountain.Parse(updated).Scenes))
}

func runDeleteScene(in Input, text string) Result {
	doc := fountain.Parse(text)
	o := resolveScene(doc, in["scene"])
	if !o.ok {
		return textResult("%s", o.message())
	}
	sc := doc.Scenes[o.index]
	lines, nl := splitLines(text)
	out := spliceLines(lines, sc.StartLine-1, sc.EndLine, nil)
	return updatedResult(joinLines(out, nl),
		"Deleted scene %d (%s), lines %d-%d (%d scenes remain).",
		o.index+1, sc.Heading, sc.StartLine, sc.EndLine, len(doc.Scenes)-1)
}

func runMoveScene(in Input, text string) Result {
	doc := fountain.Parse(text)
	o := resolveScene(doc, in["scene"])
	if !o.ok {
		return textResult("%s", o.message())
	}
	toPos, _ := in.num("to_position")
	if toPos < 1 || toPos > len(doc.Scenes) {
		return textResult("Position %d not found; the screenplay has %d scenes.", toPos, len(doc.Scenes))
	}
	if toPos == o.index+1 {
		return textResult("Scene %d (%s) is already at position %d.", o.index+1, doc.Scenes[o.index].Heading, toPos)
	}

	sc := doc.Scenes[o.index]
	lines, nl := splitLines(text)
	block := append([]string(nil), lines[sc.StartLine-1:min(sc.EndLine, len(lines))]...)
	rest := spliceLines(lines, sc.StartLine-1, sc.EndLine, nil)

	restDoc := fountain.Parse(joinLines(rest, nl))
	at := len(rest)
	if toPos-1 < len(restDoc.Scenes) {
		at = restDoc.Scenes[toPos-1].StartLine - 1
	}
	out := spliceLines(rest, at, at, block)
	return updatedResult(joinLines(out, nl),
		"Moved scene %q from position %d to position %d.", sc.Heading, o.index+1, toPos)
}

func runReplaceSceneContent(in Input, text string) Result {
	doc := fountain.Parse(text)
	o := resolveScene(doc, in["scene"])
	if !o.ok {
		return textResult("%s", o.message())
	}
	sc := doc.Scenes[o.index]
	block := []string{strings.TrimRight(lineAt(text, sc.StartLine), " \t")}
	if content := strings.TrimRight(in.str("content"), "\n"); content != "" {
		block = append(block, "")
		block = append(block, strings.Split(content, "\n")...)
	}
	lines, nl := splitLines(text)
	out := spliceLines(lines, sc.StartLine-1, sc.EndLine, block)
	return updatedResult(joinLines(out, nl),
		"Replaced the content of scene %d (%s).", o.index+1, sc.Heading)
}

func runAppendToScene(in Input, text string) Result {
	doc := fountain.Parse(text)
	o := resolveScene(doc, in["scene"])
	if !o.ok {
		return textResult("%s", o.message())
	}
	sc := doc.Scenes[o.index]
	lines, nl := splitLines(text)

	// Insert after the scene's last non-blank line so trailing separator
	// blanks stay at the end of the scene.
	at := sc.StartLine // right after the heading, if the body is empty
	for ln := min(sc.EndLine, len(lines)); ln >= sc.StartLine; ln-- {
		if strings.TrimSpace(lines[ln-1]) != "" {
			at = ln
			break
		}
	}
	block := strings.Split(strings.TrimRight(in.str("content"), "\n"), "\n")
	out := spliceLines(lines, at, at, block)
	return updatedResult(joinLines(out, nl),
		"Appended %d line(s) to scene %d (%s).", len(block), o.index+1, sc.Heading)
}

func runSetTitlePageEntry(in Input, text string) Result {
	doc := fountain.Parse(text)
	key := strings.TrimSpace(in.str("key"))
	value := in.str("value")
	entry := fmt.Sprintf("%s: %s", canonicalTitleKey(key), value)
	lines, nl := splitLines(text)

	// Replace in place when the key already exists.
	for _, el := range doc.Elements {
		if el.Kind != fountain.KindTitlePage {
			continue
		}
		for off, raw := range strings.Split(el.Text, "\n") {
			k, _, found := strings.Cut(raw, ":")
			if found && strings.EqualFold(strings.TrimSpace(k), key) {
				ln := el.StartLine + off
				out := spliceLines(lines, ln-1, ln, []string{entry})
				return updatedResult(joinLines(out, nl), "Updated title page entry %q.", key)
			}
		}
	}

	// New key: extend the title page, or start one at line 1.
	at := 0
	block := []string{entry}
	if n := len(doc.Elements); n > 0 && doc.Elements[0].Kind == fountain.KindTitlePage {
		at = doc.Elements[0].EndLine
	} else if len(lines) > 0 {
		block = append(block, "")
	}
	out := spliceLines(lines, at, at, block)
	return updatedResult(joinLines(out, nl || len(lines) == 0), "Added title page entry %q.", key)
}

// spliceLines replaces lines[from:to] (0-based, half-open) with block and
// normalizes the splice seams so scenes stay separated by exactly one
// blank line without blank runs accumulating across repeated edits.
func spliceLines(lines []string, from, to int, block []string) []string {
	out := make([]string, 0, len(lines)-(to-from)+len(block)+2)
	out = append(out, lines[:from]...)

	if len(block) > 0 {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, block...)
		if to < len(lines) && strings.TrimSpace(lines[to]) != "" && strings.TrimSpace(block[len(block)-1]) != "" {
			out = append(out, "")
		}
	}

	seam := len(out)
	out = append(out, lines[to:]...)

	// Collapse a blank-blank seam left by a deletion.
	if seam > 0 && seam < len(out) &&
		strings.TrimSpace(out[seam-1]) == "" && strings.TrimSpace(out[seam]) == "" {
		out = append(out[:seam], out[seam+1:]...)
	}
	// Drop a blank line stranded at the very top.
	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	return out
}

func lineAt(text string, n int) string {
	lines, _ := splitLines(text)
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// canonicalTitleKey renders a lowercase title-page key the way writers
// type it: each word capitalized ("draft date" -> "Draft Date").
func canonicalTitleKey(key string) string {
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// sceneNumberAt reports the 1-based position of the first scene whose
// heading matches, for post-insert confirmation messages.
func sceneNumberAt(text, heading string) int {
	doc := fountain.Parse(text)
	want := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(heading, ".")))
	for i, sc := range doc.Scenes {
		if strings.ToUpper(sc.Heading) == want {
			return i + 1
		}
	}
	return len(doc.Scenes)
}
