/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tool exposes the screenplay engine to an agent as a dispatch
// table of named operations over raw Fountain text. Read tools answer in
// prose; mutation tools splice the text and re-parse, returning the
// updated text so the caller's buffer stays the single source of truth.
//
// Nothing in this package throws on bad input: unknown tools, schema
// violations, and missing scenes all come back as a readable result
// string the calling agent can recover from.
package tool

import (
	"fmt"
	"sort"
	"strings"

	"screenwright/internal/fountain"
)

// Result is returned by every tool. UpdatedScreenplay is set only when a
// mutation changed the text; `Updated` false means "no change".
type Result struct {
	Result            string
	Updated           bool
	UpdatedScreenplay string
}

func textResult(format string, args ...any) Result {
	return Result{Result: fmt.Sprintf(format, args...)}
}

func updatedResult(text string, format string, args ...any) Result {
	return Result{Result: fmt.Sprintf(format, args...), Updated: true, UpdatedScreenplay: text}
}

// Input is a decoded JSON object of tool arguments.
type Input map[string]any

func (in Input) str(key string) string {
	if v, ok := in[key].(string); ok {
		return v
	}
	return ""
}

func (in Input) num(key string) (int, bool) {
	switch v := in[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func (in Input) boolean(key string) bool {
	v, _ := in[key].(bool)
	return v
}

// Definition describes one tool: its schema is the public contract an
// agent sees, Mutating tells callers whether to expect updated text.
type Definition struct {
	Name        string
	Description string
	Mutating    bool
	Schema      string
	run         func(in Input, text string) Result
}

var registry []Definition
var byName = map[string]Definition{}

func register(d Definition) {
	registry = append(registry, d)
	byName[d.Name] = d
}

// Definitions lists every registered tool, read tools first, each group
// in registration order.
func Definitions() []Definition {
	out := append([]Definition(nil), registry...)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Mutating && out[j].Mutating
	})
	return out
}

// Execute runs a named tool against the current screenplay text. It
// never returns an error: failures are explained in Result.Result so an
// agent can adjust and retry.
func Execute(name string, in Input, text string) Result {
	def, ok := byName[name]
	if !ok {
		known := make([]string, 0, len(registry))
		for _, d := range registry {
			known = append(known, d.Name)
		}
		return textResult("Tool %q not found. Available tools: %s.", name, strings.Join(known, ", "))
	}
	if in == nil {
		in = Input{}
	}
	if msg := validateInput(def, in); msg != "" {
		return textResult("Invalid input for %s: %s", name, msg)
	}
	return def.run(in, text)
}

// sceneOutcome is the internal tagged result of scene resolution; it is
// rendered to a plain string at the tool boundary.
type sceneOutcome struct {
	index      int // 0-based, valid only when ok
	ok         bool
	notFound   string
	candidates []string
}

func (o sceneOutcome) message() string {
	if len(o.candidates) > 1 {
		return fmt.Sprintf("Scene reference is ambiguous; it matches %d scenes: %s. Use a scene number or a longer heading fragment.",
			len(o.candidates), strings.Join(o.candidates, "; "))
	}
	return o.notFound
}

// resolveScene accepts a 1-based scene number or a case-insensitive
// heading substring. Absent or ambiguous references come back as a
// descriptive outcome, never a panic or error.
func resolveScene(doc *fountain.Document, ref any) sceneOutcome {
	if len(doc.Scenes) == 0 {
		return sceneOutcome{notFound: "No scenes found in the screenplay."}
	}
	switch v := ref.(type) {
	case float64:
		n := int(v)
		if n < 1 || n > len(doc.Scenes) {
			return sceneOutcome{notFound: fmt.Sprintf("Scene %d not found; the screenplay has %d scenes.", n, len(doc.Scenes))}
		}
		return sceneOutcome{index: n - 1, ok: true}
	case int:
		return resolveScene(doc, float64(v))
	case string:
		q := strings.ToUpper(strings.TrimSpace(v))
		if q == "" {
			return sceneOutcome{notFound: "Empty scene reference; give a scene number or part of a heading."}
		}
		var matches []int
		for i, sc := range doc.Scenes {
			if strings.Contains(strings.ToUpper(sc.Heading), q) {
				matches = append(matches, i)
			}
		}
		switch len(matches) {
		case 0:
			return sceneOutcome{notFound: fmt.Sprintf("Scene matching %q not found. Headings are: %s.", v, strings.Join(doc.SceneHeadings(), "; "))}
		case 1:
			return sceneOutcome{index: matches[0], ok: true}
		default:
			cands := make([]string, len(matches))
			for i, m := range matches {
				cands[i] = fmt.Sprintf("%d. %s", m+1, doc.Scenes[m].Heading)
			}
			return sceneOutcome{candidates: cands}
		}
	default:
		return sceneOutcome{notFound: "Missing scene reference; give a scene number or part of a heading."}
	}
}

// splitLines breaks text into physical lines without losing track of a
// trailing newline; joinLines restores it.
func splitLines(text string) (lines []string, trailingNewline bool) {
	trailingNewline = strings.HasSuffix(text, "\n")
	trimmed := strings.TrimSuffix(text, "\n")
	if trimmed == "" {
		return nil, trailingNewline
	}
	return strings.Split(trimmed, "\n"), trailingNewline
}

func joinLines(lines []string, trailingNewline bool) string {
	s := strings.Join(lines, "\n")
	if trailingNewline && s != "" {
		s += "\n"
	}
	return s
}
