/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package structure derives acts, sequences, and narrative turning points
// from a parsed screenplay. Act boundaries come from explicit section
// markers when the writer provides them and from an even scene-count
// split otherwise; turning points are located by tension heuristics and
// compared against an empirical reference distribution.
package structure

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"screenwright/internal/fountain"
)

// ActSource records how an act boundary was derived.
type ActSource string

const (
	SourceMarker    ActSource = "marker"
	SourceHeuristic ActSource = "heuristic"
)

// Act is a contiguous run of scenes. SceneIndices are 0-based; the act
// sets of a document partition [0, sceneCount) without gaps or overlap.
type Act struct {
	Number       int
	Label        string
	Source       ActSource
	SceneIndices []int
	StartLine    int
	EndLine      int
}

// Sequence is a location-continuity run of scenes inside an act.
type Sequence struct {
	Act          int
	Number       int
	Location     string
	SceneIndices []int
}

// heuristicActCount is the default split when no usable markers exist.
const heuristicActCount = 3

var reActMarker = regexp.MustCompile(`(?i)^#{1,3}\s*act\s+([0-9]+|[ivx]+|one|two|three|four|five)\b(.*)$`)

// DetectActs prefers explicit "# Act N" section markers; with fewer than
// two markers it falls back to an even split of the scene sequence into
// three contiguous partitions.
func DetectActs(doc *fountain.Document) []Act {
	if len(doc.Scenes) == 0 {
		return nil
	}
	acts := actsFromMarkers(doc)
	if len(acts) < 2 {
		acts = actsFromHeuristic(doc)
	}
	return acts
}

func actsFromMarkers(doc *fountain.Document) []Act {
	type marker struct {
		number int
		label  string
		line   int
	}
	var markers []marker
	for _, el := range doc.Elements {
		m := reActMarker.FindStringSubmatch(strings.TrimSpace(el.Text))
		if el.Kind != fountain.KindSection || m == nil {
			continue
		}
		markers = append(markers, marker{
			number: parseActNumber(m[1]),
			label:  strings.TrimSpace(strings.TrimLeft(el.Text, "# ")),
			line:   el.StartLine,
		})
	}
	if len(markers) < 2 {
		return nil
	}
	var acts []Act
	for i, mk := range markers {
		endLine := doc.TotalLines
		if i+1 < len(markers) {
			endLine = markers[i+1].line - 1
		}
		act := Act{Number: mk.number, Label: mk.label, Source: SourceMarker, StartLine: mk.line, EndLine: endLine}
		for si, sc := range doc.Scenes {
			if sc.StartLine >= mk.line && sc.StartLine <= endLine {
				act.SceneIndices = append(act.SceneIndices, si)
			}
		}
		acts = append(acts, act)
	}
	// Scenes before the first marker belong to the first act so the
	// partition stays gapless.
	var pre []int
	for si, sc := range doc.Scenes {
		if sc.StartLine < markers[0].line {
			pre = append(pre, si)
			if sc.StartLine < acts[0].StartLine {
				acts[0].StartLine = sc.StartLine
			}
		}
	}
	if len(pre) > 0 {
		acts[0].SceneIndices = append(pre, acts[0].SceneIndices...)
	}
	return acts
}

func actsFromHeuristic(doc *fountain.Document) []Act {
	n := len(doc.Scenes)
	parts := heuristicActCount
	if n < parts {
		parts = n
	}
	var acts []Act
	for p := 0; p < parts; p++ {
		lo := p * n / parts
		hi := (p + 1) * n / parts
		act := Act{
			Number:    p + 1,
			Label:     fmt.Sprintf("Act %d", p+1),
			Source:    SourceHeuristic,
			StartLine: doc.Scenes[lo].StartLine,
			EndLine:   doc.Scenes[hi-1].EndLine,
		}
		for i := lo; i < hi; i++ {
			act.SceneIndices = append(act.SceneIndices, i)
		}
		acts = append(acts, act)
	}
	return acts
}

// DetectSequences groups each act's scenes into location-continuity runs:
// a new sequence starts whenever the location changes.
func DetectSequences(doc *fountain.Document, acts []Act) []Sequence {
	var out []Sequence
	for _, act := range acts {
		num := 0
		var cur *Sequence
		for _, si := range act.SceneIndices {
			loc := strings.ToUpper(doc.Scenes[si].Location)
			if cur == nil || loc != cur.Location {
				num++
				out = append(out, Sequence{Act: act.Number, Number: num, Location: loc})
				cur = &out[len(out)-1]
			}
			cur.SceneIndices = append(cur.SceneIndices, si)
		}
	}
	return out
}

func parseActNumber(tok string) int {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if n, err := strconv.Atoi(tok); err == nil {
		return n
	}
	words := map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "five": 5}
	if n, ok := words[tok]; ok {
		return n
	}
	romans := map[string]int{"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5}
	if n, ok := romans[tok]; ok {
		return n
	}
	return 0
}
