/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package analytics computes scene, character, and dialogue statistics
// over a parsed screenplay. Like the rest of the engine it is pure:
// statistics are recomputed from the Document on every call.
package analytics

import (
	"sort"
	"strings"

	"screenwright/internal/fountain"
)

// linesPerPage approximates the industry one-minute-per-page rule for
// plain-text screenplays.
const linesPerPage = 55

// CharacterStats summarizes one character's dialogue footprint.
type CharacterStats struct {
	Name           string
	DialogueBlocks int
	Lines          int
	Words          int
	Scenes         int
}

// SceneStats summarizes one scene.
type SceneStats struct {
	Heading       string
	Index         int // 1-based
	Lines         int
	Words         int
	DialogueWords int
	ActionWords   int
	Characters    int
}

// Report is the full statistics block for a document.
type Report struct {
	SceneCount        int
	PageEstimate      int
	TotalWords        int
	DialogueWords     int
	ActionWords       int
	DialogueRatio     float64 // dialogue words / (dialogue + action words)
	InteriorScenes    int
	ExteriorScenes    int
	UniqueLocations   int
	AverageSceneLines float64
	Characters        []CharacterStats // sorted by words, descending
	Scenes            []SceneStats
}

// Analyze computes statistics for the whole document.
func Analyze(doc *fountain.Document) Report {
	r := Report{SceneCount: len(doc.Scenes)}
	if doc.TotalLines > 0 {
		r.PageEstimate = (doc.TotalLines + linesPerPage - 1) / linesPerPage
	}

	perChar := map[string]*CharacterStats{}
	var order []string
	locations := map[string]bool{}
	sceneLines := 0

	for i, sc := range doc.Scenes {
		ss := SceneStats{Heading: sc.Heading, Index: i + 1, Lines: sc.EndLine - sc.StartLine + 1, Characters: len(sc.Characters)}
		sceneLines += ss.Lines
		switch sc.IntExt {
		case fountain.IntExtInt:
			r.InteriorScenes++
		case fountain.IntExtExt:
			r.ExteriorScenes++
		}
		if loc := strings.ToUpper(sc.Location); loc != "" {
			locations[loc] = true
		}

		speaker := ""
		seenInScene := map[string]bool{}
		for _, el := range sc.Elements {
			words := len(strings.Fields(el.Text))
			switch el.Kind {
			case fountain.KindCharacter:
				speaker = fountain.CharacterName(el.Text)
				cs := perChar[speaker]
				if cs == nil {
					cs = &CharacterStats{Name: speaker}
					perChar[speaker] = cs
					order = append(order, speaker)
				}
				cs.DialogueBlocks++
				if !seenInScene[speaker] {
					seenInScene[speaker] = true
					cs.Scenes++
				}
			case fountain.KindDialogue, fountain.KindLyric:
				ss.DialogueWords += words
				if cs := perChar[speaker]; cs != nil {
					cs.Words += words
					cs.Lines += el.EndLine - el.StartLine + 1
				}
			case fountain.KindAction, fountain.KindCentered:
				ss.ActionWords += words
			}
		}
		ss.Words = ss.DialogueWords + ss.ActionWords
		r.DialogueWords += ss.DialogueWords
		r.ActionWords += ss.ActionWords
		r.Scenes = append(r.Scenes, ss)
	}

	r.TotalWords = r.DialogueWords + r.ActionWords
	if r.TotalWords > 0 {
		r.DialogueRatio = float64(r.DialogueWords) / float64(r.TotalWords)
	}
	r.UniqueLocations = len(locations)
	if len(doc.Scenes) > 0 {
		r.AverageSceneLines = float64(sceneLines) / float64(len(doc.Scenes))
	}

	for _, name := range order {
		r.Characters = append(r.Characters, *perChar[name])
	}
	sort.SliceStable(r.Characters, func(i, j int) bool {
		return r.Characters[i].Words > r.Characters[j].Words
	})
	return r
}

// PacingOutliers returns the 1-based indices of scenes whose line count
// deviates from the mean by more than 1.5 standard deviations. With fewer
// than four scenes there is not enough signal and the result is empty.
func PacingOutliers(r Report) []int {
	if len(r.Scenes) < 4 {
		return nil
	}
	mean := 0.0
	for _, s := range r.Scenes {
		mean += float64(s.Lines)
	}
	mean /= float64(len(r.Scenes))
	variance := 0.0
	for _, s := range r.Scenes {
		d := float64(s.Lines) - mean
		variance += d * d
	}
	variance /= float64(len(r.Scenes))
	if variance == 0 {
		return nil
	}
	var out []int
	for _, s := range r.Scenes {
		d := float64(s.Lines) - mean
		if d*d > 2.25*variance {
			out = append(out, s.Index)
		}
	}
	return out
}
