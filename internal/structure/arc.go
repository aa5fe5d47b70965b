/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package structure

import (
	"strings"
	"unicode"

	"screenwright/internal/fountain"
)

// searchPad widens a turning point's expected window (in percentage
// points of the scene sequence) when scanning for candidates.
const searchPad = 10.0

// TurningPointComparison holds one detected turning point measured
// against its expected position range.
type TurningPointComparison struct {
	Name         string
	SceneIndex   int // 0-based; -1 when the document has no scenes
	DetectedPct  float64
	ExpectedLow  float64
	ExpectedHigh float64
	Flagged      bool
	Exemplars    []string
}

// CompareArc locates the reference's turning points in the document and
// flags each one whose detected scene percentage falls outside its
// expected range. With no scenes it returns one entry per reference
// point with SceneIndex -1.
func CompareArc(doc *fountain.Document, ref Reference) []TurningPointComparison {
	n := len(doc.Scenes)
	out := make([]TurningPointComparison, 0, len(ref.Points))
	if n == 0 {
		for _, tp := range ref.Points {
			out = append(out, TurningPointComparison{Name: tp.Name, SceneIndex: -1, ExpectedLow: tp.Low, ExpectedHigh: tp.High, Flagged: true})
		}
		return out
	}

	scores := make([]float64, n)
	for i := range doc.Scenes {
		scores[i] = tensionScore(&doc.Scenes[i])
	}

	for _, tp := range ref.Points {
		idx := pickScene(doc, scores, tp)
		pct := scenePct(idx, n)
		cmp := TurningPointComparison{
			Name:         tp.Name,
			SceneIndex:   idx,
			DetectedPct:  pct,
			ExpectedLow:  tp.Low,
			ExpectedHigh: tp.High,
			Flagged:      pct < tp.Low || pct > tp.High,
			Exemplars:    exemplars(&doc.Scenes[idx]),
		}
		out = append(out, cmp)
	}
	return out
}

// scenePct maps a 0-based scene index to its percentage position.
func scenePct(idx, n int) float64 {
	return 100 * float64(idx+1) / float64(n)
}

// pickScene chooses the best-scoring scene inside the padded expected
// window. Ties go to the earliest scene; climax-type beats prefer the
// densest scene (score per line) instead of the raw score. An empty
// window degrades to the scene nearest the window midpoint.
func pickScene(doc *fountain.Document, scores []float64, tp TurningPoint) int {
	n := len(doc.Scenes)
	lo, hi := tp.Low-searchPad, tp.High+searchPad
	best := -1
	var bestScore float64
	for i := 0; i < n; i++ {
		pct := scenePct(i, n)
		if pct < lo || pct > hi {
			continue
		}
		score := scores[i]
		if tp.Climactic {
			lines := doc.Scenes[i].EndLine - doc.Scenes[i].StartLine + 1
			score = scores[i] / float64(lines)
		}
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best >= 0 {
		return best
	}
	mid := (tp.Low + tp.High) / 2
	best = 0
	bestDist := -1.0
	for i := 0; i < n; i++ {
		d := scenePct(i, n) - mid
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// tensionScore is a cheap proxy for dramatic intensity: exclamation
// density, ALL-CAPS dialogue tokens, and short choppy action lines.
func tensionScore(sc *fountain.Scene) float64 {
	score := 0.0
	for _, el := range sc.Elements {
		switch el.Kind {
		case fountain.KindDialogue:
			score += 2 * float64(strings.Count(el.Text, "!"))
			for _, tok := range strings.Fields(el.Text) {
				if isShoutedToken(tok) {
					score++
				}
			}
		case fountain.KindAction:
			score += float64(strings.Count(el.Text, "!"))
			for _, line := range strings.Split(el.Text, "\n") {
				if l := len(strings.TrimSpace(line)); l > 0 && l < 40 {
					score += 0.5
				}
			}
		}
	}
	return score
}

// isShoutedToken reports whether a dialogue token is an ALL-CAPS word of
// at least two letters.
func isShoutedToken(tok string) bool {
	letters := 0
	for _, r := range tok {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters >= 2
}

// exemplars pulls up to two high-tension lines from a scene, falling back
// to the heading when the scene is quiet.
func exemplars(sc *fountain.Scene) []string {
	var out []string
	for _, el := range sc.Elements {
		if el.Kind != fountain.KindDialogue && el.Kind != fountain.KindAction {
			continue
		}
		for _, line := range strings.Split(el.Text, "\n") {
			if strings.Contains(line, "!") {
				out = append(out, strings.TrimSpace(line))
				if len(out) == 2 {
					return out
				}
			}
		}
	}
	if len(out) == 0 {
		out = append(out, sc.Heading)
	}
	return out
}
