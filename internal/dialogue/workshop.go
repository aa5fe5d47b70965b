/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dialogue builds per-character voice profiles from parsed
// screenplay dialogue and compares them pairwise for distinctiveness.
package dialogue

import (
	"math"
	"sort"
	"strings"

	"screenwright/internal/fountain"
)

// topVocabulary is how many non-stopword terms a profile keeps.
const topVocabulary = 10

// Verdict classifies a character pair.
type Verdict string

const (
	VerdictSimilar  Verdict = "similar"
	VerdictDistinct Verdict = "distinct"
	VerdictNeutral  Verdict = "neutral"
)

// Profile is a lightweight voice fingerprint for one character.
type Profile struct {
	Name              string
	WordCount         int
	BlockCount        int
	AvgWordsPerBlock  float64
	AvgSentenceLength float64
	SentenceLenStdDev float64
	QuestionRatio     float64
	TopWords          []string
}

// Comparison is the pairwise distinctiveness result.
type Comparison struct {
	A, B         string
	VocabOverlap float64 // share of top-vocabulary terms in common
	LengthDelta  float64 // |avg sentence length difference| in words
	Verdict      Verdict
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "for": true,
	"is": true, "it": true, "was": true, "are": true, "be": true,
	"i": true, "you": true, "he": true, "she": true, "we": true, "they": true,
	"my": true, "your": true, "his": true, "her": true, "our": true, "their": true,
	"me": true, "him": true, "them": true, "us": true, "this": true, "that": true,
	"do": true, "dont": true, "not": true, "no": true, "yes": true, "so": true,
	"what": true, "with": true, "have": true, "has": true, "had": true,
	"will": true, "would": true, "can": true, "cant": true, "im": true,
}

// BuildProfile computes a character's voice profile from every dialogue
// block attributed to them, optionally restricted to the given 0-based
// scene indices (nil means whole document).
func BuildProfile(doc *fountain.Document, name string, sceneFilter []int) Profile {
	p := Profile{Name: fountain.CharacterName(name)}
	blocks := dialogueBlocks(doc, p.Name, sceneFilter)
	if len(blocks) == 0 {
		return p
	}
	p.BlockCount = len(blocks)

	freq := map[string]int{}
	var sentences []int
	questions, sentenceCount := 0, 0
	for _, text := range blocks {
		words := strings.Fields(text)
		p.WordCount += len(words)
		for _, w := range words {
			t := normalizeToken(w)
			if t != "" && !stopwords[t] {
				freq[t]++
			}
		}
		for _, s := range splitSentences(text) {
			n := len(strings.Fields(s))
			if n == 0 {
				continue
			}
			sentences = append(sentences, n)
			sentenceCount++
			if strings.HasSuffix(strings.TrimSpace(s), "?") {
				questions++
			}
		}
	}
	p.AvgWordsPerBlock = float64(p.WordCount) / float64(p.BlockCount)
	if sentenceCount > 0 {
		sum := 0
		for _, n := range sentences {
			sum += n
		}
		mean := float64(sum) / float64(sentenceCount)
		p.AvgSentenceLength = mean
		variance := 0.0
		for _, n := range sentences {
			d := float64(n) - mean
			variance += d * d
		}
		p.SentenceLenStdDev = math.Sqrt(variance / float64(sentenceCount))
		p.QuestionRatio = float64(questions) / float64(sentenceCount)
	}
	p.TopWords = topWords(freq, topVocabulary)
	return p
}

// Compare measures two profiles against each other. A pair sounds
// similar when their top vocabularies overlap more than half or their
// average sentence lengths sit within one word; it is distinct when
// overlap is under 30% and the length gap exceeds two words.
func Compare(a, b Profile) Comparison {
	c := Comparison{A: a.Name, B: b.Name}
	c.VocabOverlap = overlap(a.TopWords, b.TopWords)
	c.LengthDelta = math.Abs(a.AvgSentenceLength - b.AvgSentenceLength)
	switch {
	case c.VocabOverlap > 0.5 || c.LengthDelta < 1:
		c.Verdict = VerdictSimilar
	case c.VocabOverlap < 0.3 && c.LengthDelta > 2:
		c.Verdict = VerdictDistinct
	default:
		c.Verdict = VerdictNeutral
	}
	return c
}

// CompareAll profiles every character in scope and returns all pairwise
// comparisons, ordered by the characters' first appearance.
func CompareAll(doc *fountain.Document, sceneFilter []int) ([]Profile, []Comparison) {
	var profiles []Profile
	for _, name := range doc.Characters {
		p := BuildProfile(doc, name, sceneFilter)
		if p.BlockCount > 0 {
			profiles = append(profiles, p)
		}
	}
	var comparisons []Comparison
	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			comparisons = append(comparisons, Compare(profiles[i], profiles[j]))
		}
	}
	return profiles, comparisons
}

func dialogueBlocks(doc *fountain.Document, name string, sceneFilter []int) []string {
	inScope := func(line int) bool {
		if sceneFilter == nil {
			return true
		}
		for _, si := range sceneFilter {
			if si >= 0 && si < len(doc.Scenes) {
				sc := doc.Scenes[si]
				if line >= sc.StartLine && line <= sc.EndLine {
					return true
				}
			}
		}
		return false
	}
	var out []string
	for _, el := range doc.DialogueOf(name) {
		if inScope(el.StartLine) {
			out = append(out, el.Text)
		}
	}
	return out
}

func normalizeToken(w string) string {
	t := strings.ToLower(w)
	t = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, t)
	return t
}

// splitSentences keeps the terminating punctuation with each sentence so
// question detection still works downstream.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func topWords(freq map[string]int, n int) []string {
	type wc struct {
		w string
		c int
	}
	list := make([]wc, 0, len(freq))
	for w, c := range freq {
		list = append(list, wc{w, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].c != list[j].c {
			return list[i].c > list[j].c
		}
		return list[i].w < list[j].w
	})
	if len(list) > n {
		list = list[:n]
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.w
	}
	return out
}

func overlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := map[string]bool{}
	for _, w := range a {
		set[w] = true
	}
	common := 0
	for _, w := range b {
		if set[w] {
			common++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(common) / float64(smaller)
}
