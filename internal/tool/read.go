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

	"screenwright/internal/analytics"
	"screenwright/internal/dialogue"
	"screenwright/internal/fountain"
	"screenwright/internal/structure"
)

func init() {
	register(Definition{
		Name:        "get_outline",
		Description: "List every scene with its number, heading, line range, and speaking characters.",
		Schema:      objectSchema(nil, ``),
		run:         runGetOutline,
	})
	register(Definition{
		Name:        "get_scene",
		Description: "Show one scene's metadata: heading, INT/EXT, location, scene number, line range, characters.",
		Schema:      objectSchema([]string{"scene"}, `"scene": `+sceneRefSchema),
		run:         runGetScene,
	})
	register(Definition{
		Name:        "get_scene_content",
		Description: "Return the full text of one scene exactly as it appears in the screenplay.",
		Schema:      objectSchema([]string{"scene"}, `"scene": `+sceneRefSchema),
		run:         runGetSceneContent,
	})
	register(Definition{
		Name:        "get_character_list",
		Description: "List every speaking character with dialogue block and word counts.",
		Schema:      objectSchema(nil, ``),
		run:         runGetCharacterList,
	})
	register(Definition{
		Name:        "get_character_lines",
		Description: "Return every dialogue line spoken by one character.",
		Schema:      objectSchema([]string{"character"}, `"character": {"type": "string", "minLength": 1}`),
		run:         runGetCharacterLines,
	})
	register(Definition{
		Name:        "get_scene_characters",
		Description: "List the characters who speak in one scene.",
		Schema:      objectSchema([]string{"scene"}, `"scene": `+sceneRefSchema),
		run:         runGetSceneCharacters,
	})
	register(Definition{
		Name:        "search_text",
		Description: "Find case-sensitive occurrences of a string, with line numbers and containing scenes.",
		Schema: objectSchema([]string{"query"},
			`"query": {"type": "string", "minLength": 1}, "scene": `+sceneRefSchema),
		run: runSearchText,
	})
	register(Definition{
		Name:        "get_statistics",
		Description: "Overall statistics: page estimate, word counts, dialogue ratio, locations, per-character totals.",
		Schema:      objectSchema(nil, ``),
		run:         runGetStatistics,
	})
	register(Definition{
		Name:        "get_structure",
		Description: "Act and sequence breakdown of the screenplay.",
		Schema:      objectSchema(nil, ``),
		run:         runGetStructure,
	})
	register(Definition{
		Name:        "get_act_analysis",
		Description: "Per-act detail: scene counts, page share, locations, and characters introduced. Optionally limited to one act.",
		Schema:      objectSchema(nil, `"actNumber": {"type": "integer", "minimum": 1}`),
		run:         runGetActAnalysis,
	})
	register(Definition{
		Name:        "get_turning_points",
		Description: "Locate the five classic turning points and compare them to their expected positions.",
		Schema:      objectSchema(nil, ``),
		run:         runGetTurningPoints,
	})
	register(Definition{
		Name:        "get_pacing",
		Description: "Scene length profile with statistical outliers flagged.",
		Schema:      objectSchema(nil, ``),
		run:         runGetPacing,
	})
	register(Definition{
		Name:        "validate_format",
		Description: "Lint the screenplay for Fountain formatting problems.",
		Schema:      objectSchema(nil, ``),
		run:         runValidateFormat,
	})
	register(Definition{
		Name:        "get_title_page",
		Description: "Show the title page entries in their original order.",
		Schema:      objectSchema(nil, ``),
		run:         runGetTitlePage,
	})
	register(Definition{
		Name:        "dialogue",
		Description: "Dialogue workshop: profile one character's voice or compare all voices pairwise.",
		Schema: objectSchema([]string{"action"},
			`"action": {"type": "string", "enum": ["profile", "analyze"]}, "character": {"type": "string"}, "scenes": {"type": "array", "items": {"type": "integer", "minimum": 1}}`),
		run: runDialogue,
	})
}

func runGetOutline(_ Input, text string) Result {
	doc := fountain.Parse(text)
	if len(doc.Scenes) == 0 {
		return textResult("No scenes found in the screenplay.")
	}
	var b strings.Builder
	if t := doc.Title(); t != "" {
		fmt.Fprintf(&b, "%s\n\n", t)
	}
	for i, sc := range doc.Scenes {
		fmt.Fprintf(&b, "%d. %s (lines %d-%d)", i+1, sc.Heading, sc.StartLine, sc.EndLine)
		if len(sc.Characters) > 0 {
			fmt.Fprintf(&b, " — %s", strings.Join(sc.Characters, ", "))
		}
		b.WriteString("\n")
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runGetScene(in Input, text string) Result {
	doc := fountain.Parse(text)
	o := resolveScene(doc, in["scene"])
	if !o.ok {
		return textResult("%s", o.message())
	}
	sc := doc.Scenes[o.index]
	var b strings.Builder
	fmt.Fprintf(&b, "Scene %d: %s\n", o.index+1, sc.Heading)
	fmt.Fprintf(&b, "Setting: %s", sc.IntExt)
	if sc.Location != "" {
		fmt.Fprintf(&b, ", %s", sc.Location)
	}
	b.WriteString("\n")
	if sc.SceneNumber != "" {
		fmt.Fprintf(&b, "Scene number: %s\n", sc.SceneNumber)
	}
	fmt.Fprintf(&b, "Lines: %d-%d\n", sc.StartLine, sc.EndLine)
	if len(sc.Characters) > 0 {
		fmt.Fprintf(&b, "Characters: %s", strings.Join(sc.Characters, ", "))
	} else {
		b.WriteString("Characters: none speaking")
	}
	return textResult("%s", b.String())
}

func runGetSceneContent(in Input, text string) Result {
	doc := fountain.Parse(text)
	o := resolveScene(doc, in["scene"])
	if !o.ok {
		return textResult("%s", o.message())
	}
	sc := doc.Scenes[o.index]
	lines, _ := splitLines(text)
	start, end := sc.StartLine-1, sc.EndLine
	if end > len(lines) {
		end = len(lines)
	}
	return textResult("%s", strings.TrimRight(strings.Join(lines[start:end], "\n"), "\n"))
}

func runGetCharacterList(_ Input, text string) Result {
	doc := fountain.Parse(text)
	r := analytics.Analyze(doc)
	if len(r.Characters) == 0 {
		return textResult("No speaking characters found.")
	}
	var b strings.Builder
	for _, c := range r.Characters {
		fmt.Fprintf(&b, "%s: %d dialogue blocks, %d words, speaks in %d scenes\n",
			c.Name, c.DialogueBlocks, c.Words, c.Scenes)
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runGetCharacterLines(in Input, text string) Result {
	doc := fountain.Parse(text)
	name := fountain.CharacterName(in.str("character"))
	lines := doc.DialogueOf(name)
	if len(lines) == 0 {
		if len(doc.Characters) == 0 {
			return textResult("Character %q not found; the screenplay has no speaking characters.", in.str("character"))
		}
		return textResult("Character %q not found. Known characters: %s.",
			in.str("character"), strings.Join(doc.Characters, ", "))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d dialogue lines:\n", name, len(lines))
	for _, el := range lines {
		fmt.Fprintf(&b, "line %d: %s\n", el.StartLine, el.Text)
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runGetSceneCharacters(in Input, text string) Result {
	doc := fountain.Parse(text)
	o := resolveScene(doc, in["scene"])
	if !o.ok {
		return textResult("%s", o.message())
	}
	sc := doc.Scenes[o.index]
	if len(sc.Characters) == 0 {
		return textResult("No characters speak in scene %d (%s).", o.index+1, sc.Heading)
	}
	return textResult("Characters in scene %d (%s): %s.", o.index+1, sc.Heading, strings.Join(sc.Characters, ", "))
}

func runSearchText(in Input, text string) Result {
	query := in.str("query")
	doc := fountain.Parse(text)
	lines, _ := splitLines(text)
	lo, hi := 1, len(lines)
	scope := "the screenplay"
	if _, present := in["scene"]; present {
		o := resolveScene(doc, in["scene"])
		if !o.ok {
			return textResult("%s", o.message())
		}
		sc := doc.Scenes[o.index]
		lo, hi = sc.StartLine, sc.EndLine
		scope = fmt.Sprintf("scene %d (%s)", o.index+1, sc.Heading)
	}
	var b strings.Builder
	total := 0
	for ln := lo; ln <= hi && ln <= len(lines); ln++ {
		n := strings.Count(lines[ln-1], query)
		if n == 0 {
			continue
		}
		total += n
		fmt.Fprintf(&b, "line %d: %s\n", ln, lines[ln-1])
	}
	if total == 0 {
		return textResult("%q not found in %s.", query, scope)
	}
	return textResult("Found %d occurrence(s) of %q in %s:\n%s", total, query, scope, strings.TrimRight(b.String(), "\n"))
}

func runGetStatistics(_ Input, text string) Result {
	doc := fountain.Parse(text)
	r := analytics.Analyze(doc)
	var b strings.Builder
	fmt.Fprintf(&b, "Scenes: %d\n", r.SceneCount)
	fmt.Fprintf(&b, "Estimated pages: %d\n", r.PageEstimate)
	fmt.Fprintf(&b, "Words: %d total (%d dialogue, %d action)\n", r.TotalWords, r.DialogueWords, r.ActionWords)
	fmt.Fprintf(&b, "Dialogue ratio: %.0f%%\n", r.DialogueRatio*100)
	fmt.Fprintf(&b, "Interior/exterior: %d/%d, %d unique locations\n", r.InteriorScenes, r.ExteriorScenes, r.UniqueLocations)
	fmt.Fprintf(&b, "Average scene length: %.1f lines\n", r.AverageSceneLines)
	if len(r.Characters) > 0 {
		b.WriteString("Characters by dialogue volume:\n")
		for _, c := range r.Characters {
			fmt.Fprintf(&b, "  %s: %d words in %d blocks\n", c.Name, c.Words, c.DialogueBlocks)
		}
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runGetStructure(_ Input, text string) Result {
	doc := fountain.Parse(text)
	acts := structure.DetectActs(doc)
	if len(acts) == 0 {
		return textResult("No scenes found in the screenplay.")
	}
	seqs := structure.DetectSequences(doc, acts)
	var b strings.Builder
	src := "explicit act markers"
	if acts[0].Source == structure.SourceHeuristic {
		src = "an even scene split (no act markers found)"
	}
	fmt.Fprintf(&b, "%d acts from %s:\n", len(acts), src)
	for _, act := range acts {
		label := act.Label
		if label == "" {
			label = fmt.Sprintf("Act %d", act.Number)
		}
		fmt.Fprintf(&b, "%s: %d scenes (lines %d-%d)\n", label, len(act.SceneIndices), act.StartLine, act.EndLine)
	}
	fmt.Fprintf(&b, "%d sequences:\n", len(seqs))
	for _, sq := range seqs {
		fmt.Fprintf(&b, "  act %d seq %d at %s: %d scene(s)\n", sq.Act, sq.Number, orUnknown(sq.Location), len(sq.SceneIndices))
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runGetActAnalysis(in Input, text string) Result {
	doc := fountain.Parse(text)
	acts := structure.DetectActs(doc)
	if len(acts) == 0 {
		return textResult("No scenes found in the screenplay.")
	}
	actNumber, haveAct := in.num("actNumber")
	if haveAct {
		known := false
		for _, a := range acts {
			if a.Number == actNumber {
				known = true
				break
			}
		}
		if !known {
			return textResult("Act %d not found; the screenplay has %d act(s).", actNumber, len(acts))
		}
	}
	r := analytics.Analyze(doc)
	allLocations := map[string]bool{}
	for i := range doc.Scenes {
		if loc := doc.Scenes[i].Location; loc != "" {
			allLocations[strings.ToUpper(loc)] = true
		}
	}
	var b strings.Builder
	// seen accumulates across every act in order so a filtered report still
	// shows which characters that act introduces
	seen := map[string]bool{}
	for _, act := range acts {
		label := act.Label
		if label == "" {
			label = fmt.Sprintf("Act %d", act.Number)
		}
		locs := map[string]bool{}
		var introduced []string
		lines := 0
		for _, i := range act.SceneIndices {
			sc := doc.Scenes[i]
			lines += sc.EndLine - sc.StartLine + 1
			if sc.Location != "" {
				locs[strings.ToUpper(sc.Location)] = true
			}
			for _, c := range sc.Characters {
				if !seen[c] {
					seen[c] = true
					introduced = append(introduced, c)
				}
			}
		}
		if haveAct && act.Number != actNumber {
			continue
		}
		share := 0.0
		if doc.TotalLines > 0 {
			share = 100 * float64(lines) / float64(doc.TotalLines)
		}
		fmt.Fprintf(&b, "%s: %d scenes, %.0f%% of the screenplay, uniqueLocations:%d", label, len(act.SceneIndices), share, len(locs))
		if len(introduced) > 0 {
			fmt.Fprintf(&b, ", introduces %s", strings.Join(introduced, ", "))
		}
		b.WriteString("\n")
	}
	if len(allLocations) == 1 && r.SceneCount > 1 {
		b.WriteString("All scenes in the same location.\n")
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

// runGetTurningPoints always measures against the built-in distribution:
// tools are pure (input, text) functions with no ambient configuration.
// Custom arc-reference files are a CLI concern (the structure command).
func runGetTurningPoints(_ Input, text string) Result {
	doc := fountain.Parse(text)
	cmps := structure.CompareArc(doc, structure.DefaultReference())
	var b strings.Builder
	for _, c := range cmps {
		if c.SceneIndex < 0 {
			fmt.Fprintf(&b, "%s: no scene to assign (expected around %.0f-%.0f%%)\n", c.Name, c.ExpectedLow, c.ExpectedHigh)
			continue
		}
		status := "within the expected range"
		if c.Flagged {
			status = fmt.Sprintf("outside the expected %.0f-%.0f%% range", c.ExpectedLow, c.ExpectedHigh)
		}
		fmt.Fprintf(&b, "%s: scene %d (%s) at %.0f%%, %s\n",
			c.Name, c.SceneIndex+1, doc.Scenes[c.SceneIndex].Heading, c.DetectedPct, status)
		for _, ex := range c.Exemplars {
			fmt.Fprintf(&b, "  e.g. %s\n", ex)
		}
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runGetPacing(_ Input, text string) Result {
	doc := fountain.Parse(text)
	r := analytics.Analyze(doc)
	if r.SceneCount == 0 {
		return textResult("No scenes found in the screenplay.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Average scene length: %.1f lines\n", r.AverageSceneLines)
	for _, sc := range r.Scenes {
		fmt.Fprintf(&b, "%d. %s: %d lines, %d words\n", sc.Index, sc.Heading, sc.Lines, sc.Words)
	}
	outliers := analytics.PacingOutliers(r)
	if len(outliers) == 0 {
		b.WriteString("No pacing outliers.")
	} else {
		parts := make([]string, len(outliers))
		for i, idx := range outliers {
			parts[i] = fmt.Sprintf("scene %d (%s)", idx, r.Scenes[idx-1].Heading)
		}
		fmt.Fprintf(&b, "Pacing outliers: %s.", strings.Join(parts, ", "))
	}
	return textResult("%s", b.String())
}

func runValidateFormat(_ Input, text string) Result {
	doc := fountain.Parse(text)
	issues := fountain.Validate(doc)
	if len(issues) == 0 {
		return textResult("No formatting issues found.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d formatting issue(s):\n", len(issues))
	for _, is := range issues {
		fmt.Fprintf(&b, "line %d [%s] %s: %s\n", is.Line, is.Severity, is.Rule, is.Message)
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runGetTitlePage(_ Input, text string) Result {
	doc := fountain.Parse(text)
	if len(doc.TitleOrder) == 0 {
		return textResult("The screenplay has no title page.")
	}
	var b strings.Builder
	for _, k := range doc.TitleOrder {
		fmt.Fprintf(&b, "%s: %s\n", k, doc.TitlePage[k])
	}
	return textResult("%s", strings.TrimRight(b.String(), "\n"))
}

func runDialogue(in Input, text string) Result {
	doc := fountain.Parse(text)
	filter, msg := sceneFilterFromInput(doc, in)
	if msg != "" {
		return textResult("%s", msg)
	}
	switch in.str("action") {
	case "profile":
		name := in.str("character")
		if name == "" {
			return textResult("The profile action needs a character name.")
		}
		p := dialogue.BuildProfile(doc, name, filter)
		if p.BlockCount == 0 {
			return textResult("Character %q not found or has no dialogue.", name)
		}
		return textResult("%s", formatProfile(p))
	case "analyze":
		profiles, cmps := dialogue.CompareAll(doc, filter)
		if len(profiles) < 2 {
			return textResult("Need at least two speaking characters to compare voices; found %d.", len(profiles))
		}
		var b strings.Builder
		for _, p := range profiles {
			b.WriteString(formatProfile(p))
			b.WriteString("\n")
		}
		for _, c := range cmps {
			b.WriteString(formatComparison(c))
			b.WriteString("\n")
		}
		return textResult("%s", strings.TrimRight(b.String(), "\n"))
	default:
		return textResult("Unknown dialogue action %q; use profile or analyze.", in.str("action"))
	}
}

// sceneFilterFromInput converts an optional 1-based "scenes" argument
// into 0-based indices for the workshop.
func sceneFilterFromInput(doc *fountain.Document, in Input) ([]int, string) {
	raw, ok := in["scenes"].([]any)
	if !ok {
		return nil, ""
	}
	var filter []int
	for _, v := range raw {
		n, isNum := v.(float64)
		if !isNum || int(n) < 1 || int(n) > len(doc.Scenes) {
			return nil, fmt.Sprintf("Scene %v not found; the screenplay has %d scenes.", v, len(doc.Scenes))
		}
		filter = append(filter, int(n)-1)
	}
	return filter, ""
}

func formatProfile(p dialogue.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d words over %d blocks, %.1f words per sentence, %.0f%% questions",
		p.Name, p.WordCount, p.BlockCount, p.AvgSentenceLength, p.QuestionRatio*100)
	if len(p.TopWords) > 0 {
		fmt.Fprintf(&b, ", favors: %s", strings.Join(p.TopWords, ", "))
	}
	return b.String()
}

func formatComparison(c dialogue.Comparison) string {
	switch c.Verdict {
	case dialogue.VerdictSimilar:
		return fmt.Sprintf("%s and %s sound similar: %.0f%% vocabulary overlap, sentence lengths %.1f words apart. Consider sharpening one voice.",
			c.A, c.B, c.VocabOverlap*100, c.LengthDelta)
	case dialogue.VerdictDistinct:
		return fmt.Sprintf("%s and %s are clearly distinct: %.0f%% vocabulary overlap, sentence lengths %.1f words apart.",
			c.A, c.B, c.VocabOverlap*100, c.LengthDelta)
	default:
		return fmt.Sprintf("%s and %s are moderately distinct: %.0f%% vocabulary overlap, sentence lengths %.1f words apart.",
			c.A, c.B, c.VocabOverlap*100, c.LengthDelta)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "UNSPECIFIED"
	}
	return s
}
