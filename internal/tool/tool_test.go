/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"strings"
	"testing"

	"screenwright/internal/fountain"
)

const office = "INT. OFFICE - DAY\n" +
	"\n" +
	"He stares at the phone.\n" +
	"\n" +
	"JAKE\n" +
	"I'm Jake, remember?\n" +
	"\n" +
	"INT. WAREHOUSE - NIGHT\n" +
	"\n" +
	"A forklift idles.\n"

func TestExecuteUnknownTool(t *testing.T) {
	res := Execute("no_such_tool", nil, office)
	if res.Updated {
		t.Fatalf("unknown tool must not update the screenplay")
	}
	if !strings.Contains(res.Result, "not found") || !strings.Contains(res.Result, "get_outline") {
		t.Fatalf("expected a not-found message listing tools, got %q", res.Result)
	}
}

func TestExecuteSchemaViolation(t *testing.T) {
	res := Execute("replace_text", Input{"replace": "x"}, office)
	if res.Updated {
		t.Fatalf("invalid input must not update the screenplay")
	}
	if !strings.Contains(res.Result, "Invalid input for replace_text") {
		t.Fatalf("expected a schema violation message, got %q", res.Result)
	}
}

func TestDefinitionsReadToolsFirst(t *testing.T) {
	defs := Definitions()
	if len(defs) < 20 {
		t.Fatalf("expected the full tool set, got %d definitions", len(defs))
	}
	sawMutating := false
	for _, d := range defs {
		if d.Mutating {
			sawMutating = true
		} else if sawMutating {
			t.Fatalf("read tool %s listed after a mutation tool", d.Name)
		}
	}
}

func TestSceneNotFoundIsTextual(t *testing.T) {
	for _, name := range []string{"get_scene_content", "delete_scene", "get_scene"} {
		res := Execute(name, Input{"scene": "ROOFTOP"}, office)
		if res.Updated {
			t.Fatalf("%s: missing scene must not update the screenplay", name)
		}
		if !strings.Contains(res.Result, "not found") {
			t.Fatalf("%s: expected a not-found message, got %q", name, res.Result)
		}
	}
}

func TestSceneAmbiguousIsTextual(t *testing.T) {
	res := Execute("delete_scene", Input{"scene": "INT."}, office)
	if res.Updated {
		t.Fatalf("ambiguous reference must not delete anything")
	}
	if !strings.Contains(res.Result, "ambiguous") || !strings.Contains(res.Result, "OFFICE") {
		t.Fatalf("expected an ambiguity message listing candidates, got %q", res.Result)
	}
}

func TestGetOutline(t *testing.T) {
	res := Execute("get_outline", nil, office)
	for _, want := range []string{"1. INT. OFFICE - DAY", "2. INT. WAREHOUSE - NIGHT", "JAKE"} {
		if !strings.Contains(res.Result, want) {
			t.Fatalf("outline missing %q:\n%s", want, res.Result)
		}
	}
}

func TestGetSceneContent(t *testing.T) {
	res := Execute("get_scene_content", Input{"scene": "WAREHOUSE"}, office)
	if !strings.Contains(res.Result, "A forklift idles.") {
		t.Fatalf("expected the scene body, got %q", res.Result)
	}
	if strings.Contains(res.Result, "JAKE") {
		t.Fatalf("scene content leaked into the wrong scene: %q", res.Result)
	}
}

func TestGetSceneByNumber(t *testing.T) {
	res := Execute("get_scene", Input{"scene": float64(2)}, office)
	if !strings.Contains(res.Result, "INT. WAREHOUSE - NIGHT") || !strings.Contains(res.Result, "INT") {
		t.Fatalf("unexpected scene report: %q", res.Result)
	}
}

func TestSearchTextIsCaseSensitive(t *testing.T) {
	res := Execute("search_text", Input{"query": "Jake"}, office)
	if !strings.Contains(res.Result, "Found 1 occurrence") {
		t.Fatalf("expected exactly one case-sensitive match, got %q", res.Result)
	}
	res = Execute("search_text", Input{"query": "jake"}, office)
	if !strings.Contains(res.Result, "not found") {
		t.Fatalf("lowercase query must not match, got %q", res.Result)
	}
}

func TestGetStatistics(t *testing.T) {
	res := Execute("get_statistics", nil, office)
	for _, want := range []string{"Scenes: 2", "JAKE"} {
		if !strings.Contains(res.Result, want) {
			t.Fatalf("statistics missing %q:\n%s", want, res.Result)
		}
	}
}

func TestGetActAnalysisSingleLocation(t *testing.T) {
	text := "INT. CABIN - DAY\n\nShe waits.\n\n" +
		"INT. CABIN - NIGHT\n\nShe still waits.\n\n" +
		"INT. CABIN - DAWN\n\nShe leaves.\n"
	res := Execute("get_act_analysis", nil, text)
	if !strings.Contains(res.Result, "uniqueLocations:1") {
		t.Fatalf("expected uniqueLocations:1, got:\n%s", res.Result)
	}
	if !strings.Contains(res.Result, "All scenes in the same location.") {
		t.Fatalf("expected the single-location note, got:\n%s", res.Result)
	}
}

func TestGetActAnalysisByActNumber(t *testing.T) {
	text := "INT. CABIN - DAY\n\nShe waits.\n\n" +
		"INT. CABIN - NIGHT\n\nShe still waits.\n\n" +
		"INT. CABIN - DAWN\n\nShe leaves.\n"
	res := Execute("get_act_analysis", Input{"actNumber": float64(1)}, text)
	if strings.Contains(res.Result, "Invalid input") {
		t.Fatalf("actNumber rejected: %s", res.Result)
	}
	if !strings.Contains(res.Result, "Act 1:") || strings.Contains(res.Result, "Act 2:") {
		t.Fatalf("expected only act 1 in the report, got:\n%s", res.Result)
	}
	if !strings.Contains(res.Result, "uniqueLocations:1") {
		t.Fatalf("expected uniqueLocations:1, got:\n%s", res.Result)
	}
	if !strings.Contains(res.Result, "All scenes in the same location.") {
		t.Fatalf("expected the single-location note, got:\n%s", res.Result)
	}
}

func TestGetActAnalysisActNotFound(t *testing.T) {
	text := "INT. CABIN - DAY\n\nShe waits.\n"
	res := Execute("get_act_analysis", Input{"actNumber": float64(9)}, text)
	if !strings.Contains(res.Result, "not found") {
		t.Fatalf("expected a not-found result, got:\n%s", res.Result)
	}
	if res.Updated {
		t.Fatalf("read tool must not mutate")
	}
}

func TestDialogueAnalyzeSimilarVoices(t *testing.T) {
	text := "INT. FARM - DAY\n\n" +
		"JAKE\nThe harvest failed again this year.\n\n" +
		"SARA\nThe harvest failed again last year.\n"
	res := Execute("dialogue", Input{"action": "analyze"}, text)
	if !strings.Contains(res.Result, "sound similar") {
		t.Fatalf("expected a similarity verdict, got:\n%s", res.Result)
	}
	if !strings.Contains(res.Result, "JAKE") || !strings.Contains(res.Result, "SARA") {
		t.Fatalf("expected both profiles, got:\n%s", res.Result)
	}
}

func TestDialogueProfileUnknownCharacter(t *testing.T) {
	res := Execute("dialogue", Input{"action": "profile", "character": "NOBODY"}, office)
	if !strings.Contains(res.Result, "not found") {
		t.Fatalf("expected not-found for unknown character, got %q", res.Result)
	}
}

func TestGetCharacterLines(t *testing.T) {
	res := Execute("get_character_lines", Input{"character": "jake"}, office)
	if !strings.Contains(res.Result, "I'm Jake, remember?") {
		t.Fatalf("expected Jake's line, got %q", res.Result)
	}
	res = Execute("get_character_lines", Input{"character": "SARA"}, office)
	if !strings.Contains(res.Result, "not found") || !strings.Contains(res.Result, "JAKE") {
		t.Fatalf("expected not-found with known characters, got %q", res.Result)
	}
}

func TestGetTitlePageEmpty(t *testing.T) {
	res := Execute("get_title_page", nil, office)
	if !strings.Contains(res.Result, "no title page") {
		t.Fatalf("expected a no-title-page message, got %q", res.Result)
	}
}

func TestGetTurningPointsEmptyDocument(t *testing.T) {
	res := Execute("get_turning_points", nil, "")
	if res.Updated {
		t.Fatalf("read tool must never update")
	}
	if !strings.Contains(res.Result, "no scene to assign") {
		t.Fatalf("expected per-point no-scene entries, got %q", res.Result)
	}
}

func TestReadToolsNeverMutate(t *testing.T) {
	for _, d := range Definitions() {
		if d.Mutating {
			continue
		}
		in := Input{}
		switch d.Name {
		case "get_scene", "get_scene_content", "get_scene_characters":
			in["scene"] = float64(1)
		case "get_character_lines":
			in["character"] = "JAKE"
		case "search_text":
			in["query"] = "phone"
		case "dialogue":
			in["action"] = "profile"
			in["character"] = "JAKE"
		}
		res := Execute(d.Name, in, office)
		if res.Updated || res.UpdatedScreenplay != "" {
			t.Fatalf("%s returned updated text", d.Name)
		}
	}
}

// partitionIntact asserts the scene ranges plus preamble still cover the
// whole text after a mutation.
func partitionIntact(t *testing.T, text string) {
	t.Helper()
	doc := fountain.Parse(text)
	if len(doc.Scenes) == 0 {
		return
	}
	for i := 1; i < len(doc.Scenes); i++ {
		if doc.Scenes[i].StartLine != doc.Scenes[i-1].EndLine+1 {
			t.Fatalf("gap between scene %d and %d: %d -> %d",
				i, i+1, doc.Scenes[i-1].EndLine, doc.Scenes[i].StartLine)
		}
	}
	if last := doc.Scenes[len(doc.Scenes)-1]; last.EndLine != doc.TotalLines {
		t.Fatalf("last scene ends at %d, document has %d lines", last.EndLine, doc.TotalLines)
	}
}
