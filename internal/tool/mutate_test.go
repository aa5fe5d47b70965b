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

func TestReplaceTextCaseSensitive(t *testing.T) {
	res := Execute("replace_text", Input{"find": "Jake", "replace": "Jacob"}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	if !strings.Contains(res.Result, "Replaced 1 occurrence") {
		t.Fatalf("expected exactly one replacement, got %q", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if got := doc.Characters; len(got) != 1 || got[0] != "JAKE" {
		t.Fatalf("the JAKE cue must survive a case-sensitive replace, got %v", got)
	}
	if !strings.Contains(res.UpdatedScreenplay, "I'm Jacob, remember?") {
		t.Fatalf("dialogue not rewritten:\n%s", res.UpdatedScreenplay)
	}
}

func TestReplaceTextNotFound(t *testing.T) {
	res := Execute("replace_text", Input{"find": "zeppelin", "replace": "blimp"}, office)
	if res.Updated || res.UpdatedScreenplay != "" {
		t.Fatalf("no match must mean no update")
	}
	if !strings.Contains(res.Result, "not found") {
		t.Fatalf("expected a not-found message, got %q", res.Result)
	}
}

func TestReplaceTextSceneScoped(t *testing.T) {
	text := "INT. A - DAY\n\nThe phone rings.\n\nINT. B - DAY\n\nThe phone rings.\n"
	res := Execute("replace_text", Input{"find": "phone", "replace": "bell", "scene": float64(2)}, text)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	if strings.Count(res.UpdatedScreenplay, "phone") != 1 || strings.Count(res.UpdatedScreenplay, "bell") != 1 {
		t.Fatalf("replace leaked outside scene 2:\n%s", res.UpdatedScreenplay)
	}
}

func TestInsertScene(t *testing.T) {
	res := Execute("insert_scene", Input{
		"heading":     "INT. HALLWAY - DAY",
		"content":     "Footsteps echo.",
		"after_scene": float64(1),
	}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if len(doc.Scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(doc.Scenes))
	}
	want := []string{"INT. OFFICE - DAY", "INT. HALLWAY - DAY", "INT. WAREHOUSE - NIGHT"}
	for i, h := range want {
		if doc.Scenes[i].Heading != h {
			t.Fatalf("scene %d = %q, want %q", i+1, doc.Scenes[i].Heading, h)
		}
	}
	partitionIntact(t, res.UpdatedScreenplay)
}

func TestInsertSceneAtStart(t *testing.T) {
	res := Execute("insert_scene", Input{"heading": "EXT. STREET - DAY", "at_start": true}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if len(doc.Scenes) != 3 || doc.Scenes[0].Heading != "EXT. STREET - DAY" {
		t.Fatalf("unexpected scene order: %v", doc.SceneHeadings())
	}
	partitionIntact(t, res.UpdatedScreenplay)
}

func TestInsertSceneIntoEmptyDocument(t *testing.T) {
	res := Execute("insert_scene", Input{"heading": "INT. VOID - NIGHT"}, "")
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if len(doc.Scenes) != 1 || doc.Scenes[0].Heading != "INT. VOID - NIGHT" {
		t.Fatalf("unexpected document:\n%s", res.UpdatedScreenplay)
	}
}

func TestDeleteScene(t *testing.T) {
	res := Execute("delete_scene", Input{"scene": "OFFICE"}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	if len(res.UpdatedScreenplay) >= len(office) {
		t.Fatalf("deletion must shrink the text")
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if len(doc.Scenes) != 1 || doc.Scenes[0].Heading != "INT. WAREHOUSE - NIGHT" {
		t.Fatalf("unexpected scenes after delete: %v", doc.SceneHeadings())
	}
	if strings.Contains(res.UpdatedScreenplay, "JAKE") {
		t.Fatalf("deleted scene content survived:\n%s", res.UpdatedScreenplay)
	}
	partitionIntact(t, res.UpdatedScreenplay)
}

func TestMoveScene(t *testing.T) {
	res := Execute("move_scene", Input{"scene": float64(2), "to_position": float64(1)}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	want := []string{"INT. WAREHOUSE - NIGHT", "INT. OFFICE - DAY"}
	if len(doc.Scenes) != 2 || doc.Scenes[0].Heading != want[0] || doc.Scenes[1].Heading != want[1] {
		t.Fatalf("unexpected order after move: %v", doc.SceneHeadings())
	}
	partitionIntact(t, res.UpdatedScreenplay)
}

func TestMoveSceneToSamePosition(t *testing.T) {
	res := Execute("move_scene", Input{"scene": float64(1), "to_position": float64(1)}, office)
	if res.Updated {
		t.Fatalf("moving a scene onto itself must not rewrite the text")
	}
}

func TestReplaceSceneContent(t *testing.T) {
	res := Execute("replace_scene_content", Input{"scene": float64(1), "content": "She answers."}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if len(doc.Scenes) != 2 || doc.Scenes[0].Heading != "INT. OFFICE - DAY" {
		t.Fatalf("heading lost: %v", doc.SceneHeadings())
	}
	if strings.Contains(res.UpdatedScreenplay, "JAKE") || !strings.Contains(res.UpdatedScreenplay, "She answers.") {
		t.Fatalf("body not replaced:\n%s", res.UpdatedScreenplay)
	}
	partitionIntact(t, res.UpdatedScreenplay)
}

func TestAppendToScene(t *testing.T) {
	res := Execute("append_to_scene", Input{"scene": float64(1), "content": "The phone rings."}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if len(doc.Scenes) != 2 {
		t.Fatalf("scene count changed: %v", doc.SceneHeadings())
	}
	appended := strings.Index(res.UpdatedScreenplay, "The phone rings.")
	nextScene := strings.Index(res.UpdatedScreenplay, "INT. WAREHOUSE")
	if appended < 0 || nextScene < 0 || appended > nextScene {
		t.Fatalf("content not appended inside scene 1:\n%s", res.UpdatedScreenplay)
	}
	partitionIntact(t, res.UpdatedScreenplay)
}

func TestSetTitlePageEntry(t *testing.T) {
	res := Execute("set_title_page_entry", Input{"key": "title", "value": "Cold Calls"}, office)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc := fountain.Parse(res.UpdatedScreenplay)
	if doc.Title() != "Cold Calls" {
		t.Fatalf("title = %q, want Cold Calls", doc.Title())
	}
	if len(doc.Scenes) != 2 {
		t.Fatalf("adding a title page must not disturb scenes: %v", doc.SceneHeadings())
	}

	res = Execute("set_title_page_entry", Input{"key": "title", "value": "Warm Calls"}, res.UpdatedScreenplay)
	if !res.Updated {
		t.Fatalf("expected an update: %s", res.Result)
	}
	doc = fountain.Parse(res.UpdatedScreenplay)
	if doc.Title() != "Warm Calls" {
		t.Fatalf("title = %q, want Warm Calls", doc.Title())
	}
	if strings.Count(res.UpdatedScreenplay, "Title:") != 1 {
		t.Fatalf("duplicate title entries:\n%s", res.UpdatedScreenplay)
	}
}

func TestMutationRoundTripThroughParser(t *testing.T) {
	// A chain of edits must leave a document the parser and serializer
	// still agree on.
	text := office
	for _, step := range []struct {
		name string
		in   Input
	}{
		{"insert_scene", Input{"heading": "INT. HALLWAY - DAY", "content": "Footsteps.", "after_scene": float64(1)}},
		{"append_to_scene", Input{"scene": float64(3), "content": "The lights die."}},
		{"replace_text", Input{"find": "forklift", "replace": "generator"}},
		{"delete_scene", Input{"scene": float64(2)}},
	} {
		res := Execute(step.name, step.in, text)
		if !res.Updated {
			t.Fatalf("%s: %s", step.name, res.Result)
		}
		text = res.UpdatedScreenplay
		partitionIntact(t, text)
	}
	doc := fountain.Parse(text)
	if len(doc.Scenes) != 2 {
		t.Fatalf("expected 2 scenes at the end, got %v", doc.SceneHeadings())
	}
	reparsed := fountain.Parse(fountain.Serialize(doc))
	if len(reparsed.Scenes) != len(doc.Scenes) {
		t.Fatalf("serializer disagrees after edits: %d vs %d scenes", len(reparsed.Scenes), len(doc.Scenes))
	}
}
