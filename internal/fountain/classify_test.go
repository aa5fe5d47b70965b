/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "testing"

// The rule evaluation order is a documented contract; changing it changes
// the meaning of ambiguous lines.
func TestRuleOrder(t *testing.T) {
	want := []string{
		"boneyard-open",
		"note-open",
		"page-break",
		"section",
		"synopsis",
		"centered",
		"forced-scene-heading",
		"natural-scene-heading",
		"forced-transition",
		"natural-transition",
		"lyric",
		"forced-character",
		"character-cue",
		"title-page-entry",
		"forced-action",
	}
	got := Rules()
	if len(got) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(got))
	}
	for i, r := range got {
		if r.Name != want[i] {
			t.Errorf("rule %d: expected %q, got %q", i, want[i], r.Name)
		}
	}
}

func TestClassifyKinds(t *testing.T) {
	root := Context{PrevBlank: true}
	cases := []struct {
		line string
		ctx  Context
		want ElementKind
	}{
		{"INT. OFFICE - DAY", root, KindSceneHeading},
		{"ext. park - night", root, KindSceneHeading},
		{"EST. CITY SKYLINE", root, KindSceneHeading},
		{"INT./EXT. CAR - DAY", root, KindSceneHeading},
		{"I/E CAR - DAY", root, KindSceneHeading},
		{".FLASHBACK", root, KindSceneHeading},
		{"...and then", root, KindAction},
		{"JAKE", root, KindCharacter},
		{"JAKE (V.O.)", root, KindCharacter},
		{"JAKE ^", root, KindCharacter},
		{"@McAvoy", root, KindCharacter},
		{"Jake", root, KindAction},
		{"JAKE", Context{}, KindAction}, // no preceding blank line
		{"CUT TO:", root, KindTransition},
		{"> FADE OUT", root, KindTransition},
		{"> THE END <", root, KindCentered},
		{"# Act 1", root, KindSection},
		{"= Jake finds the letter", root, KindSynopsis},
		{"===", root, KindPageBreak},
		{"====", root, KindPageBreak},
		{"==", root, KindAction},
		{"~ la la la", root, KindLyric},
		{"[[ check this ]]", root, KindNote},
		{"/* old draft */", root, KindBoneyard},
		{"!LOUD ACTION", root, KindAction},
		{"Title: Big Fish", Context{PrevBlank: true, AtStart: true}, KindTitlePage},
		{"CREDIT: written by", Context{PrevBlank: true, AtStart: true}, KindTitlePage},
		{"Title: Big Fish", root, KindAction}, // after first body element
		{"He walks away.", root, KindAction},
	}
	for _, c := range cases {
		got, _ := Classify(c.line, c.ctx)
		if got != c.want {
			t.Errorf("Classify(%q, %+v) = %v, want %v", c.line, c.ctx, got, c.want)
		}
	}
}

func TestClassifyBlockOpen(t *testing.T) {
	if _, open := Classify("[[ note start", Context{}); !open {
		t.Errorf("expected unterminated note to report block open")
	}
	if _, open := Classify("[[ closed ]]", Context{}); open {
		t.Errorf("closed note should not report block open")
	}
	if _, open := Classify("/* boneyard", Context{}); !open {
		t.Errorf("expected unterminated boneyard to report block open")
	}
	if _, open := Classify("/* closed */", Context{}); open {
		t.Errorf("closed boneyard should not report block open")
	}
}
