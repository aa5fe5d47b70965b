/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package analytics

import (
	"testing"

	"screenwright/internal/fountain"
)

const sample = `INT. OFFICE - DAY

Jake types at his desk.

JAKE
I can't stay late again.

SARA
Then don't.

EXT. STREET - NIGHT

Jake walks home alone in the rain.

JAKE
(to himself)
Tomorrow will be different.
`

func TestAnalyze(t *testing.T) {
	r := Analyze(fountain.Parse(sample))
	if r.SceneCount != 2 {
		t.Fatalf("expected 2 scenes, got %d", r.SceneCount)
	}
	if r.InteriorScenes != 1 || r.ExteriorScenes != 1 {
		t.Errorf("INT/EXT split = %d/%d, want 1/1", r.InteriorScenes, r.ExteriorScenes)
	}
	if r.UniqueLocations != 2 {
		t.Errorf("expected 2 unique locations, got %d", r.UniqueLocations)
	}
	if len(r.Characters) != 2 {
		t.Fatalf("expected 2 characters, got %v", r.Characters)
	}
	// JAKE speaks more words than SARA, so he sorts first.
	if r.Characters[0].Name != "JAKE" || r.Characters[1].Name != "SARA" {
		t.Errorf("unexpected character order: %v, %v", r.Characters[0].Name, r.Characters[1].Name)
	}
	if r.Characters[0].DialogueBlocks != 2 || r.Characters[0].Scenes != 2 {
		t.Errorf("JAKE stats = %+v, want 2 blocks across 2 scenes", r.Characters[0])
	}
	if r.Characters[1].Words != 2 {
		t.Errorf("SARA words = %d, want 2", r.Characters[1].Words)
	}
	if r.DialogueRatio <= 0 || r.DialogueRatio >= 1 {
		t.Errorf("dialogue ratio should be strictly between 0 and 1, got %f", r.DialogueRatio)
	}
	if r.PageEstimate != 1 {
		t.Errorf("page estimate = %d, want 1", r.PageEstimate)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	r := Analyze(fountain.Parse(""))
	if r.SceneCount != 0 || r.TotalWords != 0 || len(r.Characters) != 0 {
		t.Fatalf("empty document should produce zero report, got %+v", r)
	}
}

func TestPacingOutliers(t *testing.T) {
	r := Report{Scenes: []SceneStats{
		{Index: 1, Lines: 10}, {Index: 2, Lines: 11}, {Index: 3, Lines: 9},
		{Index: 4, Lines: 10}, {Index: 5, Lines: 60},
	}}
	got := PacingOutliers(r)
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected scene 5 flagged, got %v", got)
	}
	if out := PacingOutliers(Report{Scenes: r.Scenes[:3]}); out != nil {
		t.Fatalf("too few scenes should yield no outliers, got %v", out)
	}
}
