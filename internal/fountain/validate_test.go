/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "testing"

func issuesByRule(issues []Issue) map[string][]Issue {
	m := map[string][]Issue{}
	for _, is := range issues {
		m[is.Rule] = append(m[is.Rule], is)
	}
	return m
}

func TestValidateCleanDocument(t *testing.T) {
	doc := Parse("INT. OFFICE - DAY\n\nA desk.\n\nJAKE\nHello.\n")
	if issues := Validate(doc); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateUnterminatedBoneyard(t *testing.T) {
	doc := Parse("INT. OFFICE - DAY\n\n/* cut this later\n")
	m := issuesByRule(Validate(doc))
	got := m["unterminated-boneyard"]
	if len(got) != 1 {
		t.Fatalf("expected one boneyard issue, got %v", m)
	}
	if got[0].Severity != SeverityError {
		t.Fatalf("boneyard issue should be an error, got %v", got[0].Severity)
	}
	if got[0].Line != 3 {
		t.Fatalf("expected line 3, got %d", got[0].Line)
	}
}

func TestValidateUnterminatedNote(t *testing.T) {
	doc := Parse("INT. OFFICE - DAY\n\n[[fix pacing here\n")
	m := issuesByRule(Validate(doc))
	if got := m["unterminated-note"]; len(got) != 1 || got[0].Severity != SeverityError {
		t.Fatalf("expected one note error, got %v", m)
	}
}

func TestValidateEmptyDialogueBlock(t *testing.T) {
	doc := Parse("INT. OFFICE - DAY\n\nJAKE\n\nSARA\nHi.\n")
	m := issuesByRule(Validate(doc))
	if got := m["empty-dialogue-block"]; len(got) != 1 || got[0].Severity != SeverityWarning {
		t.Fatalf("expected one empty-dialogue warning, got %v", m)
	}
}

func TestValidateTrailingBareCue(t *testing.T) {
	doc := Parse("INT. OFFICE - DAY\n\nJAKE\n")
	m := issuesByRule(Validate(doc))
	if got := m["empty-dialogue-block"]; len(got) != 1 {
		t.Fatalf("expected trailing bare cue to be flagged, got %v", m)
	}
}

func TestValidateHeadingSpacing(t *testing.T) {
	doc := Parse("INT. OFFICE - DAY\nA desk right below the heading.\n")
	m := issuesByRule(Validate(doc))
	if got := m["heading-spacing"]; len(got) != 1 || got[0].Line != 1 {
		t.Fatalf("expected heading-spacing at line 1, got %v", m)
	}
}

func TestValidateHeadingCaseAndTime(t *testing.T) {
	doc := Parse("int. office\n\nA desk.\n")
	m := issuesByRule(Validate(doc))
	if got := m["heading-case"]; len(got) != 1 || got[0].Severity != SeverityInfo {
		t.Fatalf("expected heading-case info, got %v", m)
	}
	if got := m["heading-missing-time"]; len(got) != 1 || got[0].Severity != SeverityInfo {
		t.Fatalf("expected heading-missing-time info, got %v", m)
	}
}

func TestValidateSortsByLineThenSeverity(t *testing.T) {
	doc := Parse("int. office\nRight below.\n\n/* open\n")
	issues := Validate(doc)
	if len(issues) < 3 {
		t.Fatalf("expected several issues, got %v", issues)
	}
	for i := 1; i < len(issues); i++ {
		if issues[i].Line < issues[i-1].Line {
			t.Fatalf("issues not sorted by line: %v", issues)
		}
		if issues[i].Line == issues[i-1].Line && issues[i].Severity > issues[i-1].Severity {
			t.Fatalf("issues on one line not sorted by severity: %v", issues)
		}
	}
}
