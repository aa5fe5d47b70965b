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
	"screenwright/internal/fountain"
)

// verboseActionWords marks an action paragraph as worth flagging.
const verboseActionWords = 60

func init() {
	register(Definition{
		Name:        "polish_pass",
		Description: "Apply mechanical whitespace fixes, then report advisory writing diagnostics.",
		Mutating:    true,
		Schema:      objectSchema(nil, ``),
		run:         runPolishPass,
	})
}

// runPolishPass works in two phases. Phase one applies safe mechanical
// fixes to the text itself: trailing whitespace stripped, blank-line runs
// of three or more collapsed to two, blank lines at end-of-file dropped,
// a single trailing newline. Phase two re-parses the fixed text and reports advisory
// diagnostics without touching it. Running the pass twice in a row finds
// nothing to fix the second time.
func runPolishPass(_ Input, text string) Result {
	fixed, fixes := mechanicalFixes(text)
	diags := advisoryDiagnostics(fixed)

	var b strings.Builder
	if len(fixes) == 0 {
		b.WriteString("No mechanical fixes needed.\n")
	} else {
		b.WriteString("Mechanical fixes applied:\n")
		for _, f := range fixes {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	if len(diags) == 0 {
		b.WriteString("No advisory diagnostics.")
	} else {
		b.WriteString("Advisory diagnostics:\n")
		for _, d := range diags {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}
	msg := strings.TrimRight(b.String(), "\n")
	if fixed == text {
		return textResult("%s", msg)
	}
	return updatedResult(fixed, "%s", msg)
}

func mechanicalFixes(text string) (string, []string) {
	var fixes []string
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	trimmed := 0
	for i, ln := range lines {
		t := strings.TrimRight(ln, " \t")
		if t != ln {
			lines[i] = t
			trimmed++
		}
	}
	if trimmed > 0 {
		fixes = append(fixes, fmt.Sprintf("stripped trailing whitespace on %d line(s)", trimmed))
	}

	lines2, runs := collapseBlankRuns(lines)
	if runs > 0 {
		fixes = append(fixes, fmt.Sprintf("collapsed %d run(s) of 3+ blank lines", runs))
	}

	// blank lines at end-of-file would otherwise read back as text between
	// the last element and the final newline on the next pass
	for len(lines2) > 0 && lines2[len(lines2)-1] == "" {
		lines2 = lines2[:len(lines2)-1]
	}

	result := strings.Join(lines2, "\n")
	if result != "" {
		result += "\n"
	}
	if result != text && trimmed == 0 && runs == 0 {
		fixes = append(fixes, "normalized the trailing newline")
	}
	return result, fixes
}

// collapseBlankRuns reduces every run of three or more blank lines down
// to two and reports how many runs it touched. Single and double blanks
// are left alone: a double blank is legitimate extra spacing in Fountain.
func collapseBlankRuns(lines []string) ([]string, int) {
	var out []string
	runs := 0
	i := 0
	for i < len(lines) {
		if lines[i] != "" {
			out = append(out, lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && lines[j] == "" {
			j++
		}
		if j-i >= 3 {
			runs++
			out = append(out, "", "")
		} else {
			out = append(out, lines[i:j]...)
		}
		i = j
	}
	return out, runs
}

// advisoryDiagnostics reports in fixed priority order: format errors,
// format warnings, dialogue-heavy scenes, verbose action paragraphs,
// pacing outliers, repeated action lines, missing transitions.
func advisoryDiagnostics(text string) []string {
	doc := fountain.Parse(text)
	var diags []string

	issues := fountain.Validate(doc)
	for _, is := range issues {
		if is.Severity == fountain.SeverityError {
			diags = append(diags, fmt.Sprintf("format error at line %d: %s", is.Line, is.Message))
		}
	}
	for _, is := range issues {
		if is.Severity == fountain.SeverityWarning {
			diags = append(diags, fmt.Sprintf("format warning at line %d: %s", is.Line, is.Message))
		}
	}

	r := analytics.Analyze(doc)
	for _, sc := range r.Scenes {
		total := sc.DialogueWords + sc.ActionWords
		if total >= 30 && float64(sc.DialogueWords)/float64(total) > 0.9 {
			diags = append(diags, fmt.Sprintf("scene %d (%s) is almost all dialogue; consider grounding it with action", sc.Index, sc.Heading))
		}
	}

	for _, el := range doc.Elements {
		if el.Kind == fountain.KindAction && len(strings.Fields(el.Text)) > verboseActionWords {
			diags = append(diags, fmt.Sprintf("action paragraph at line %d runs %d words; consider breaking it up", el.StartLine, len(strings.Fields(el.Text))))
		}
	}

	for _, idx := range analytics.PacingOutliers(r) {
		diags = append(diags, fmt.Sprintf("scene %d (%s) is a pacing outlier at %d lines", idx, r.Scenes[idx-1].Heading, r.Scenes[idx-1].Lines))
	}

	diags = append(diags, repeatedActionLines(doc)...)

	if len(doc.Scenes) > 3 && !hasTransition(doc) {
		diags = append(diags, "no transitions anywhere; consider marking at least the act breaks")
	}
	return diags
}

func repeatedActionLines(doc *fountain.Document) []string {
	seen := map[string]int{}
	var diags []string
	for _, el := range doc.Elements {
		if el.Kind != fountain.KindAction {
			continue
		}
		for _, ln := range strings.Split(el.Text, "\n") {
			key := strings.TrimSpace(ln)
			if len(strings.Fields(key)) < 4 {
				continue // short stage directions repeat legitimately
			}
			seen[key]++
			if seen[key] == 2 {
				diags = append(diags, fmt.Sprintf("action line %q appears more than once", key))
			}
		}
	}
	return diags
}

func hasTransition(doc *fountain.Document) bool {
	for _, el := range doc.Elements {
		if el.Kind == fountain.KindTransition {
			return true
		}
	}
	return false
}
