/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"fmt"
	"sort"
	"strings"
)

// Severity orders issues: errors break downstream tooling, warnings are
// Fountain violations, info is style advice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Issue is one validator finding at a specific line.
type Issue struct {
	Severity Severity
	Line     int
	Rule     string
	Message  string
}

// validateRules run independently on every call; each appends zero or
// more issues. Order here does not matter, the result is sorted by line.
var validateRules = []func(*Document) []Issue{
	checkUnterminatedBlocks,
	checkEmptyHeadings,
	checkConsecutiveCues,
	checkHeadingSpacing,
	checkHeadingCase,
	checkMissingTime,
}

// Validate lints a parsed document and returns issues sorted by line,
// then by descending severity. It is stateless; issues are produced fresh
// per call.
func Validate(doc *Document) []Issue {
	var issues []Issue
	for _, rule := range validateRules {
		issues = append(issues, rule(doc)...)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Severity > issues[j].Severity
	})
	return issues
}

func checkUnterminatedBlocks(doc *Document) []Issue {
	var out []Issue
	for _, el := range doc.Elements {
		switch el.Kind {
		case KindBoneyard:
			if !strings.Contains(el.Text, "*/") {
				out = append(out, Issue{SeverityError, el.StartLine, "unterminated-boneyard",
					"boneyard comment opened with /* is never closed"})
			}
		case KindNote:
			if !strings.HasSuffix(strings.TrimSpace(el.Text), "]]") {
				out = append(out, Issue{SeverityError, el.StartLine, "unterminated-note",
					"note opened with [[ is never closed"})
			}
		}
	}
	return out
}

func checkEmptyHeadings(doc *Document) []Issue {
	var out []Issue
	for _, sc := range doc.Scenes {
		if strings.TrimSpace(sc.Heading) == "" {
			out = append(out, Issue{SeverityWarning, sc.StartLine, "empty-scene-heading",
				"scene heading has no text"})
		} else if sc.Location == "" {
			out = append(out, Issue{SeverityWarning, sc.StartLine, "heading-missing-location",
				fmt.Sprintf("scene heading %q names no location", sc.Heading)})
		}
	}
	return out
}

// checkConsecutiveCues flags a character cue whose dialogue block holds no
// dialogue before the next cue; two bare cues in a row are ambiguous.
func checkConsecutiveCues(doc *Document) []Issue {
	var out []Issue
	lastCue := -1
	sawDialogue := false
	for _, el := range doc.Elements {
		switch el.Kind {
		case KindCharacter:
			if lastCue >= 0 && !sawDialogue {
				out = append(out, Issue{SeverityWarning, lastCue, "empty-dialogue-block",
					"character cue is followed by another cue with no dialogue between"})
			}
			lastCue = el.StartLine
			sawDialogue = false
		case KindDialogue, KindLyric, KindParenthetical:
			sawDialogue = true
		case KindNote, KindBoneyard:
			// does not count as dialogue
		default:
			lastCue = -1
		}
	}
	if lastCue >= 0 && !sawDialogue {
		out = append(out, Issue{SeverityWarning, lastCue, "empty-dialogue-block",
			"character cue has no dialogue"})
	}
	return out
}

// checkHeadingSpacing wants a blank line between a scene heading and
// whatever follows it.
func checkHeadingSpacing(doc *Document) []Issue {
	var out []Issue
	for i, el := range doc.Elements {
		if el.Kind != KindSceneHeading || i+1 >= len(doc.Elements) {
			continue
		}
		if doc.Elements[i+1].StartLine == el.EndLine+1 {
			out = append(out, Issue{SeverityWarning, el.StartLine, "heading-spacing",
				"scene heading should be followed by a blank line"})
		}
	}
	return out
}

func checkHeadingCase(doc *Document) []Issue {
	var out []Issue
	for _, sc := range doc.Scenes {
		if sc.Heading != strings.ToUpper(sc.Heading) {
			out = append(out, Issue{SeverityInfo, sc.StartLine, "heading-case",
				fmt.Sprintf("scene heading %q is conventionally upper-case", sc.Heading)})
		}
	}
	return out
}

func checkMissingTime(doc *Document) []Issue {
	var out []Issue
	for _, sc := range doc.Scenes {
		if sc.Location != "" && !strings.Contains(sc.Heading, " - ") {
			out = append(out, Issue{SeverityInfo, sc.StartLine, "heading-missing-time",
				fmt.Sprintf("scene heading %q names no time of day (e.g. \"- DAY\")", sc.Heading)})
		}
	}
	return out
}
