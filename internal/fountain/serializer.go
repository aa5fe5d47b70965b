/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// Serialize renders a Document back to Fountain text. Each element's
// source text is re-emitted verbatim with class-appropriate separators,
// so serialize is a left inverse of Parse: re-parsing the output yields a
// structurally equal document (whitespace between blocks may normalize,
// element kinds, order, and text do not change).
func Serialize(doc *Document) string {
	if doc == nil || len(doc.Elements) == 0 {
		return ""
	}
	var b strings.Builder
	for i, el := range doc.Elements {
		if i > 0 {
			b.WriteString("\n")
			if needsBlankBefore(doc.Elements[i-1].Kind, el.Kind) {
				b.WriteString("\n")
			}
		}
		b.WriteString(el.Text)
	}
	b.WriteString("\n")
	return b.String()
}

// needsBlankBefore reports whether a blank line must separate two
// consecutive elements. Inside a dialogue block (cue, dialogue,
// parentheticals, lyrics, and any note or boneyard opened mid-block)
// lines run together; every other boundary gets a blank line.
func needsBlankBefore(prev, cur ElementKind) bool {
	switch cur {
	case KindDialogue, KindParenthetical:
		return false
	case KindLyric, KindNote, KindBoneyard:
		switch prev {
		case KindCharacter, KindDialogue, KindParenthetical, KindLyric:
			return false
		}
	}
	return true
}
