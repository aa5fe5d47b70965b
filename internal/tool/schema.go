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

	"github.com/xeipuuv/gojsonschema"
)

// sceneRefSchema is shared by every tool that names a scene: a 1-based
// number or a heading fragment.
const sceneRefSchema = `{"oneOf": [{"type": "integer", "minimum": 1}, {"type": "string", "minLength": 1}]}`

// validateInput checks the decoded input object against the tool's JSON
// Schema. A non-empty return is a human-readable violation summary.
func validateInput(def Definition, in Input) string {
	schema := gojsonschema.NewStringLoader(def.Schema)
	doc := gojsonschema.NewGoLoader(map[string]any(in))
	res, err := gojsonschema.Validate(schema, doc)
	if err != nil {
		return err.Error()
	}
	if res.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}

func objectSchema(required []string, properties string) string {
	var b strings.Builder
	b.WriteString(`{"type": "object", "properties": {`)
	b.WriteString(properties)
	b.WriteString(`}, "required": [`)
	for i, r := range required {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + r + `"`)
	}
	b.WriteString(`], "additionalProperties": false}`)
	return b.String()
}
