/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/xeipuuv/gojsonschema"
)

func TestEverySchemaCompiles(t *testing.T) {
	for _, d := range Definitions() {
		var js map[string]any
		if err := json.Unmarshal([]byte(d.Schema), &js); err != nil {
			t.Fatalf("%s: schema is not valid JSON: %v", d.Name, err)
		}
		if _, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(d.Schema)); err != nil {
			t.Fatalf("%s: schema does not compile: %v", d.Name, err)
		}
		if js["type"] != "object" {
			t.Fatalf("%s: tool inputs must be objects, got %v", d.Name, js["type"])
		}
	}
}

func TestSchemaRejectsUnknownProperties(t *testing.T) {
	res := Execute("delete_scene", Input{"scene": float64(1), "force": true}, office)
	if res.Updated {
		t.Fatalf("unknown property must fail validation, got an update")
	}
	if got := res.Result; !strings.Contains(got, "Invalid input") {
		t.Fatalf("expected a validation message, got %q", got)
	}
}

func TestSceneRefAcceptsNumberAndString(t *testing.T) {
	for _, ref := range []any{float64(1), "OFFICE"} {
		res := Execute("get_scene", Input{"scene": ref}, office)
		if strings.Contains(res.Result, "Invalid input") {
			t.Fatalf("scene ref %v rejected: %q", ref, res.Result)
		}
	}
	res := Execute("get_scene", Input{"scene": float64(0)}, office)
	if !strings.Contains(res.Result, "Invalid input") {
		t.Fatalf("scene 0 must fail the schema minimum, got %q", res.Result)
	}
}
