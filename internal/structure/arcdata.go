/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package structure

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TurningPoint is one reference beat with its expected position range in
// percent of the scene sequence. Climactic beats break score ties by
// density instead of earliest position.
type TurningPoint struct {
	Name      string  `yaml:"name"`
	Low       float64 `yaml:"low"`
	High      float64 `yaml:"high"`
	Climactic bool    `yaml:"climactic,omitempty"`
}

// Reference is an empirical turning-point distribution. The ranges are
// data, not logic: the built-in default follows the five TRIPOD beats
// from produced-film corpora, and writers can swap in their own file.
type Reference struct {
	Name   string         `yaml:"name"`
	Points []TurningPoint `yaml:"points"`
}

// DefaultReference returns the built-in five-point distribution.
func DefaultReference() Reference {
	return Reference{
		Name: "tripod",
		Points: []TurningPoint{
			{Name: "Opportunity", Low: 4, High: 18},
			{Name: "Change of Plans", Low: 19, High: 34},
			{Name: "Point of No Return", Low: 42, High: 58},
			{Name: "Major Setback", Low: 67, High: 83},
			{Name: "Climax", Low: 84, High: 98, Climactic: true},
		},
	}
}

// LoadReference reads a turning-point distribution from a YAML file.
// A file with no points is rejected rather than silently matching
// nothing.
func LoadReference(path string) (Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Reference{}, fmt.Errorf("read arc reference: %w", err)
	}
	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return Reference{}, fmt.Errorf("parse arc reference: %w", err)
	}
	if len(ref.Points) == 0 {
		return Reference{}, fmt.Errorf("arc reference %s defines no turning points", path)
	}
	for _, p := range ref.Points {
		if p.Low < 0 || p.High > 100 || p.Low > p.High {
			return Reference{}, fmt.Errorf("arc reference point %q has invalid range [%v,%v]", p.Name, p.Low, p.High)
		}
	}
	return ref, nil
}
