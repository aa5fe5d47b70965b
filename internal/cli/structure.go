/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"screenwright/internal/fountain"
	"screenwright/internal/structure"
)

func newStructureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "structure <file>",
		Short: "Detect acts, sequences and turning points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}
			doc := fountain.Parse(text)
			out := cmd.OutOrStdout()

			acts := structure.DetectActs(doc)
			for _, a := range acts {
				label := a.Label
				if label == "" {
					label = fmt.Sprintf("Act %d", a.Number)
				}
				fmt.Fprintf(out, "%s (%s): %d scene(s), lines %d-%d\n",
					label, a.Source, len(a.SceneIndices), a.StartLine, a.EndLine)
			}
			for _, sq := range structure.DetectSequences(doc, acts) {
				fmt.Fprintf(out, "  act %d seq %d @ %s: %d scene(s)\n",
					sq.Act, sq.Number, sq.Location, len(sq.SceneIndices))
			}

			ref, err := arcReference()
			if err != nil {
				return err
			}
			for _, tp := range structure.CompareArc(doc, ref) {
				status := "ok"
				if tp.Flagged {
					status = "off-pattern"
				}
				if tp.SceneIndex < 0 {
					fmt.Fprintf(out, "%s: no scene (%s)\n", tp.Name, status)
					continue
				}
				fmt.Fprintf(out, "%s: scene %d at %.0f%% (expected %.0f-%.0f%%) %s\n",
					tp.Name, tp.SceneIndex+1, tp.DetectedPct, tp.ExpectedLow, tp.ExpectedHigh, status)
				if len(tp.Exemplars) > 0 {
					fmt.Fprintf(out, "    %s\n", strings.Join(tp.Exemplars, " / "))
				}
			}
			return nil
		},
	}
}

// arcReference resolves the turning-point distribution: a configured YAML
// file when set, the built-in one otherwise.
func arcReference() (structure.Reference, error) {
	if p := globalCfg.Analysis.ArcReference; p != "" {
		return structure.LoadReference(p)
	}
	return structure.DefaultReference(), nil
}
