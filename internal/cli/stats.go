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

	"github.com/spf13/cobra"

	"screenwright/internal/analytics"
	"screenwright/internal/fountain"
)

func newStatsCmd() *cobra.Command {
	var perScene bool
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print screenplay statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}
			r := analytics.Analyze(fountain.Parse(text))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scenes: %d  Pages (est.): %d  Words: %d\n", r.SceneCount, r.PageEstimate, r.TotalWords)
			fmt.Fprintf(out, "Dialogue/action words: %d/%d (ratio %.2f)\n", r.DialogueWords, r.ActionWords, r.DialogueRatio)
			fmt.Fprintf(out, "Interior/exterior scenes: %d/%d  Unique locations: %d\n", r.InteriorScenes, r.ExteriorScenes, r.UniqueLocations)
			fmt.Fprintf(out, "Average scene length: %.1f lines\n", r.AverageSceneLines)
			for _, c := range r.Characters {
				fmt.Fprintf(out, "  %-20s %4d words in %d scene(s)\n", c.Name, c.Words, c.Scenes)
			}
			if perScene {
				for _, s := range r.Scenes {
					fmt.Fprintf(out, "%3d. %-40s %4d lines %5d words\n", s.Index, s.Heading, s.Lines, s.Words)
				}
			}
			if outliers := analytics.PacingOutliers(r); len(outliers) > 0 {
				fmt.Fprintf(out, "Pacing outliers (scene numbers): %v\n", outliers)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&perScene, "scenes", false, "Include a per-scene breakdown")
	return cmd
}
