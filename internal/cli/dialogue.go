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
	"io"
	"strings"

	"github.com/spf13/cobra"

	"screenwright/internal/dialogue"
	"screenwright/internal/fountain"
)

func newDialogueCmd() *cobra.Command {
	var character string
	cmd := &cobra.Command{
		Use:   "dialogue <file>",
		Short: "Profile character voices and compare them pairwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}
			doc := fountain.Parse(text)
			out := cmd.OutOrStdout()

			if character != "" {
				p := dialogue.BuildProfile(doc, character, nil)
				if p.BlockCount == 0 {
					return fmt.Errorf("no dialogue found for %q", character)
				}
				printProfile(out, p)
				return nil
			}

			profiles, comparisons := dialogue.CompareAll(doc, nil)
			if len(profiles) == 0 {
				fmt.Fprintln(out, "No dialogue in this screenplay.")
				return nil
			}
			for _, p := range profiles {
				printProfile(out, p)
			}
			for _, c := range comparisons {
				fmt.Fprintf(out, "%s vs %s: vocabulary overlap %.2f, sentence length delta %.1f — %s\n",
					c.A, c.B, c.VocabOverlap, c.LengthDelta, c.Verdict)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&character, "character", "", "Profile a single character instead of comparing all")
	return cmd
}

func printProfile(out io.Writer, p dialogue.Profile) {
	fmt.Fprintf(out, "%s: %d words over %d block(s), %.1f words/block\n",
		p.Name, p.WordCount, p.BlockCount, p.AvgWordsPerBlock)
	fmt.Fprintf(out, "  avg sentence %.1f words (stddev %.1f), question ratio %.2f\n",
		p.AvgSentenceLength, p.SentenceLenStdDev, p.QuestionRatio)
	if len(p.TopWords) > 0 {
		fmt.Fprintf(out, "  signature words: %s\n", strings.Join(p.TopWords, ", "))
	}
}
