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

	"screenwright/internal/fountain"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Fountain file and print its outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}
			doc := fountain.Parse(text)
			out := cmd.OutOrStdout()
			if t := doc.Title(); t != "" {
				fmt.Fprintf(out, "Title: %s\n", t)
			}
			fmt.Fprintf(out, "Lines: %d  Scenes: %d  Characters: %d\n",
				doc.TotalLines, len(doc.Scenes), len(doc.Characters))
			for i := range doc.Scenes {
				sc := &doc.Scenes[i]
				fmt.Fprintf(out, "%3d. %s (lines %d-%d)\n", i+1, sc.Heading, sc.StartLine, sc.EndLine)
			}
			return nil
		},
	}
}
