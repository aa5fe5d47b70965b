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

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Lint a Fountain file for format issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}
			issues := fountain.Validate(fountain.Parse(text))
			out := cmd.OutOrStdout()
			errors := 0
			for _, is := range issues {
				if is.Severity == fountain.SeverityError {
					errors++
				}
				fmt.Fprintf(out, "%s line %d [%s]: %s\n", is.Severity, is.Line, is.Rule, is.Message)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, "No issues found.")
			}
			if errors > 0 {
				return fmt.Errorf("%d format error(s)", errors)
			}
			return nil
		},
	}
}
