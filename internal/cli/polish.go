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

	"screenwright/internal/tool"
)

func newPolishCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "polish <file>",
		Short: "Apply mechanical cleanup and print revision advice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, root, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}
			res := tool.Execute("polish_pass", tool.Input{}, text)
			fmt.Fprintln(cmd.OutOrStdout(), res.Result)
			if res.Updated && write {
				if err := writeScreenplay(args[0], res.UpdatedScreenplay); err != nil {
					return err
				}
				recordRevision(root, "polish_pass", res.UpdatedScreenplay)
			} else if res.Updated {
				fmt.Fprintln(cmd.OutOrStdout(), "(dry run; pass --write to apply)")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Apply mechanical fixes back to the file")
	return cmd
}
