/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	applog "screenwright/internal/log"
	"screenwright/internal/storage"
	"screenwright/internal/telemetry"
	"screenwright/internal/tool"
)

func newToolCmd() *cobra.Command {
	var inputJSON string
	var write bool
	var list bool
	cmd := &cobra.Command{
		Use:   "tool <file> [name]",
		Short: "Execute one engine tool against a screenplay",
		Long: "Executes a single tool by name. Input is a JSON object matching the\n" +
			"tool's schema. Mutating tools print the result; with --write the updated\n" +
			"text replaces the file and a revision is recorded when autosave is on.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list || len(args) < 2 {
				for _, d := range tool.Definitions() {
					kind := "read"
					if d.Mutating {
						kind = "mutate"
					}
					fmt.Fprintf(out, "%-24s %-6s %s\n", d.Name, kind, d.Description)
				}
				return nil
			}
			name := args[1]
			in := tool.Input{}
			if inputJSON != "" {
				if err := json.Unmarshal([]byte(inputJSON), &in); err != nil {
					return fmt.Errorf("parse --input: %w", err)
				}
			}
			text, root, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}

			l := applog.WithComponent("cli")
			start := time.Now()
			res := tool.Execute(name, in, text)
			l.Debug("tool executed", slog.String("tool", name),
				slog.Bool("updated", res.Updated), slog.Duration("took", time.Since(start)))
			telemetry.Event("tool_executed", map[string]any{
				"tool": name, "updated": res.Updated,
			})

			fmt.Fprintln(out, res.Result)
			if !res.Updated {
				return nil
			}
			if !write {
				fmt.Fprintln(out, "(dry run; pass --write to apply)")
				return nil
			}
			if err := writeScreenplay(args[0], res.UpdatedScreenplay); err != nil {
				return err
			}
			recordRevision(root, name, res.UpdatedScreenplay)
			return nil
		},
	}
	cmd.Flags().StringVar(&inputJSON, "input", "", "Tool input as a JSON object")
	cmd.Flags().BoolVar(&write, "write", false, "Apply the updated screenplay back to the file")
	cmd.Flags().BoolVar(&list, "list", false, "List available tools and exit")
	return cmd
}

// recordRevision appends a history entry after a successful mutation and
// prunes the store to the configured cap. History failures are logged and
// never fail the edit; the file on disk is already updated.
func recordRevision(root, label, text string) {
	if !globalCfg.History.Autosave {
		return
	}
	l := applog.WithComponent("cli")
	ctx := context.Background()
	if err := storage.SaveRevision(ctx, root, label, text, time.Now()); err != nil {
		l.Warn("revision save failed", slog.Any("err", err))
		return
	}
	if keep := globalCfg.History.KeepRevisions; keep > 0 {
		if _, err := storage.PruneRevisions(ctx, root, keep); err != nil {
			l.Warn("revision prune failed", slog.Any("err", err))
		}
	}
}
