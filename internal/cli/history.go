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
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"screenwright/internal/storage"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local revision store",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryPruneCmd())
	return cmd
}

// historyRoot is the directory holding the screenplay, which is where the
// .swr store lives. The file itself does not need to exist.
func historyRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return filepath.Dir(abs), nil
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List recorded revisions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := historyRoot(args[0])
			if err != nil {
				return err
			}
			revs, err := storage.ListRevisions(cmd.Context(), root, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(revs) == 0 {
				fmt.Fprintln(out, "No revisions recorded.")
				return nil
			}
			for _, r := range revs {
				fmt.Fprintf(out, "%s  %-20s %d bytes\n", r.TS.Format(time.RFC3339), r.Label, len(r.Text))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to list (0 = store default)")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the latest recorded revision text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := historyRoot(args[0])
			if err != nil {
				return err
			}
			rev, ok, err := storage.LatestRevision(cmd.Context(), root)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no revisions recorded for %s", args[0])
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s)\n", rev.Label, rev.TS.Format(time.RFC3339))
			fmt.Fprint(cmd.OutOrStdout(), rev.Text)
			return nil
		},
	}
}

func newHistoryPruneCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune <file>",
		Short: "Drop all but the newest revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := historyRoot(args[0])
			if err != nil {
				return err
			}
			if keep <= 0 {
				keep = globalCfg.History.KeepRevisions
			}
			removed, err := storage.PruneRevisions(cmd.Context(), root, keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d revision(s), kept up to %d.\n", removed, keep)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "How many revisions to keep (0 = configured default)")
	return cmd
}
