/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"screenwright/internal/session"
	"screenwright/internal/tool"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Interactive tool session with undo/redo",
		Long: "Reads commands from stdin, one per line:\n" +
			"  tool <name> [json]   execute a tool against the working text\n" +
			"  undo / redo          step through the edit timeline\n" +
			"  history              list applied edits, oldest first\n" +
			"  show                 print the working text\n" +
			"  write                save the working text back to the file\n" +
			"  quit                 exit (unsaved edits are dropped)",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, root, err := loadScreenplay(args[0])
			if err != nil {
				return err
			}
			return runEditLoop(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], root, text)
		},
	}
}

// runEditLoop drives the interactive session. The working text lives in a
// session timeline; the file is only touched on an explicit write.
func runEditLoop(in io.Reader, out io.Writer, path, root, text string) error {
	sess := session.New(text, session.Config{})
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		switch verb {
		case "quit", "exit":
			return nil
		case "show":
			fmt.Fprint(out, sess.Text())
		case "undo":
			if restored, ok := sess.Undo(); ok {
				rememberText(restored)
				fmt.Fprintln(out, "Undone.")
			} else {
				fmt.Fprintln(out, "Nothing to undo.")
			}
		case "redo":
			if restored, ok := sess.Redo(); ok {
				rememberText(restored)
				fmt.Fprintln(out, "Redone.")
			} else {
				fmt.Fprintln(out, "Nothing to redo.")
			}
		case "history":
			labels := sess.History()
			if len(labels) == 0 {
				fmt.Fprintln(out, "No edits yet.")
			}
			for i, l := range labels {
				fmt.Fprintf(out, "%d. %s\n", i+1, l)
			}
		case "write":
			cur := sess.Text()
			if err := writeScreenplay(path, cur); err != nil {
				return err
			}
			recordRevision(root, "edit_session", cur)
			fmt.Fprintln(out, "Saved.")
		case "tool":
			name, payload, _ := strings.Cut(strings.TrimSpace(rest), " ")
			if name == "" {
				fmt.Fprintln(out, "usage: tool <name> [json]")
				continue
			}
			input := tool.Input{}
			if strings.TrimSpace(payload) != "" {
				if err := json.Unmarshal([]byte(payload), &input); err != nil {
					fmt.Fprintf(out, "bad input json: %v\n", err)
					continue
				}
			}
			res := tool.Execute(name, input, sess.Text())
			fmt.Fprintln(out, res.Result)
			if res.Updated {
				sess.Apply(name, res.UpdatedScreenplay)
				rememberText(res.UpdatedScreenplay)
			}
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
		}
	}
	return sc.Err()
}
