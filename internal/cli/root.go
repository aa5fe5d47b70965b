/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cli wires the screenplay engine into the screenwright command.
// Every command operates on a Fountain file path; the engine itself never
// touches the filesystem.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"screenwright/internal/config"
	applog "screenwright/internal/log"
)

// globalCfg holds the loaded configuration for all commands.
var globalCfg = config.Defaults()

// last remembers the most recently loaded screenplay so the crash handler
// in main can dump unsaved text.
var last struct {
	mu   sync.Mutex
	root string
	text string
}

// LastRoot returns the directory of the most recently loaded screenplay.
func LastRoot() string {
	last.mu.Lock()
	defer last.mu.Unlock()
	return last.root
}

// LastText returns the most recently loaded (or edited) screenplay text.
func LastText() string {
	last.mu.Lock()
	defer last.mu.Unlock()
	return last.text
}

func rememberText(text string) {
	last.mu.Lock()
	last.text = text
	last.mu.Unlock()
}

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screenwright",
		Short:         "ScreenWright — Fountain screenplay engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				applog.WithComponent("cli").Warn("config load failed, using defaults", "err", err)
				cfg = config.Defaults()
			}
			globalCfg = cfg
			applog.Init(applog.Options{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				AddSource: cfg.Logging.Source,
				File:      cfg.Logging.File,
			})
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newStructureCmd())
	cmd.AddCommand(newDialogueCmd())
	cmd.AddCommand(newToolCmd())
	cmd.AddCommand(newPolishCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadScreenplay reads the Fountain file and records it for crash dumps.
func loadScreenplay(path string) (text string, root string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", path, err)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return "", "", fmt.Errorf("read screenplay: %w", err)
	}
	root = filepath.Dir(abs)
	last.mu.Lock()
	last.root = root
	last.text = string(b)
	last.mu.Unlock()
	return string(b), root, nil
}

// writeScreenplay replaces the file contents via a temp file and rename so
// a crash mid-write never truncates the screenplay.
func writeScreenplay(path, text string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	tmp := abs + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write screenplay: %w", err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace screenplay: %w", err)
	}
	rememberText(text)
	return nil
}
