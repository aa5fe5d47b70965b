/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session tracks the working screenplay text across a run of
// tool executions, with an undo/redo stack and memory safeguards.
package session

import (
	"sync"
	"time"
)

// Revision is one superseded text state. Label names the edit that
// replaced it (usually the tool name); TS is when the edit happened.
type Revision struct {
	Label string
	Text  string
	TS    time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; the oldest revisions are pruned when exceeded.
	MaxBytes int
	// MaxDepth limits the number of undo steps kept (0 means unlimited).
	MaxDepth int
	// MinInterval coalesces edits with the same label arriving within the
	// interval, replacing the previous undo entry instead of pushing one.
	MinInterval time.Duration
}

// Session is the in-memory edit history of one screenplay.
// It is safe for concurrent use.
type Session struct {
	cfg Config
	mu  sync.Mutex

	current    string
	undo       []Revision
	redo       []Revision
	totalBytes int
}

func New(initial string, cfg Config) *Session {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Session{cfg: cfg, current: initial}
}

// Text returns the current screenplay text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply replaces the current text, recording the superseded state on the
// undo stack. A same-label edit within MinInterval coalesces into the
// previous entry so rapid tool chains don't flood the stack. Any new
// edit invalidates the redo stack.
func (s *Session) Apply(label, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.current {
		return
	}
	now := time.Now()
	if n := len(s.undo); n > 0 {
		last := s.undo[n-1]
		if last.Label == label && now.Sub(last.TS) < s.cfg.MinInterval {
			s.undo[n-1].TS = now
			s.current = text
			s.redo = nil
			s.enforceCapsLocked()
			return
		}
	}
	s.undo = append(s.undo, Revision{Label: label, Text: s.current, TS: now})
	s.totalBytes += len(s.current)
	s.current = text
	s.redo = nil
	s.enforceCapsLocked()
}

// Undo restores the most recently superseded text. The second return is
// false when there is nothing to undo.
func (s *Session) Undo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.undo)
	if n == 0 {
		return s.current, false
	}
	rev := s.undo[n-1]
	s.undo = s.undo[:n-1]
	s.totalBytes -= len(rev.Text)
	s.redo = append(s.redo, Revision{Label: rev.Label, Text: s.current, TS: time.Now()})
	s.current = rev.Text
	return s.current, true
}

// Redo reverses the most recent Undo.
func (s *Session) Redo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.redo)
	if n == 0 {
		return s.current, false
	}
	rev := s.redo[n-1]
	s.redo = s.redo[:n-1]
	s.undo = append(s.undo, Revision{Label: rev.Label, Text: s.current, TS: time.Now()})
	s.totalBytes += len(s.current)
	s.current = rev.Text
	s.enforceCapsLocked()
	return s.current, true
}

// History lists the labels on the undo stack, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.undo))
	for i, r := range s.undo {
		out[i] = r.Label
	}
	return out
}

// Stats returns current sizes for diagnostics.
func (s *Session) Stats() (totalBytes, undoDepth, redoDepth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes, len(s.undo), len(s.redo)
}

func (s *Session) enforceCapsLocked() {
	if s.cfg.MaxDepth > 0 && len(s.undo) > s.cfg.MaxDepth {
		toDrop := len(s.undo) - s.cfg.MaxDepth
		for i := 0; i < toDrop; i++ {
			s.totalBytes -= len(s.undo[i].Text)
		}
		s.undo = append([]Revision{}, s.undo[toDrop:]...)
	}
	for s.cfg.MaxBytes > 0 && s.totalBytes > s.cfg.MaxBytes && len(s.undo) > 0 {
		s.totalBytes -= len(s.undo[0].Text)
		s.undo = s.undo[1:]
	}
	if s.totalBytes < 0 {
		s.totalBytes = 0
	}
}
