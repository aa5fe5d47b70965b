/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "screenwright/internal/log"
	"screenwright/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// HistoryDirName stores all per-screenplay derived data under the
	// directory containing the screenplay.
	HistoryDirName  = ".swr"
	HistoryFileName = "history.sqlite"

	// BackupsDirName holds crash reports and emergency screenplay dumps,
	// under HistoryDirName.
	BackupsDirName = "backups"

	// schemaVersion tracks the local SQLite schema. Bump this when you
	// perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// Revision is one saved screenplay state. Label records the edit that
// produced it (a tool name, or "save" for explicit saves).
type Revision struct {
	TS    time.Time
	Label string
	Text  string
}

// HistoryPath returns the full path to the revision database for the
// screenplay directory root.
func HistoryPath(root string) string {
	return filepath.Join(root, HistoryDirName, HistoryFileName)
}

// InitOrOpenHistory ensures the revision database exists at
// .swr/history.sqlite, opens it, enables WAL mode, and ensures the
// meta/version/revisions tables exist. Callers close the returned DB
// when done.
func InitOrOpenHistory(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "history_init").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("screenplay root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, HistoryDirName), 0o755); err != nil {
		l.Error("create .swr dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .swr dir: %w", err)
	}

	path := HistoryPath(root)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureHistorySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure history schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("history ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureHistorySchema(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS revisions (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		ts    TEXT NOT NULL,
		label TEXT NOT NULL,
		text  TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create revisions table: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Never downgrade; a newer app created this database.
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_revisions_ts ON revisions(ts);`); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		default:
			return fmt.Errorf("no migration defined for schema %d", next)
		}
		cur = next
	}
	return nil
}

// language=SQL
// dialect=SQLite
const insertRevisionSQL = `INSERT INTO revisions(ts, label, text) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestRevisionSQL = `SELECT ts, label, text FROM revisions ORDER BY id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listRevisionsSQL = `SELECT ts, label, text FROM revisions ORDER BY id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneRevisionsSQL = `DELETE FROM revisions WHERE id NOT IN (
	SELECT id FROM revisions ORDER BY id DESC LIMIT ?
)`

// SaveRevision persists a full screenplay text with a label and timestamp.
func SaveRevision(ctx context.Context, root, label, text string, ts time.Time) error {
	db, err := InitOrOpenHistory(root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertRevisionSQL, ts.UTC().Format(time.RFC3339Nano), label, text)
	return err
}

// LatestRevision returns the most recent revision, or ok=false if the
// history is empty.
func LatestRevision(ctx context.Context, root string) (Revision, bool, error) {
	db, err := InitOrOpenHistory(root)
	if err != nil {
		return Revision{}, false, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var rev Revision
	err = db.QueryRowContext(ctx, selectLatestRevisionSQL).Scan(&tsStr, &rev.Label, &rev.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, false, nil
	}
	if err != nil {
		return Revision{}, false, err
	}
	rev.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
	return rev, true, nil
}

// ListRevisions returns up to limit most recent revisions, newest first.
func ListRevisions(ctx context.Context, root string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenHistory(root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listRevisionsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Revision
	for rows.Next() {
		var tsStr string
		var rev Revision
		if err := rows.Scan(&tsStr, &rev.Label, &rev.Text); err != nil {
			return nil, err
		}
		rev.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, rev)
	}
	return out, rows.Err()
}

// PruneRevisions keeps at most keepLast revisions and deletes older ones,
// returning the number removed.
func PruneRevisions(ctx context.Context, root string, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenHistory(root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneRevisionsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
