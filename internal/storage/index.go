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
	"screenwright/internal/script"
	"screenwright/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 1
)

// IndexPath returns the full path to the index database for a document
// directory.
func IndexPath(dir string) string {
	return filepath.Join(dir, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-directory SQLite index exists at
// .swr/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables and the scene/line schema exist. The returned *sql.DB
// is ready for use; callers close it when no longer needed.
func InitOrOpenIndex(dir string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("dir", dir),
	)
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("document directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, IndexDirName), 0o755); err != nil {
		l.Error("create .swr dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .swr dir: %w", err)
	}

	path := IndexPath(dir)
	// URI with shared cache and a busy timeout. Forward slashes for the
	// SQLite URI on every platform.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
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
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
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

// ensureIndexSchema creates the scene/line tables and the FTS structures if
// they do not exist. The index is derived from the document; dropping it is
// always safe.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per scene heading, in document order.
		`CREATE TABLE IF NOT EXISTS scenes (
			scene_id  INTEGER PRIMARY KEY,
			number    TEXT,
			heading   TEXT NOT NULL,
			position  INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scenes_position ON scenes(position);`,

		// One row per text-bearing element, linked to its containing scene.
		`CREATE TABLE IF NOT EXISTS lines (
			line_id   INTEGER PRIMARY KEY,
			scene_id  INTEGER,
			position  INTEGER NOT NULL,
			type      TEXT    NOT NULL,
			character TEXT,
			text      TEXT    NOT NULL,
			FOREIGN KEY(scene_id) REFERENCES scenes(scene_id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_lines_scene ON lines(scene_id);`,
		`CREATE INDEX IF NOT EXISTS idx_lines_character ON lines(character);`,

		// External-content FTS5 index over lines.text, kept in sync via
		// triggers. snippet() reads the text back through the lines table.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_lines USING fts5(
			text,
			content='lines',
			content_rowid='line_id',
			tokenize = 'unicode61'
		);`,

		`CREATE TABLE IF NOT EXISTS script_snapshots (
			id    INTEGER PRIMARY KEY,
			ts    TEXT    NOT NULL,
			text  TEXT    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_script_snapshots_ts ON script_snapshots(ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
			INSERT INTO fts_lines(rowid, text) VALUES (new.line_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS lines_ad AFTER DELETE ON lines BEGIN
			INSERT INTO fts_lines(fts_lines, rowid, text) VALUES ('delete', old.line_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS lines_au AFTER UPDATE OF text ON lines BEGIN
			INSERT INTO fts_lines(fts_lines, rowid, text) VALUES ('delete', old.line_id, old.text);
			INSERT INTO fts_lines(rowid, text) VALUES (new.line_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// openDocumentIndex opens the index of the directory holding the handle's
// document. Everything keyed to a DocumentHandle goes through here.
func openDocumentIndex(dh *DocumentHandle) (*sql.DB, error) {
	if dh == nil {
		return nil, errors.New("nil DocumentHandle")
	}
	return InitOrOpenIndex(filepath.Dir(dh.Path))
}

// RebuildIndex replaces the scene/line content of the index from the given
// element sequence. Dual dialogue flattens to per-speaker dialogue rows so
// both halves are searchable under their character.
func RebuildIndex(ctx context.Context, dir string, elements []script.Element) error {
	db, err := InitOrOpenIndex(dir)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildLines(ctx, db, elements)
}

type lineRow struct {
	sceneID   sql.NullInt64
	position  int
	typeStr   string
	character sql.NullString
	text      string
}

func rebuildLines(ctx context.Context, db *sql.DB, elements []script.Element) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, q := range []string{"DELETE FROM lines;", "DELETE FROM scenes;"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear index: %w", err)
		}
	}

	insScene, err := tx.PrepareContext(ctx, "INSERT INTO scenes(number, heading, position) VALUES(?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare scene insert: %w", err)
	}
	defer insScene.Close()
	insLine, err := tx.PrepareContext(ctx, "INSERT INTO lines(scene_id, position, type, character, text) VALUES(?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare line insert: %w", err)
	}
	defer insLine.Close()

	var currentScene sql.NullInt64
	var speaker sql.NullString
	addLine := func(pos int, t script.Type, character sql.NullString, text string) error {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		_, err := insLine.ExecContext(ctx, currentScene, pos, string(t), character, text)
		return err
	}

	for pos, el := range elements {
		switch el.Type {
		case script.SceneHeading:
			res, err := insScene.ExecContext(ctx, el.SceneNumber, el.Content, pos)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert scene: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("scene id: %w", err)
			}
			currentScene = sql.NullInt64{Int64: id, Valid: true}
			speaker = sql.NullString{}
			if err := addLine(pos, el.Type, sql.NullString{}, el.Content); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert line: %w", err)
			}
		case script.Character:
			speaker = sql.NullString{String: el.Content, Valid: true}
			if err := addLine(pos, el.Type, speaker, el.Content); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert line: %w", err)
			}
		case script.Dialogue, script.Parenthetical:
			if err := addLine(pos, el.Type, speaker, el.Content); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert line: %w", err)
			}
		case script.DualDialogue:
			halves := []struct {
				character *script.Element
				content   []script.Element
			}{
				{el.FirstCharacter, el.FirstContent},
				{el.SecondCharacter, el.SecondContent},
			}
			for _, h := range halves {
				var who sql.NullString
				if h.character != nil && h.character.Content != "" {
					who = sql.NullString{String: h.character.Content, Valid: true}
				}
				for _, item := range h.content {
					if err := addLine(pos, item.Type, who, item.Content); err != nil {
						_ = tx.Rollback()
						return fmt.Errorf("insert line: %w", err)
					}
				}
			}
			speaker = sql.NullString{}
		default:
			speaker = sql.NullString{}
			if err := addLine(pos, el.Type, sql.NullString{}, el.Content); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert line: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds
// the index from the element sequence if needed. It returns true when a
// rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, dir string, elements []script.Element) (bool, error) {
	path := IndexPath(dir)
	db, err := InitOrOpenIndex(dir)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, dir, elements); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM lines LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	_ = os.Remove(path)
	if err := RebuildIndex(ctx, dir, elements); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in
// .swr/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), BackupsDirName)
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}
