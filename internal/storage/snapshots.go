/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Snapshot is one stored script-text revision. Snapshots live in the
// document's index database: the index is derived and ephemeral, so this
// history supports editor change tracking, not canonical storage.
type Snapshot struct {
	TS   time.Time
	Text string
}

func scanSnapshot(rows interface{ Scan(...any) error }) (Snapshot, error) {
	var tsStr, txt string
	if err := rows.Scan(&tsStr, &txt); err != nil {
		return Snapshot{}, err
	}
	// An unparseable timestamp keeps the text and drops the time.
	ts, _ := time.Parse(time.RFC3339Nano, tsStr)
	return Snapshot{TS: ts, Text: txt}, nil
}

// SaveScriptSnapshot stores the document's full script text under the given
// timestamp.
func SaveScriptSnapshot(ctx context.Context, dh *DocumentHandle, text string, ts time.Time) error {
	db, err := openDocumentIndex(dh)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx,
		`INSERT INTO script_snapshots(ts, text) VALUES (?, ?)`,
		ts.UTC().Format(time.RFC3339Nano), text)
	return err
}

// GetLatestScriptSnapshot returns the newest snapshot text and timestamp, or
// zero values if none exist.
func GetLatestScriptSnapshot(ctx context.Context, dh *DocumentHandle) (string, time.Time, error) {
	db, err := openDocumentIndex(dh)
	if err != nil {
		return "", time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	row := db.QueryRowContext(ctx,
		`SELECT ts, text FROM script_snapshots ORDER BY ts DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return snap.Text, snap.TS, nil
}

// ListScriptSnapshots returns up to limit most recent snapshots, newest first.
func ListScriptSnapshots(ctx context.Context, dh *DocumentHandle, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	db, err := openDocumentIndex(dh)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx,
		`SELECT ts, text FROM script_snapshots ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// PruneOldScriptSnapshots keeps at most keepLast snapshots and deletes older
// ones, returning the number removed.
func PruneOldScriptSnapshots(ctx context.Context, dh *DocumentHandle, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := openDocumentIndex(dh)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx,
		`DELETE FROM script_snapshots WHERE id NOT IN (
			SELECT id FROM script_snapshots ORDER BY ts DESC LIMIT ?
		)`, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
