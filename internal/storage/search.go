/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes an index search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Character restricts matches to lines spoken by that character; Types can
// restrict to element kinds like dialogue, action or sceneHeading.
// Limit/Offset implement pagination; reasonable defaults applied if zero.
type SearchQuery struct {
	Text      string
	Character string
	Types     []string
	Limit     int
	Offset    int
}

// SearchResult is a single matching line. Snippet carries a highlighted
// excerpt with [ ] markers when FTS text is used. SceneID is 0 for lines
// before the first scene heading.
type SearchResult struct {
	LineID    int64
	SceneID   int64
	Position  int
	Type      string
	Character string
	Snippet   string
	Text      string
}

// Search performs full-text search with optional filters over the embedded
// index of a document directory. When q.Text is empty it falls back to a
// non-FTS scan with filters applied.
func Search(ctx context.Context, dir string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("document directory is required")
	}
	db, err := InitOrOpenIndex(dir)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT l.line_id, COALESCE(l.scene_id,0), l.position, l.type, COALESCE(l.character,''), snippet(fts_lines, 0, '[', ']', '…', 10), l.text\n")
		sb.WriteString("FROM fts_lines JOIN lines l ON fts_lines.rowid = l.line_id\n")
		sb.WriteString("WHERE fts_lines MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT l.line_id, COALESCE(l.scene_id,0), l.position, l.type, COALESCE(l.character,''), '', l.text\n")
		sb.WriteString("FROM lines l\nWHERE 1=1\n")
	}
	if len(q.Types) > 0 {
		sb.WriteString(" AND l.type IN (" + placeholders(len(q.Types)) + ")\n")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	if s := strings.TrimSpace(q.Character); s != "" {
		sb.WriteString(" AND l.character IS NOT NULL AND lower(l.character)=?\n")
		args = append(args, strings.ToLower(s))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY l.position, l.line_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.LineID, &r.SceneID, &r.Position, &r.Type, &r.Character, &r.Snippet, &r.Text); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SceneInfo is one scene row from the index, in document order.
type SceneInfo struct {
	SceneID  int64
	Number   string
	Heading  string
	Position int
}

// Scenes lists the indexed scenes of a document directory in document order.
func Scenes(ctx context.Context, dir string) ([]SceneInfo, error) {
	db, err := InitOrOpenIndex(dir)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx, `SELECT scene_id, COALESCE(number,''), heading, position FROM scenes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("scenes query: %w", err)
	}
	defer rows.Close()
	var out []SceneInfo
	for rows.Next() {
		var s SceneInfo
		if err := rows.Scan(&s.SceneID, &s.Number, &s.Heading, &s.Position); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
