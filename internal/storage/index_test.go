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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"screenwright/internal/script"
)

func indexedElements() []script.Element {
	dual, _ := script.NewDualDialogue(
		script.NewCharacter("ALICE"),
		[]script.Element{script.NewDialogue("The tide is turning.")},
		script.NewCharacter("BOB"),
		[]script.Element{script.NewDialogue("Not for us.")},
	)
	return []script.Element{
		script.NewSceneHeading("INT. HOUSE - NIGHT", "1"),
		script.NewAction("A door creaks open."),
		script.NewCharacter("ALICE"),
		script.NewDialogue("Who's there?"),
		script.NewSceneHeading("EXT. BEACH - DAY", "2"),
		script.NewCharacter("BOB"),
		script.NewDialogue("Nothing but the tide."),
		dual,
	}
}

func TestInitOrOpenIndexCreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := InitOrOpenIndex(dir)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(filepath.Join(dir, IndexDirName, IndexFileName)); err != nil {
		t.Fatalf("index file not created: %v", err)
	}
	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read version row: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
}

func TestRebuildIndexPopulatesScenesAndLines(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	if err := RebuildIndex(ctx, dir, indexedElements()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	scenes, err := Scenes(ctx, dir)
	if err != nil {
		t.Fatalf("Scenes: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("scenes = %d, want 2", len(scenes))
	}
	if scenes[0].Heading != "INT. HOUSE - NIGHT" || scenes[0].Number != "1" {
		t.Fatalf("first scene wrong: %+v", scenes[0])
	}
	if scenes[1].Position != 4 {
		t.Fatalf("second scene position = %d, want 4", scenes[1].Position)
	}
}

func TestSearchByCharacter(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	if err := RebuildIndex(ctx, dir, indexedElements()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	results, err := Search(ctx, dir, SearchQuery{
		Character: "bob",
		Types:     []string{string(script.Dialogue)},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// BOB speaks once plainly and once in the dual-dialogue block.
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2: %+v", len(results), results)
	}
	for _, r := range results {
		if r.Character != "BOB" {
			t.Fatalf("character filter leaked: %+v", r)
		}
	}
}

func TestSearchFullText(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	if err := RebuildIndex(ctx, dir, indexedElements()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	results, err := Search(ctx, dir, SearchQuery{Text: "tide"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// "tide" appears in BOB's dialogue and in ALICE's dual-dialogue half.
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2: %+v", len(results), results)
	}
	for _, r := range results {
		if !strings.Contains(r.Snippet, "[tide]") {
			t.Fatalf("snippet should highlight the match: %+v", r)
		}
		if r.Text == "" {
			t.Fatalf("FTS result without source text: %+v", r)
		}
	}
}

func TestRebuildIndexIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := RebuildIndex(ctx, dir, indexedElements()); err != nil {
			t.Fatalf("RebuildIndex #%d: %v", i+1, err)
		}
	}
	results, err := Search(ctx, dir, SearchQuery{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// 8 elements yield 9 text rows (the dual block contributes two).
	if len(results) != 9 {
		t.Fatalf("rebuild duplicated rows: %d lines", len(results))
	}
}

func TestDetectAndRebuildIndexAfterCorruption(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	if err := RebuildIndex(ctx, dir, indexedElements()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	// Clobber the database file.
	if err := os.WriteFile(IndexPath(dir), []byte("not a database"), 0o644); err != nil {
		t.Fatalf("corrupt index: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(ctx, dir, indexedElements())
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if !rebuilt {
		t.Fatal("corrupted index was not rebuilt")
	}
	scenes, err := Scenes(ctx, dir)
	if err != nil {
		t.Fatalf("Scenes after rebuild: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("scenes after rebuild = %d, want 2", len(scenes))
	}
}

func TestScriptSnapshotsLifecycle(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	dh := &DocumentHandle{Path: filepath.Join(dir, "night"+DocumentExt), Document: testDocument()}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"draft one", "draft two", "draft three"} {
		if err := SaveScriptSnapshot(ctx, dh, text, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("SaveScriptSnapshot: %v", err)
		}
	}

	latest, ts, err := GetLatestScriptSnapshot(ctx, dh)
	if err != nil {
		t.Fatalf("GetLatestScriptSnapshot: %v", err)
	}
	if latest != "draft three" || !ts.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("latest = %q at %v", latest, ts)
	}

	all, err := ListScriptSnapshots(ctx, dh, 10)
	if err != nil {
		t.Fatalf("ListScriptSnapshots: %v", err)
	}
	if len(all) != 3 || all[0].Text != "draft three" {
		t.Fatalf("list wrong: %+v", all)
	}

	removed, err := PruneOldScriptSnapshots(ctx, dh, 1)
	if err != nil {
		t.Fatalf("PruneOldScriptSnapshots: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	rest, err := ListScriptSnapshots(ctx, dh, 10)
	if err != nil {
		t.Fatalf("ListScriptSnapshots after prune: %v", err)
	}
	if len(rest) != 1 || rest[0].Text != "draft three" {
		t.Fatalf("prune kept wrong snapshot: %+v", rest)
	}
}
