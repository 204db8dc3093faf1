/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screenwright/internal/config"
)

func TestSniffFormat(t *testing.T) {
	cases := []struct {
		path string
		want format
		ok   bool
	}{
		{"script.fountain", formatFountain, true},
		{"SCRIPT.FOUNTAIN", formatFountain, true},
		{"draft.fdx", formatFDX, true},
		{"draft.pdf", formatPDF, true},
		{"night.screenplay", formatNative, true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, c := range cases {
		got, err := sniffFormat(c.path)
		if c.ok && (err != nil || got != c.want) {
			t.Fatalf("sniffFormat(%q) = %q, %v; want %q", c.path, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Fatalf("sniffFormat(%q) should fail", c.path)
		}
	}
}

func TestConvertFountainToFDX(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.fountain")
	out := filepath.Join(dir, "out.fdx")
	src := strings.Join([]string{
		"Title: Night Draft",
		"",
		"INT. HOUSE - NIGHT",
		"",
		"A door creaks open.",
		"",
		"ALICE",
		"Who's there?",
		"",
	}, "\n")
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := runConvert(context.Background(), in, out, config.Defaults()); err != nil {
		t.Fatalf("runConvert: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{`DocumentType="Script"`, "Scene Heading", "Who's there?"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("output missing %q:\n%s", want, data)
		}
	}
}

func TestConvertFountainToNativeBuildsIndex(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.fountain")
	out := filepath.Join(dir, "out.screenplay")
	src := "INT. HOUSE - NIGHT\n\nA door creaks open.\n"
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := runConvert(context.Background(), in, out, config.Defaults()); err != nil {
		t.Fatalf("runConvert: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("native document not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".swr", "index.sqlite")); err != nil {
		t.Fatalf("index not built alongside native document: %v", err)
	}
}

func TestConvertRejectsUnknownExtension(t *testing.T) {
	if err := runConvert(context.Background(), "in.doc", "out.fdx", config.Defaults()); err == nil {
		t.Fatal("expected error for unsupported input extension")
	}
}
