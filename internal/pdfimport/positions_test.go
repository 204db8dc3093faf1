/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pdfimport

import (
	"math"
	"testing"
)

// screenplayPage builds a page laid out with conventional screenplay columns:
// content at x=108, dialogue at 180, parentheticals at 216, cues at 266,
// transitions right-aligned at 540 and the page number at 576.
func screenplayPage() Page {
	return Page{
		Number: 1,
		Width:  612,
		Height: 792,
		Tokens: []Token{
			{Text: "INT. HOUSE - NIGHT", X: 108, Y: 700, Width: 130, Height: 12},
			{Text: "A door creaks open.", X: 108, Y: 676, Width: 130, Height: 12},
			{Text: "It swings wide.", X: 108, Y: 664, Width: 110, Height: 12},
			{Text: "ALICE", X: 266, Y: 640, Width: 36, Height: 12},
			{Text: "(beat)", X: 216, Y: 628, Width: 45, Height: 12},
			{Text: "Who's there?", X: 180, Y: 616, Width: 90, Height: 12},
			{Text: "Just the wind.", X: 180, Y: 604, Width: 100, Height: 12},
			{Text: "CUT TO:", X: 456, Y: 580, Width: 84, Height: 12},
			{Text: "2.", X: 564, Y: 36, Width: 12, Height: 12},
		},
	}
}

func samePos(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

func samePositionInfo(a, b PositionInfo) bool {
	return samePos(a.LeftEdgePos, b.LeftEdgePos) &&
		samePos(a.SceneNumPos, b.SceneNumPos) &&
		samePos(a.CharacterStartPos, b.CharacterStartPos) &&
		samePos(a.DialogueStartPos, b.DialogueStartPos) &&
		samePos(a.ParentheticalStartPos, b.ParentheticalStartPos) &&
		samePos(a.TransitionEndPos, b.TransitionEndPos) &&
		samePos(a.PageNumberEndPos, b.PageNumberEndPos)
}

func TestEstimatePositions(t *testing.T) {
	pages := []Page{screenplayPage()}
	info := EstimatePositions(pages)

	if info.LeftEdgePos != 108 {
		t.Errorf("LeftEdgePos = %v, want 108", info.LeftEdgePos)
	}
	if info.CharacterStartPos != 266 {
		t.Errorf("CharacterStartPos = %v, want 266", info.CharacterStartPos)
	}
	if info.DialogueStartPos != 180 {
		t.Errorf("DialogueStartPos = %v, want 180", info.DialogueStartPos)
	}
	if info.ParentheticalStartPos != 216 {
		t.Errorf("ParentheticalStartPos = %v, want 216", info.ParentheticalStartPos)
	}
	if info.TransitionEndPos != 540 {
		t.Errorf("TransitionEndPos = %v, want 540", info.TransitionEndPos)
	}
	if info.PageNumberEndPos != 576 {
		t.Errorf("PageNumberEndPos = %v, want 576", info.PageNumberEndPos)
	}
	if !math.IsNaN(info.SceneNumPos) {
		t.Errorf("SceneNumPos = %v, want absent", info.SceneNumPos)
	}
}

func TestEstimatePositionsIdempotent(t *testing.T) {
	pages := []Page{screenplayPage()}
	first := EstimatePositions(pages)
	second := EstimatePositions(pages)
	if !samePositionInfo(first, second) {
		t.Fatalf("inference not idempotent:\n first %+v\nsecond %+v", first, second)
	}
}

func TestEstimatePositionsCharacterColumn(t *testing.T) {
	// A mostly-uppercase column and a prose column right of it. The
	// uppercase one is the cue column; prose right of the cue column must
	// not be taken for dialogue.
	var tokens []Token
	tokens = append(tokens, Token{Text: "INT. SHED - DAY", X: 90, Y: 760, Width: 110, Height: 12})
	cues := []string{"ALICE", "BOB", "CHARLIE", "DIANA", "EDDIE", "FRANK", "GRACE"}
	y := 740.0
	for _, cue := range cues {
		tokens = append(tokens, Token{Text: cue, X: 100, Y: y, Width: 40, Height: 12})
		y -= 24
	}
	tokens = append(tokens, Token{Text: "he walks away", X: 100, Y: y, Width: 80, Height: 12})
	y -= 24
	for _, line := range []string{"the wind howls", "dust settles", "a dog barks"} {
		tokens = append(tokens, Token{Text: line, X: 150, Y: y, Width: 90, Height: 12})
		y -= 24
	}

	info := EstimatePositions([]Page{{Number: 1, Width: 612, Height: 792, Tokens: tokens}})
	if info.CharacterStartPos != 100 {
		t.Errorf("CharacterStartPos = %v, want 100", info.CharacterStartPos)
	}
	if info.DialogueStartPos == 100 {
		t.Errorf("DialogueStartPos = %v, must not be the cue column", info.DialogueStartPos)
	}
}

func TestMostThreshold(t *testing.T) {
	upper := func(s string) bool { return s == "X" }
	if most([]string{"X", "X", "X", "y"}, upper) {
		t.Error("75% should not pass the fuzzy majority")
	}
	if !most([]string{"X", "X", "X", "X", "X", "X", "y"}, upper) {
		t.Error("6 of 7 should pass the fuzzy majority")
	}
	if most(nil, upper) {
		t.Error("empty bucket should never pass")
	}
}
