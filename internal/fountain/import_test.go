/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"reflect"
	"strings"
	"testing"

	"screenwright/internal/script"
)

func TestImportTitlePage(t *testing.T) {
	text := strings.Join([]string{
		"Title: The Long Night",
		"Credit: written by",
		"Author: J. Writer",
		"Draft Date: 2025-06-01",
		"",
		"INT. HOUSE - NIGHT",
	}, "\n")
	s := Import(text)
	if s.Meta.Title != "The Long Night" || s.Meta.Credit != "written by" ||
		s.Meta.Authors != "J. Writer" || s.Meta.DraftDate != "2025-06-01" {
		t.Fatalf("unexpected metadata: %+v", s.Meta)
	}
	if len(s.Elements) != 1 || s.Elements[0].Type != script.SceneHeading {
		t.Fatalf("unexpected elements: %+v", s.Elements)
	}
}

func TestImportForcingMarkers(t *testing.T) {
	text := strings.Join([]string{
		".UNDERWATER #3A#",
		"",
		"!LOOK OUT.",
		"",
		"@McAVOY",
		"Not now.",
		"",
		">fade out",
	}, "\n")
	s := Import(text)
	want := []script.Element{
		script.NewSceneHeading("UNDERWATER", "3A"),
		script.NewAction("LOOK OUT."),
		script.NewCharacter("McAVOY"),
		script.NewDialogue("Not now."),
		script.NewTransition("fade out"),
	}
	if !reflect.DeepEqual(s.Elements, want) {
		t.Fatalf("Import =\n%+v\nwant\n%+v", s.Elements, want)
	}
}

func TestImportInference(t *testing.T) {
	text := strings.Join([]string{
		"INT. HOUSE - NIGHT #7#",
		"",
		"A door creaks open.",
		"",
		"ALICE",
		"(beat)",
		"Who's there?",
		"",
		"CUT TO:",
		"",
		"EXT. YARD - NIGHT",
	}, "\n")
	s := Import(text)
	want := []script.Element{
		script.NewSceneHeading("INT. HOUSE - NIGHT", "7"),
		script.NewAction("A door creaks open."),
		script.NewCharacter("ALICE"),
		script.NewParenthetical("(beat)"),
		script.NewDialogue("Who's there?"),
		script.NewTransition("CUT TO:"),
		script.NewSceneHeading("EXT. YARD - NIGHT", ""),
	}
	if !reflect.DeepEqual(s.Elements, want) {
		t.Fatalf("Import =\n%+v\nwant\n%+v", s.Elements, want)
	}
}

func TestImportDualDialogue(t *testing.T) {
	text := strings.Join([]string{
		"ALICE",
		"(whispering)",
		"Now.",
		"",
		"BOB ^",
		"Go!",
	}, "\n")
	s := Import(text)
	if len(s.Elements) != 1 {
		t.Fatalf("expected one assembled element, got %+v", s.Elements)
	}
	dd := s.Elements[0]
	if dd.Type != script.DualDialogue {
		t.Fatalf("expected dual dialogue, got %s", dd.Type)
	}
	if dd.FirstCharacter.Content != "ALICE" || dd.SecondCharacter.Content != "BOB" {
		t.Fatalf("unexpected halves: %+v / %+v", dd.FirstCharacter, dd.SecondCharacter)
	}
	if len(dd.FirstContent) != 2 || len(dd.SecondContent) != 1 {
		t.Fatalf("unexpected content runs: %+v / %+v", dd.FirstContent, dd.SecondContent)
	}
}

func TestImportCaretWithoutFirstHalf(t *testing.T) {
	text := "BOB ^\nGo!"
	s := Import(text)
	want := []script.Element{
		script.NewCharacter("BOB"),
		script.NewDialogue("Go!"),
	}
	if !reflect.DeepEqual(s.Elements, want) {
		t.Fatalf("Import = %+v, want %+v", s.Elements, want)
	}
}

func TestImportStripsBoneyard(t *testing.T) {
	text := "Rain falls. /* not yet\nstill not */\n\nWind howls."
	s := Import(text)
	for _, el := range s.Elements {
		if strings.Contains(el.Content, "not yet") || strings.Contains(el.Content, "still not") {
			t.Fatalf("boneyard leaked: %+v", s.Elements)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	elements := []script.Element{
		script.NewSceneHeading("EXT. PARK - DAY", "12"),
		script.NewAction("Birds scatter."),
		script.NewCharacter("ALICE"),
		script.NewParenthetical("(beat)"),
		script.NewDialogue("Did you see that?"),
		script.NewTransition("CUT TO:"),
		script.NewSceneHeading("INT. HOUSE - NIGHT", ""),
		script.NewAction("LOOK OUT."),
		script.NewCharacter("McAVOY"),
		script.NewDialogue("Not now."),
	}
	got := Import(Export(script.Script{Elements: elements}))
	if !reflect.DeepEqual(got.Elements, elements) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got.Elements, elements)
	}
}
