/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package finaldraft

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"screenwright/internal/script"
)

func TestExportStructure(t *testing.T) {
	elements := []script.Element{
		script.NewSceneHeading("EXT. PARK - DAY", "12"),
		script.NewAction("Birds scatter."),
	}
	out, err := Export(elements)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		`<FinalDraft DocumentType="Script" Template="No" Version="5">`,
		`<Paragraph Type="Scene Heading" Number="12">`,
		`<Text>EXT. PARK - DAY</Text>`,
		`<Paragraph Type="Action">`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestExportRejectsUnknownType(t *testing.T) {
	_, err := Export([]script.Element{{Type: "lyrics", Content: "la"}})
	var ie *script.InvalidElementError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *script.InvalidElementError, got %v", err)
	}
}

func TestExportFlattensDualDialogue(t *testing.T) {
	dd, err := script.NewDualDialogue(
		script.NewCharacter("ALICE"),
		[]script.Element{script.NewParenthetical("(whispering)"), script.NewDialogue("Now.")},
		script.NewCharacter("BOB"),
		[]script.Element{script.NewDialogue("Go!")},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := Export([]script.Element{dd})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	got, err := Import(out, ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := []script.Element{
		script.NewCharacter("ALICE"),
		script.NewParenthetical("(whispering)"),
		script.NewDialogue("Now."),
		script.NewCharacter("BOB"),
		script.NewDialogue("Go!"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dual dialogue flatten =\n%+v\nwant\n%+v", got, want)
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
	}
	out, err := Export(elements)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	got, err := Import(out, ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !reflect.DeepEqual(got, elements) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, elements)
	}
}
