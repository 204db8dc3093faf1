/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import (
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"screenwright/internal/script"
)

// fixedMeasurer returns preset heights keyed by element content.
type fixedMeasurer map[string]float64

func (m fixedMeasurer) Height(el script.Element) float64 { return m[el.Content] }

func TestPaginateSamePage(t *testing.T) {
	elements := []script.Element{
		script.NewSceneHeading("INT. HOUSE - NIGHT", "1"),
		script.NewAction("A door creaks."),
		script.NewAction("Wind howls."),
	}
	m := fixedMeasurer{"INT. HOUSE - NIGHT": 20, "A door creaks.": 20, "Wind howls.": 20}
	got := Paginate(elements, m)
	want := []int{1, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paginate = %v, want %v", got, want)
	}
}

func TestPaginatePullsSceneHeadingToNewPage(t *testing.T) {
	elements := []script.Element{
		script.NewSceneHeading("INT. HOUSE - NIGHT", "1"),
		script.NewAction("An enormous block."),
	}
	m := fixedMeasurer{"INT. HOUSE - NIGHT": 20, "An enormous block.": ContentHeight}
	got := Paginate(elements, m)
	want := []int{2, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paginate = %v, want %v", got, want)
	}
}

func TestPaginatePullsCueWithDialogue(t *testing.T) {
	elements := []script.Element{
		script.NewAction("Filler."),
		script.NewCharacter("ALICE"),
		script.NewParenthetical("(beat)"),
		script.NewDialogue("A very long speech."),
	}
	m := fixedMeasurer{
		"Filler.":             ContentHeight - 40,
		"ALICE":               12,
		"(beat)":              12,
		"A very long speech.": 120,
	}
	got := Paginate(elements, m)
	want := []int{1, 2, 2, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paginate = %v, want %v", got, want)
	}
}

func TestPaginatePullsThroughEmptySpacer(t *testing.T) {
	elements := []script.Element{
		script.NewAction("Filler."),
		script.NewSceneHeading("INT. HOUSE - NIGHT", "1"),
		script.NewAction(""),
		script.NewAction("An overflowing block."),
	}
	m := fixedMeasurer{
		"Filler.":               ContentHeight - 30,
		"INT. HOUSE - NIGHT":    12,
		"":                      12,
		"An overflowing block.": 200,
	}
	got := Paginate(elements, m)
	want := []int{1, 2, 0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paginate = %v, want %v", got, want)
	}
}

func TestPaginateSkipsEmptyAtBoundary(t *testing.T) {
	elements := []script.Element{
		script.NewAction("Filler."),
		script.NewAction(""),
		script.NewAction("More text."),
	}
	m := fixedMeasurer{"Filler.": ContentHeight - 10, "": 50, "More text.": 5}
	got := Paginate(elements, m)
	want := []int{1, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paginate = %v, want %v", got, want)
	}
}

func TestPaginateInvariants(t *testing.T) {
	elements := []script.Element{
		script.NewSceneHeading("INT. A - DAY", "1"),
		script.NewAction("Something happens at length."),
		script.NewCharacter("ALICE"),
		script.NewDialogue("A speech."),
		script.NewSceneHeading("EXT. B - DAY", "2"),
		script.NewAction("More happens."),
		script.NewCharacter("BOB"),
		script.NewDialogue("Another speech."),
	}
	m := fixedMeasurer{
		"INT. A - DAY":                 24,
		"Something happens at length.": 400,
		"ALICE":                        24,
		"A speech.":                    200,
		"EXT. B - DAY":                 24,
		"More happens.":                300,
		"BOB":                          24,
		"Another speech.":              200,
	}
	got := Paginate(elements, m)

	last := 0
	for i, page := range got {
		if elements[i].Empty() {
			continue
		}
		if page == 0 {
			t.Fatalf("non-empty element %d left unassigned: %v", i, got)
		}
		if page < last {
			t.Fatalf("page numbers must be non-decreasing, got %v", got)
		}
		last = page
	}
	for i, el := range elements {
		if el.Type == script.Dialogue && i > 0 && elements[i-1].Type == script.Character {
			if got[i] != got[i-1] {
				t.Fatalf("cue and its dialogue split across pages: %v", got)
			}
		}
	}
}

func TestPaginateIdempotent(t *testing.T) {
	elements := []script.Element{
		script.NewSceneHeading("INT. A - DAY", "1"),
		script.NewAction("Long action."),
		script.NewCharacter("ALICE"),
		script.NewDialogue("A speech."),
	}
	m := fixedMeasurer{"INT. A - DAY": 24, "Long action.": 600, "ALICE": 24, "A speech.": 120}
	first := Paginate(elements, m)
	second := Paginate(elements, m)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("pagination not idempotent: %v vs %v", first, second)
	}
}

func TestCourierMeasurerWrapsDialogue(t *testing.T) {
	var m CourierMeasurer
	short := m.Height(script.NewDialogue("Hi."))
	long := m.Height(script.NewDialogue("This dialogue line is clearly longer than thirty-five characters."))
	if short != lineHeight {
		t.Fatalf("short dialogue height = %v, want one line", short)
	}
	if long <= short {
		t.Fatalf("wrapped dialogue should be taller: %v vs %v", long, short)
	}
}

func TestSchedulerCoalescesBursts(t *testing.T) {
	s := &Scheduler{Delay: 20 * time.Millisecond}
	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		s.Schedule(func() { runs.Add(1) })
	}
	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected a single run after a burst, got %d", got)
	}
	s.Schedule(func() { runs.Add(1) })
	s.Stop()
	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("stopped run still executed, got %d", got)
	}
}
