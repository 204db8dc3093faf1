/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script defines the canonical screenplay document model shared by
// every importer and exporter: a flat, order-significant sequence of typed
// elements plus title-page metadata. Grouping (which action belongs to which
// scene) is purely positional; the only nested structure is dual dialogue,
// which never nests another dual dialogue.
package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Type identifies the kind of a script element. The string values are the
// wire names used in the persisted document envelope.
type Type string

const (
	SceneHeading  Type = "sceneHeading"
	Action        Type = "action"
	Character     Type = "character"
	Dialogue      Type = "dialogue"
	Parenthetical Type = "parenthetical"
	Transition    Type = "transition"
	DualDialogue  Type = "dualDialogue"
)

// Known reports whether t is one of the closed set of element types.
func Known(t Type) bool {
	switch t {
	case SceneHeading, Action, Character, Dialogue, Parenthetical, Transition, DualDialogue:
		return true
	}
	return false
}

// Element is one semantic unit of a screenplay. Content is trimmed with
// internal whitespace collapsed to single spaces. SceneNumber is set only on
// scene headings and is either empty or a short alphanumeric token.
// The First*/Second* fields are set only on dual-dialogue elements; the
// character halves are character elements and the content slices hold only
// dialogue and parenthetical elements.
type Element struct {
	Type        Type   `json:"type"`
	Content     string `json:"content"`
	SceneNumber string `json:"sceneNumber,omitempty"`

	FirstCharacter  *Element  `json:"firstCharacter,omitempty"`
	FirstContent    []Element `json:"firstContent,omitempty"`
	SecondCharacter *Element  `json:"secondCharacter,omitempty"`
	SecondContent   []Element `json:"secondContent,omitempty"`
}

// Metadata carries the title-page fields. All are optional pass-through
// strings; conversion logic only reads them when rendering a title page or
// the Fountain header block.
type Metadata struct {
	Title     string `json:"scriptTitle,omitempty"`
	Credit    string `json:"scriptCredit,omitempty"`
	Authors   string `json:"scriptAuthors,omitempty"`
	Source    string `json:"scriptSource,omitempty"`
	DraftDate string `json:"scriptDraftDate,omitempty"`
	Contact   string `json:"scriptContact,omitempty"`
	Rights    string `json:"scriptRights,omitempty"`
}

// Script is a whole document: the element sequence and its title page.
type Script struct {
	Elements []Element
	Meta     Metadata
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	sceneNumberRe = regexp.MustCompile(`^[0-9A-Za-z.\-]+$`)
)

// NormalizeContent trims s and collapses internal whitespace runs to single
// spaces, the canonical form for element content.
func NormalizeContent(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ValidSceneNumber reports whether s is empty or a bare scene-number token
// (digits, letters, dots, dashes).
func ValidSceneNumber(s string) bool {
	return s == "" || sceneNumberRe.MatchString(s)
}

// NewSceneHeading builds a scene heading, normalizing content and dropping a
// malformed scene number.
func NewSceneHeading(content, sceneNumber string) Element {
	if !ValidSceneNumber(sceneNumber) {
		sceneNumber = ""
	}
	return Element{Type: SceneHeading, Content: NormalizeContent(content), SceneNumber: sceneNumber}
}

// NewAction builds an action element.
func NewAction(content string) Element {
	return Element{Type: Action, Content: NormalizeContent(content)}
}

// NewCharacter builds a character cue.
func NewCharacter(content string) Element {
	return Element{Type: Character, Content: NormalizeContent(content)}
}

// NewDialogue builds a dialogue element.
func NewDialogue(content string) Element {
	return Element{Type: Dialogue, Content: NormalizeContent(content)}
}

// NewParenthetical builds a parenthetical element.
func NewParenthetical(content string) Element {
	return Element{Type: Parenthetical, Content: NormalizeContent(content)}
}

// NewTransition builds a transition element.
func NewTransition(content string) Element {
	return Element{Type: Transition, Content: NormalizeContent(content)}
}

// NewDualDialogue assembles a dual-dialogue element from two character cues
// and their content runs. Nested dual dialogue and non-dialogue content items
// are rejected.
func NewDualDialogue(first Element, firstContent []Element, second Element, secondContent []Element) (Element, error) {
	if first.Type != Character || second.Type != Character {
		return Element{}, fmt.Errorf("dual dialogue halves must be character cues, got %s/%s", first.Type, second.Type)
	}
	for _, run := range [][]Element{firstContent, secondContent} {
		for _, el := range run {
			if el.Type != Dialogue && el.Type != Parenthetical {
				return Element{}, fmt.Errorf("dual dialogue content may only hold dialogue or parentheticals, got %s", el.Type)
			}
		}
	}
	return Element{
		Type:            DualDialogue,
		FirstCharacter:  &first,
		FirstContent:    firstContent,
		SecondCharacter: &second,
		SecondContent:   secondContent,
	}, nil
}

// Empty reports whether el carries no visible text. A dual dialogue is empty
// only if both halves are.
func (el Element) Empty() bool {
	if el.Type == DualDialogue {
		for _, run := range [][]Element{el.FirstContent, el.SecondContent} {
			for _, c := range run {
				if strings.TrimSpace(c.Content) != "" {
					return false
				}
			}
		}
		first := el.FirstCharacter == nil || strings.TrimSpace(el.FirstCharacter.Content) == ""
		second := el.SecondCharacter == nil || strings.TrimSpace(el.SecondCharacter.Content) == ""
		return first && second
	}
	return strings.TrimSpace(el.Content) == ""
}

// Coerce returns el with an unknown type degraded to action, the conservative
// fallback used by every codec. The boolean reports whether a coercion
// happened so callers can emit a diagnostic.
func Coerce(el Element) (Element, bool) {
	if Known(el.Type) {
		return el, false
	}
	return Element{Type: Action, Content: NormalizeContent(el.Content)}, true
}

// SceneCount returns the number of scene headings in the sequence.
func SceneCount(elements []Element) int {
	n := 0
	for _, el := range elements {
		if el.Type == SceneHeading {
			n++
		}
	}
	return n
}

// CountByType tallies the sequence per element type.
func CountByType(elements []Element) map[Type]int {
	counts := make(map[Type]int, 8)
	for _, el := range elements {
		counts[el.Type]++
	}
	return counts
}
