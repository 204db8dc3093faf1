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
	"regexp"
	"strings"

	applog "screenwright/internal/log"
)

// tokenType is the intermediate classification of a raw text token, richer
// than the final element model: scene numbers, page numbers and the four
// dual-dialogue roles only exist during reconstruction.
type tokenType string

const (
	tokUnknown            tokenType = "unknown"
	tokAction             tokenType = "action"
	tokCharacter          tokenType = "character"
	tokDialogue           tokenType = "dialogue"
	tokParenthetical      tokenType = "parenthetical"
	tokSceneNumber        tokenType = "scene_number"
	tokSceneHeading       tokenType = "scene_heading"
	tokTransition         tokenType = "transition"
	tokPageNumber         tokenType = "page_number"
	tokDualFirstChar      tokenType = "dual_dialogue_char_1"
	tokDualFirstDialogue  tokenType = "dual_dialogue_dia_1"
	tokDualSecondChar     tokenType = "dual_dialogue_char_2"
	tokDualSecondDialogue tokenType = "dual_dialogue_dia_2"
)

// ParsedElement is one classified token before merge and cleanup.
type ParsedElement struct {
	Type        tokenType
	Content     string
	Tokens      []Token
	CanMergeUp  bool
	SceneNumber string
}

var (
	openParenRe    = regexp.MustCompile(`^\(`)
	closeParenRe   = regexp.MustCompile(`\)$`)
	strayMarkerRe  = regexp.MustCompile(`[*^@]\s*$`)
	trailingPageRe = regexp.MustCompile(`[0-9]+\.?$`)
)

// hintFromPosition maps a token's x-position onto a column. The tolerance is
// tight (2pt) for the inferred columns, looser for the page-wide left edge
// (6pt) and for right-aligned page numbers (10pt, which must also look
// numeric).
func hintFromPosition(info PositionInfo, tok Token) tokenType {
	endPos := math.Round(tok.X + tok.Width)
	switch {
	case roughlyEqual(tok.X, info.SceneNumPos, 2):
		return tokSceneNumber
	case roughlyEqual(tok.X, info.CharacterStartPos, 2):
		return tokCharacter
	case roughlyEqual(tok.X, info.DialogueStartPos, 2):
		return tokDialogue
	case roughlyEqual(tok.X, info.ParentheticalStartPos, 2):
		return tokParenthetical
	case roughlyEqual(endPos, info.TransitionEndPos, 2):
		return tokTransition
	case roughlyEqual(tok.X, info.LeftEdgePos, 6):
		return tokAction
	case roughlyEqual(endPos, info.PageNumberEndPos, 10) && trailingPageRe.MatchString(tok.Text):
		return tokPageNumber
	}
	return tokUnknown
}

// classifyState is the explicit bookkeeping threaded through the token walk.
type classifyState struct {
	prevType          tokenType
	prevY             float64
	prevHeight        float64
	inDualDialogue    bool
	dualDialogueLineY float64
	seenFirstDialogue bool
	parentheticalOpen bool
}

// mergeSplitRuns joins tokens the PDF engine split mid-line: a token on the
// same baseline (within 2pt) starting within half its own width of the
// previous token's right edge continues that token. A dropped zero-height
// token between two runs breaks the chain, so runs never merge across it.
func mergeSplitRuns(tokens []Token) []Token {
	var out []Token
	skipped := false
	for _, tok := range tokens {
		if tok.Height == 0 {
			skipped = true
			continue
		}
		if n := len(out); n > 0 && !skipped {
			prev := &out[n-1]
			sameLine := roughlyEqual(tok.Y, prev.Y, 2)
			adjacent := roughlyEqual(prev.X+prev.Width, tok.X, tok.Width/2)
			if sameLine && adjacent {
				prev.Text += tok.Text
				prev.Width += tok.Width
				continue
			}
		}
		skipped = false
		out = append(out, tok)
	}
	return out
}

// classifyPages walks every token on every page in document order, producing
// one ParsedElement per token. The position hint comes first; stateful rules
// (scene-number adjacency, dual-dialogue tracking, same-line continuation,
// open parentheticals) reclassify on top of it.
func classifyPages(pages []Page, info PositionInfo) []ParsedElement {
	logger := applog.WithComponent("pdfimport")
	var st classifyState
	st.prevType = tokUnknown

	var elements []ParsedElement
	for _, page := range pages {
		tokens := mergeSplitRuns(page.Tokens)
		for _, tok := range tokens {
			typ := hintFromPosition(info, tok)
			canMergeUp := true
			text := tok.Text
			sameLine := roughlyEqual(tok.Y, st.prevY, 2)

			if transitionRe.MatchString(text) && (typ == tokAction || typ == tokUnknown) {
				typ = tokTransition
			}

			// A scene number on the same line as a preceding action means the
			// action was really the scene name, split off by the renderer.
			if typ == tokSceneNumber && len(elements) > 0 && st.prevType == tokAction && sameLine {
				last := &elements[len(elements)-1]
				last.SceneNumber = text
				last.Type = tokSceneHeading
				continue
			}

			// Blank filler between a scene number and its heading.
			if st.prevType == tokSceneNumber && text == "" {
				continue
			}

			if sceneHeaderRe.MatchString(text) || st.prevType == tokSceneNumber {
				typ = tokSceneHeading
				// A heading that is just a number is a trailing scene-number
				// marking; blank it rather than keeping the digits as content.
				if sceneNumberRe.MatchString(text) {
					text = ""
					canMergeUp = true
				}
			}

			// Revision stars and similar program markers near the right
			// margin carry no content.
			if typ == tokUnknown && strayMarkerRe.MatchString(text) &&
				roughlyEqual(tok.X+tok.Width, info.PageNumberEndPos, 20) {
				logger.Warn("ignoring marker", "text", text)
				typ = tokPageNumber
			}

			typ = reclassifyDualDialogue(&st, info, page, tok, typ, sameLine)

			// A single logical line split into runs: an unclassified token on
			// the previous token's baseline keeps the previous type.
			if typ == tokUnknown && sameLine {
				typ = st.prevType
			}

			if typ == tokParenthetical && openParenRe.MatchString(text) && !closeParenRe.MatchString(text) {
				st.parentheticalOpen = true
			}
			if typ == tokUnknown && st.prevType == tokParenthetical && st.parentheticalOpen {
				typ = tokParenthetical
				if closeParenRe.MatchString(text) {
					st.parentheticalOpen = false
				}
			}

			if typ == tokUnknown && transitionRe.MatchString(text) {
				typ = tokTransition
			}
			if typ == tokUnknown {
				typ = tokAction
			}

			// Dialogue and cues never start on a line that already has text.
			if (typ == tokDialogue || typ == tokCharacter || typ == tokDualFirstChar || typ == tokDualSecondChar) &&
				st.prevType == tokAction && roughlyEqual(tok.Y, st.prevY+st.prevHeight, 2) {
				typ = tokAction
			}

			// Consecutive actions separated by more than 1.5 line heights are
			// distinct paragraphs; suppress the later merge.
			if typ == tokAction && st.prevType == tokAction && tok.Y <= st.prevY-tok.Height*1.5 {
				canMergeUp = false
			}

			elements = append(elements, ParsedElement{
				Type:       typ,
				Content:    text,
				Tokens:     []Token{tok},
				CanMergeUp: canMergeUp,
			})

			st.prevType = typ
			st.prevHeight = tok.Height
			st.prevY = tok.Y
		}
	}
	return elements
}

// reclassifyDualDialogue applies the dual-dialogue state machine to an
// unclassified or action-hinted token.
func reclassifyDualDialogue(st *classifyState, info PositionInfo, page Page, tok Token, typ tokenType, sameLine bool) tokenType {
	characterStart := info.CharacterStartPos
	if math.IsNaN(characterStart) {
		characterStart = page.Width * 0.5
	}

	switch {
	case typ == tokUnknown && tok.X > info.LeftEdgePos && st.inDualDialogue &&
		roughlyEqual(tok.Y, st.dualDialogueLineY, 2):
		return tokDualSecondChar

	case typ == tokUnknown && tok.X > info.LeftEdgePos && tok.X < characterStart &&
		characterRe.MatchString(tok.Text) && !sameLine:
		st.inDualDialogue = true
		st.dualDialogueLineY = tok.Y
		return tokDualFirstChar

	case (typ == tokAction || strings.HasPrefix(tok.Text, "(")) && st.inDualDialogue &&
		(!st.seenFirstDialogue || st.prevType == tokDualFirstDialogue):
		st.seenFirstDialogue = true
		return tokDualFirstDialogue

	case typ == tokUnknown && st.inDualDialogue && st.seenFirstDialogue && tok.X > characterStart:
		return tokDualSecondDialogue

	case typ != tokUnknown && st.inDualDialogue:
		st.inDualDialogue = false
		st.seenFirstDialogue = false
		st.dualDialogueLineY = 0
	}
	return typ
}
