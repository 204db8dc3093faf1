/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import (
	"math"

	"screenwright/internal/script"
)

// Courier 12pt metrics: fixed pitch of 7.2pt (10 cpi) and 12pt line height.
const (
	charWidth  = 7.2
	lineHeight = 12.0
)

// Column widths in characters for the standard screenplay layout: content
// runs from the 1.5" left margin to the 1" right margin, dialogue and
// parentheticals are indented further.
const (
	fullCols          = 60 // 432pt of content width
	dialogueCols      = 35
	parentheticalCols = 25
)

// CourierMeasurer estimates rendered heights from the monospaced print
// layout, wrapping content at the per-type column width. Block-opening
// elements carry one extra blank line of separation.
type CourierMeasurer struct{}

func (CourierMeasurer) Height(el script.Element) float64 {
	switch el.Type {
	case script.Dialogue:
		return wrappedHeight(el.Content, dialogueCols)
	case script.Parenthetical:
		return wrappedHeight(el.Content, parentheticalCols)
	case script.SceneHeading, script.Action, script.Transition:
		return lineHeight + wrappedHeight(el.Content, fullCols)
	case script.Character:
		return lineHeight + wrappedHeight(el.Content, fullCols)
	case script.DualDialogue:
		return lineHeight + dualHeight(el)
	}
	return wrappedHeight(el.Content, fullCols)
}

func wrappedHeight(content string, cols int) float64 {
	if content == "" {
		return 0
	}
	lines := math.Ceil(float64(len(content)) / float64(cols))
	return lines * lineHeight
}

// dualHeight takes the taller of the two side-by-side halves. Each half
// renders at roughly half the dialogue width.
func dualHeight(el script.Element) float64 {
	half := func(character *script.Element, content []script.Element) float64 {
		h := 0.0
		if character != nil {
			h += lineHeight
		}
		for _, item := range content {
			h += wrappedHeight(item.Content, dialogueCols/2)
		}
		return h
	}
	return math.Max(half(el.FirstCharacter, el.FirstContent), half(el.SecondCharacter, el.SecondContent))
}
