/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package paginate assigns page numbers to a screenplay element sequence.
// Heights come from a Measurer collaborator; the page geometry is US letter
// in points with a softened bottom margin, matching the print layout.
package paginate

import "screenwright/internal/script"

// Page geometry in points.
const (
	PageHeight   = 792.0
	MarginTop    = 72.0
	MarginBottom = 72.0

	// ContentHeight leaves half the bottom margin as slack so a line sitting
	// right at the boundary does not flip pages on every remeasure.
	ContentHeight = PageHeight - MarginTop - MarginBottom*0.5
)

// Measurer supplies the rendered height of an element in points. A missing
// height is treated as zero by implementations.
type Measurer interface {
	Height(el script.Element) float64
}

// Paginate walks the sequence once and returns one page number per element.
// Empty elements are never stamped (their entry is 0) and never trigger a
// page break by themselves.
//
// When an element overflows the page it moves to a new page together with its
// keep-together group: a dialogue pulls an immediately preceding character
// cue or parenthetical, and any element pulls a preceding scene heading, also
// through a single empty spacer line, so a heading never sits alone at the
// bottom of a page.
func Paginate(elements []script.Element, m Measurer) []int {
	pages := make([]int, len(elements))
	currentPage := 1
	remaining := ContentHeight

	for i, el := range elements {
		height := m.Height(el)
		if height < remaining {
			remaining -= height
			if !el.Empty() {
				pages[i] = currentPage
			}
			continue
		}
		if el.Empty() {
			continue
		}

		currentPage++
		remaining = ContentHeight - height

		for k := groupStart(elements, i); k <= i; k++ {
			if !elements[k].Empty() {
				pages[k] = currentPage
			}
		}
	}
	return pages
}

// groupStart walks backward from the element at index i over every
// predecessor covered by a keep-together rule and returns the first index of
// the group.
func groupStart(elements []script.Element, i int) int {
	start := i
	for start > 0 {
		prev := start - 1

		pullsDialogue := elements[i].Type == script.Dialogue &&
			(elements[prev].Type == script.Character || elements[prev].Type == script.Parenthetical)

		sceneFirst := elements[prev].Type == script.SceneHeading

		emptySpacer := elements[prev].Type == script.Action && elements[prev].Empty()
		sceneBeforeSpacer := emptySpacer && prev > 0 && elements[prev-1].Type == script.SceneHeading

		switch {
		case sceneBeforeSpacer:
			start = prev - 1
		case pullsDialogue || sceneFirst:
			start = prev
		default:
			return start
		}
	}
	return start
}
