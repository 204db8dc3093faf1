/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pdfimport

import (
	"regexp"
	"strings"
)

var (
	moreMarkerRe     = regexp.MustCompile(`(?i)^\(\s?MORE\s?\)$`)
	contdRe          = regexp.MustCompile(`(?i)\(\s*cont[^\w]?d\s*?\)\s*`)
	cueParenRe       = regexp.MustCompile(`\s*\(.*\)\s*`)
	voiceoverRe      = regexp.MustCompile(`(?i)\s*(V\.O\.)\s*$`)
	inlineSceneNumRe = regexp.MustCompile(`^(\d[\w\d]*\.?)\s`)
)

func isCueType(t tokenType) bool {
	return t == tokCharacter || t == tokDualFirstChar || t == tokDualSecondChar
}

// cleanupParsedElements is a single forward pass that merges adjacent
// same-type elements and repairs common rendering artifacts: scene numbers
// printed beside headings, (MORE) markers, (CONT'D) suffixes, parentheticals
// and V.O. markers glued onto character cues, and page numbers.
//
// Page numbers are dropped from the output but still become the "previous
// element" so later merge decisions see correct adjacency.
func cleanupParsedElements(elements []ParsedElement) []ParsedElement {
	if len(elements) == 0 {
		return nil
	}

	out := []ParsedElement{elements[0]}
	prev := &out[0]
	var dropped ParsedElement

	for i := 1; i < len(elements); i++ {
		el := elements[i]
		var after []ParsedElement

		// A scene number directly before or after a heading belongs to the
		// heading's metadata, not the content stream.
		if prev.Type == tokSceneHeading && el.Type == tokSceneNumber {
			prev.SceneNumber = el.Content
			continue
		}
		if el.Type == tokSceneHeading && prev.Type == tokSceneNumber {
			el.SceneNumber = prev.Content
		}

		// (MORE) is a pagination decoration, not content.
		if (el.Type == tokCharacter || el.Type == tokParenthetical) &&
			moreMarkerRe.MatchString(strings.TrimSpace(el.Content)) {
			continue
		}

		// Recover headings misfiled into the character column.
		if el.Type == tokCharacter && sluglineStartRe.MatchString(el.Content) {
			el.Type = tokSceneHeading
		}

		if isCueType(el.Type) {
			el.Content = strings.TrimSpace(contdRe.ReplaceAllString(el.Content, ""))

			// "(beat)" or "(V.O.)" printed on the cue line splits out into
			// its own parenthetical element right after the cue.
			if m := cueParenRe.FindString(el.Content); m != "" {
				el.Content = strings.TrimSpace(strings.Replace(el.Content, m, "", 1))
				after = append(after, ParsedElement{
					Type:       tokParenthetical,
					Content:    strings.TrimSpace(m),
					Tokens:     el.Tokens,
					CanMergeUp: false,
				})
			}
			if m := voiceoverRe.FindString(el.Content); m != "" {
				el.Content = strings.TrimSpace(strings.Replace(el.Content, m, "", 1))
				after = append(after, ParsedElement{
					Type:       tokParenthetical,
					Content:    "(" + strings.TrimSpace(m) + ")",
					Tokens:     el.Tokens,
					CanMergeUp: false,
				})
			}
		}

		if el.Type == prev.Type && el.CanMergeUp {
			prev.Content = strings.TrimSpace(prev.Content + " " + strings.TrimLeft(el.Content, " \t"))
			prev.Tokens = append(prev.Tokens, el.Tokens...)

			// Scene numbers printed inline at the start of a heading.
			if prev.Type == tokSceneHeading {
				if m := inlineSceneNumRe.FindStringSubmatch(prev.Content); m != nil {
					prev.SceneNumber = m[1]
					prev.Content = strings.TrimSpace(strings.TrimPrefix(prev.Content, m[0]))
				}
			}
			continue
		}

		if el.Type == tokPageNumber {
			dropped = el
			prev = &dropped
			continue
		}

		out = append(out, el)
		out = append(out, after...)
		prev = &out[len(out)-1]
	}
	return out
}
