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
	"sort"
	"strings"
)

// PositionInfo holds the inferred column x-positions for the whole document.
// Screenplay margins are consistent throughout, so this is computed once, not
// per page. Absent positions are NaN, which fails every tolerance comparison.
type PositionInfo struct {
	LeftEdgePos           float64
	SceneNumPos           float64
	CharacterStartPos     float64
	DialogueStartPos      float64
	ParentheticalStartPos float64
	TransitionEndPos      float64
	PageNumberEndPos      float64
}

// mostThreshold is the fuzzy-majority ratio for column classification.
// Column noise (stray characters at nearby x-offsets) is tolerated.
const mostThreshold = 0.85

var (
	sceneHeaderRe   = regexp.MustCompile(`(?i)(?:\n|^)((int|ext|est|i\.?/e\.?|e\.?/i\.?)($|\s|\.))`)
	sluglineStartRe = regexp.MustCompile(`^(INT|EXT|EST|INT/EXT|EXT/INT)\.`)
	transitionRe    = regexp.MustCompile(`(?:\n|^)(?:FADE|CUT|TRANSITION)\s*(?:TO\s*)?(?:[^<>\na-z]*):$`)
	characterRe     = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\s_\-().]{2,}:?$`)
	sceneNumberRe   = regexp.MustCompile(`^[0-9A-Z.\-]+$`)
	proseStartRe    = regexp.MustCompile(`^[A-Za-z\s]+`)
	pageNumberRe    = regexp.MustCompile(`^[0-9]+\.?$`)
)

// most reports whether at least 85% of lines satisfy match.
func most(lines []string, match func(string) bool) bool {
	if len(lines) == 0 {
		return false
	}
	n := 0
	for _, line := range lines {
		if match(line) {
			n++
		}
	}
	return float64(n)/float64(len(lines)) >= mostThreshold
}

// bucketSet is a frequency histogram of token strings keyed by a rounded
// x-coordinate. keys() returns buckets by descending token count; ties break
// on the coordinate so the inference is deterministic.
type bucketSet map[int][]string

func (b bucketSet) add(pos float64, text string) {
	key := int(math.Round(pos))
	b[key] = append(b[key], text)
}

func (b bucketSet) keys() []int {
	out := make([]int, 0, len(b))
	for k := range b {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(b[out[i]]) != len(b[out[j]]) {
			return len(b[out[i]]) > len(b[out[j]])
		}
		return out[i] < out[j]
	})
	return out
}

// EstimatePositions infers the document's column layout from all pages.
func EstimatePositions(pages []Page) PositionInfo {
	startBuckets := bucketSet{}
	endBuckets := bucketSet{}
	for _, page := range pages {
		for _, tok := range page.Tokens {
			if strings.TrimSpace(tok.Text) == "" {
				continue
			}
			startBuckets.add(tok.X, tok.Text)
			endBuckets.add(tok.X+tok.Width, tok.Text)
		}
	}

	sortedStarts := startBuckets.keys()
	sortedEnds := endBuckets.keys()

	nan := math.NaN()
	info := PositionInfo{
		LeftEdgePos:           nan,
		SceneNumPos:           nan,
		CharacterStartPos:     nan,
		DialogueStartPos:      nan,
		ParentheticalStartPos: nan,
		TransitionEndPos:      nan,
		PageNumberEndPos:      nan,
	}
	if len(sortedStarts) == 0 {
		return info
	}

	// The left content edge: the most frequent bucket holding a slugline,
	// else the most frequent bucket overall.
	info.LeftEdgePos = float64(sortedStarts[0])
	for _, x := range sortedStarts {
		hasSlugline := false
		for _, line := range startBuckets[x] {
			if sluglineStartRe.MatchString(line) {
				hasSlugline = true
				break
			}
		}
		if hasSlugline {
			info.LeftEdgePos = float64(x)
			break
		}
	}

	// Scene-number markings sit left of (or at) the content edge.
	for _, x := range sortedStarts {
		if float64(x) <= info.LeftEdgePos && most(startBuckets[x], sceneNumberRe.MatchString) {
			info.SceneNumPos = float64(x)
			break
		}
	}

	for _, x := range sortedStarts {
		if float64(x) > info.LeftEdgePos && most(startBuckets[x], characterRe.MatchString) {
			info.CharacterStartPos = float64(x)
			break
		}
	}

	for _, x := range sortedStarts {
		if float64(x) > info.LeftEdgePos && float64(x) < info.CharacterStartPos &&
			most(startBuckets[x], proseStartRe.MatchString) {
			info.DialogueStartPos = float64(x)
			break
		}
	}

	for _, x := range sortedStarts {
		if float64(x) > info.DialogueStartPos && float64(x) < info.CharacterStartPos &&
			most(startBuckets[x], func(line string) bool { return strings.HasPrefix(line, "(") }) {
			info.ParentheticalStartPos = float64(x)
			break
		}
	}

	// Transitions and page numbers are right-aligned; look at end positions
	// past the horizontal midpoint.
	midpoint := 0.0
	if len(pages) > 0 {
		midpoint = pages[0].Width * 0.5
	}
	for _, x := range sortedEnds {
		if float64(x) > midpoint && most(endBuckets[x], looksLikeTransition) {
			info.TransitionEndPos = float64(x)
			break
		}
	}
	for _, x := range sortedEnds {
		if float64(x) > midpoint && most(endBuckets[x], pageNumberRe.MatchString) {
			info.PageNumberEndPos = float64(x)
			break
		}
	}

	return info
}

func looksLikeTransition(line string) bool {
	return strings.Contains(line, "TO") ||
		strings.HasPrefix(line, "FADE ") ||
		strings.HasPrefix(line, "CUT ")
}
