/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "regexp"

// Line-shape patterns shared by the exporter (deciding when a forcing marker
// is needed) and the importer (inferring types from unforced lines).
var (
	// sceneHeaderRe matches the conventional slugline openers.
	sceneHeaderRe = regexp.MustCompile(`(?i)^(?:int|ext|est|i\.?/e\.?|e\.?/i\.?)(?:$|\s|\.)`)

	// transitionRe matches the uppercase "... TO:" family of transitions.
	transitionRe = regexp.MustCompile(`^(?:FADE|CUT|TRANSITION)\s*(?:TO\s*)?(?:[^<>a-z]*):$`)

	// characterRe matches an uppercase cue line of at least three characters.
	characterRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\s_\-().]{2,}:?$`)

	parentheticalRe = regexp.MustCompile(`^\s*\(`)

	// exportSluglineRe decides whether a scene heading needs the "." forcing
	// marker on export (only INT./EXT. openers are unambiguous in Fountain).
	exportSluglineRe = regexp.MustCompile(`^(?:INT\.|EXT\.)`)

	// ambiguousCueRe flags character content that would not read as a cue
	// without the "@" forcing marker.
	ambiguousCueRe = regexp.MustCompile(`[a-z()]`)

	// sceneNumberSuffixRe captures the "#12#" suffix of a slugline.
	sceneNumberSuffixRe = regexp.MustCompile(`\s*#([0-9A-Za-z.\-]+)#\s*$`)

	titleKeyRe = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*?):\s*(.*)$`)

	boneyardRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)
