/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pdfimport

import (
	"context"

	applog "screenwright/internal/log"
	"screenwright/internal/script"
)

// Import reconstructs the element sequence from a token source. The pipeline
// is load, infer columns, classify, clean up, project.
func Import(ctx context.Context, src TokenSource) ([]script.Element, error) {
	logger := applog.WithComponent("pdfimport")

	pages, err := src.Pages(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("document loaded", "pages", len(pages))

	info := EstimatePositions(pages)
	parsed := cleanupParsedElements(classifyPages(pages, info))
	elements := mapToScriptElements(parsed)
	logger.Info("imported elements", "count", len(elements))
	return elements, nil
}

// ImportFile runs the full import against a PDF on disk.
func ImportFile(ctx context.Context, path string) ([]script.Element, error) {
	src, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return Import(ctx, src)
}

// mapToScriptElements projects the surviving parsed elements onto the model.
// Leftover scene-number tokens become bare headings carrying the number as
// both content and metadata; dual-dialogue roles flatten to character and
// dialogue; anything unrecognized degrades to action.
func mapToScriptElements(parsed []ParsedElement) []script.Element {
	elements := make([]script.Element, 0, len(parsed))
	for _, el := range parsed {
		switch el.Type {
		case tokSceneNumber:
			elements = append(elements, script.NewSceneHeading(el.Content, el.Content))
		case tokSceneHeading:
			elements = append(elements, script.NewSceneHeading(el.Content, el.SceneNumber))
		case tokCharacter, tokDualFirstChar, tokDualSecondChar:
			elements = append(elements, script.NewCharacter(el.Content))
		case tokDialogue, tokDualFirstDialogue, tokDualSecondDialogue:
			elements = append(elements, script.NewDialogue(el.Content))
		case tokParenthetical:
			elements = append(elements, script.NewParenthetical(el.Content))
		case tokTransition:
			elements = append(elements, script.NewTransition(el.Content))
		default:
			elements = append(elements, script.NewAction(el.Content))
		}
	}
	return elements
}
