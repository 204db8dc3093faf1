/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package finaldraft converts between the screenplay element model and the
// Final Draft FDX XML format. The import is strict about the document frame
// (root element, document type, content node) and lenient about paragraphs:
// unknown paragraph types are logged and skipped.
package finaldraft

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	applog "screenwright/internal/log"
	"screenwright/internal/script"
)

// FormatError reports an FDX document that does not have the expected frame.
// It aborts the whole import; per-paragraph anomalies do not raise it.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "final draft format error: " + e.Reason
}

// ImportOptions carries debug truncation knobs. Zero values disable them.
type ImportOptions struct {
	// SkipFirstScenes drops everything before the Nth scene heading.
	SkipFirstScenes int
	// StopAfterScenes ends the import once N scene headings were taken.
	StopAfterScenes int
}

type fdxDocument struct {
	XMLName      xml.Name     `xml:"FinalDraft"`
	DocumentType string       `xml:"DocumentType,attr"`
	Content      []fdxContent `xml:"Content"`
}

type fdxContent struct {
	Paragraphs []fdxParagraph `xml:"Paragraph"`
}

type fdxParagraph struct {
	Type        string    `xml:"Type,attr"`
	SceneNumber string    `xml:"SceneNumber,attr"`
	Text        []fdxText `xml:"Text"`
}

type fdxText struct {
	Content string `xml:",chardata"`
}

var (
	contdRe      = regexp.MustCompile(`(?i)\s*\(\s*cont['’]?d\.?\s*\)\s*$`)
	scriptTypeRe = regexp.MustCompile(`(?i)script`)
)

// Import parses an FDX document into the element model.
func Import(data []byte, opts ImportOptions) ([]script.Element, error) {
	logger := applog.WithComponent("finaldraft")

	var doc fdxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("not a Final Draft script file: %v", err)}
	}
	if !scriptTypeRe.MatchString(doc.DocumentType) {
		return nil, &FormatError{Reason: fmt.Sprintf("document type %q is not a script", doc.DocumentType)}
	}
	if len(doc.Content) == 0 {
		return nil, &FormatError{Reason: "no content in Final Draft file"}
	}

	var elements []script.Element
	importing := opts.SkipFirstScenes == 0
	sceneCount := 0

	for _, content := range doc.Content {
		for _, p := range content.Paragraphs {
			text := paragraphText(p)
			switch strings.ToLower(strings.TrimSpace(p.Type)) {
			case "scene heading":
				sceneCount++
				if opts.SkipFirstScenes > 0 && sceneCount > opts.SkipFirstScenes {
					importing = true
				}
				if opts.StopAfterScenes > 0 && sceneCount > opts.StopAfterScenes {
					logger.Warn("stopping import", "after_scenes", opts.StopAfterScenes)
					return elements, nil
				}
				number := p.SceneNumber
				if number == "" {
					number = strconv.Itoa(sceneCount)
				}
				if importing {
					elements = append(elements, script.NewSceneHeading(text, number))
				}
			case "action":
				if importing {
					elements = append(elements, script.NewAction(text))
				}
			case "character":
				if importing {
					elements = append(elements, script.NewCharacter(contdRe.ReplaceAllString(text, "")))
				}
			case "parenthetical":
				if importing {
					elements = append(elements, script.NewParenthetical(text))
				}
			case "dialogue":
				if importing {
					elements = append(elements, script.NewDialogue(text))
				}
			case "transition":
				if importing {
					elements = append(elements, script.NewTransition(text))
				}
			default:
				logger.Warn("skipping unknown paragraph type", "type", p.Type, "text", text)
			}
		}
	}
	return elements, nil
}

func paragraphText(p fdxParagraph) string {
	var b strings.Builder
	for _, t := range p.Text {
		b.WriteString(t.Content)
	}
	return script.NormalizeContent(b.String())
}
