/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package finaldraft

import (
	"encoding/xml"

	"screenwright/internal/script"
)

type exportDocument struct {
	XMLName      xml.Name      `xml:"FinalDraft"`
	DocumentType string        `xml:"DocumentType,attr"`
	Template     string        `xml:"Template,attr"`
	Version      string        `xml:"Version,attr"`
	Content      exportContent `xml:"Content"`
}

type exportContent struct {
	Paragraphs []exportParagraph `xml:"Paragraph"`
}

type exportParagraph struct {
	Type   string `xml:"Type,attr"`
	Number string `xml:"Number,attr,omitempty"`
	Text   string `xml:"Text"`
}

// Export renders the element sequence as an FDX document. Each element maps
// to one Paragraph; dual dialogue flattens to its character and content
// paragraphs in order, with no wrapper element. An element of an unknown type
// aborts with *script.InvalidElementError.
func Export(elements []script.Element) ([]byte, error) {
	doc := exportDocument{
		DocumentType: "Script",
		Template:     "No",
		Version:      "5",
	}

	for _, el := range elements {
		switch el.Type {
		case script.SceneHeading:
			doc.Content.Paragraphs = append(doc.Content.Paragraphs, exportParagraph{
				Type: "Scene Heading", Number: el.SceneNumber, Text: el.Content,
			})
		case script.Action:
			doc.Content.Paragraphs = append(doc.Content.Paragraphs, exportParagraph{Type: "Action", Text: el.Content})
		case script.Character:
			doc.Content.Paragraphs = append(doc.Content.Paragraphs, exportParagraph{Type: "Character", Text: el.Content})
		case script.Dialogue:
			doc.Content.Paragraphs = append(doc.Content.Paragraphs, exportParagraph{Type: "Dialogue", Text: el.Content})
		case script.Parenthetical:
			doc.Content.Paragraphs = append(doc.Content.Paragraphs, exportParagraph{Type: "Parenthetical", Text: el.Content})
		case script.Transition:
			doc.Content.Paragraphs = append(doc.Content.Paragraphs, exportParagraph{Type: "Transition", Text: el.Content})
		case script.DualDialogue:
			doc.Content.Paragraphs = append(doc.Content.Paragraphs, dualParagraphs(el)...)
		default:
			return nil, &script.InvalidElementError{Type: el.Type}
		}
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func dualParagraphs(el script.Element) []exportParagraph {
	var out []exportParagraph
	appendHalf := func(character *script.Element, content []script.Element) {
		if character != nil {
			out = append(out, exportParagraph{Type: "Character", Text: character.Content})
		}
		for _, item := range content {
			switch item.Type {
			case script.Dialogue:
				out = append(out, exportParagraph{Type: "Dialogue", Text: item.Content})
			case script.Parenthetical:
				out = append(out, exportParagraph{Type: "Parenthetical", Text: item.Content})
			}
		}
	}
	appendHalf(el.FirstCharacter, el.FirstContent)
	appendHalf(el.SecondCharacter, el.SecondContent)
	return out
}
