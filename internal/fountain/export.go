/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain converts between the screenplay element model and Fountain
// plain text. Export walks the element sequence once with blank-line insertion
// rules per type; import runs the inverse grammar (forcing markers, blank-line
// delimited blocks, "#12#" scene-number suffixes, " ^" dual-dialogue markers).
package fountain

import (
	"strings"

	applog "screenwright/internal/log"
	"screenwright/internal/script"
)

// docBuffer is an append-only line buffer. ensureEmptyLine inserts a blank
// separator only when the buffer is non-empty and the last line is not blank,
// so a document never starts with a stray blank line.
type docBuffer struct {
	lines []string
}

func (d *docBuffer) addLine(line string) {
	d.lines = append(d.lines, line)
}

func (d *docBuffer) ensureEmptyLine() {
	if n := len(d.lines); n > 0 && d.lines[n-1] != "" {
		d.lines = append(d.lines, "")
	}
}

func (d *docBuffer) appendToPrevLine(text string) {
	if n := len(d.lines); n > 0 {
		d.lines[n-1] += text
	}
}

func (d *docBuffer) String() string {
	return strings.Join(d.lines, "\n")
}

func isUpper(s string) bool {
	return s == strings.ToUpper(s)
}

// Export renders the script as Fountain text. Title-page fields are emitted
// first, one per populated field, in fixed order. Elements of an unknown type
// are logged and skipped.
func Export(s script.Script) string {
	doc := &docBuffer{}

	titleFields := []struct {
		key, value string
	}{
		{"Title", s.Meta.Title},
		{"Credit", s.Meta.Credit},
		{"Author", s.Meta.Authors},
		{"Source", s.Meta.Source},
		{"Draft Date", s.Meta.DraftDate},
		{"Contact", s.Meta.Contact},
		{"Rights", s.Meta.Rights},
	}
	for _, f := range titleFields {
		if f.value != "" {
			doc.addLine(f.key + ": " + f.value)
		}
	}

	logger := applog.WithComponent("fountain")
	for _, el := range s.Elements {
		switch el.Type {
		case script.SceneHeading:
			addSceneHeading(doc, el)
		case script.Transition:
			addTransition(doc, el)
		case script.Action:
			addAction(doc, el)
		case script.Character:
			addCharacter(doc, el)
		case script.Dialogue:
			doc.addLine(el.Content)
		case script.Parenthetical:
			doc.addLine(el.Content)
		case script.DualDialogue:
			addDualDialogue(doc, el)
		default:
			logger.Warn("skipping unknown element type", "type", string(el.Type))
		}
	}
	return doc.String()
}

func addSceneHeading(doc *docBuffer, el script.Element) {
	doc.ensureEmptyLine()
	line := el.Content
	if !exportSluglineRe.MatchString(el.Content) {
		line = "." + el.Content
	}
	if el.SceneNumber != "" {
		line += " #" + el.SceneNumber + "#"
	}
	doc.addLine(line)
}

func addCharacter(doc *docBuffer, el script.Element) {
	doc.ensureEmptyLine()
	if ambiguousCueRe.MatchString(el.Content) {
		doc.addLine("@" + el.Content)
		return
	}
	doc.addLine(el.Content)
}

func addAction(doc *docBuffer, el script.Element) {
	doc.ensureEmptyLine()
	if el.Content == "" || isUpper(el.Content) {
		doc.addLine("!" + el.Content)
		return
	}
	doc.addLine(el.Content)
}

func addTransition(doc *docBuffer, el script.Element) {
	doc.ensureEmptyLine()
	if strings.HasSuffix(el.Content, "TO:") && isUpper(el.Content) {
		doc.addLine(el.Content)
	} else {
		doc.addLine(">" + el.Content)
	}
	doc.addLine("")
}

func addDualDialogue(doc *docBuffer, el script.Element) {
	if el.FirstCharacter != nil {
		addCharacter(doc, *el.FirstCharacter)
	}
	addDialogueRun(doc, el.FirstContent)

	if el.SecondCharacter != nil {
		addCharacter(doc, *el.SecondCharacter)
		doc.appendToPrevLine(" ^")
	}
	addDialogueRun(doc, el.SecondContent)
}

func addDialogueRun(doc *docBuffer, run []script.Element) {
	for _, c := range run {
		switch c.Type {
		case script.Dialogue, script.Parenthetical:
			doc.addLine(c.Content)
		}
	}
}
