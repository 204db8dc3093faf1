/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"strings"

	"screenwright/internal/script"
)

// flatEl is one parsed line before dual-dialogue assembly. caret marks a
// character cue that carried the " ^" simultaneity suffix.
type flatEl struct {
	el    script.Element
	caret bool
}

// Import parses Fountain text into the element model. The grammar is
// forgiving: every line classifies as something, so there is no parse error.
// Lyrics and centered text have no model variant and degrade to action.
func Import(text string) script.Script {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = boneyardRe.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")

	meta, body := parseTitlePage(lines)
	flat := parseBody(lines[body:])
	return script.Script{Elements: assembleDualDialogue(flat), Meta: meta}
}

var titleFieldKeys = map[string]func(*script.Metadata) *string{
	"title":      func(m *script.Metadata) *string { return &m.Title },
	"credit":     func(m *script.Metadata) *string { return &m.Credit },
	"author":     func(m *script.Metadata) *string { return &m.Authors },
	"authors":    func(m *script.Metadata) *string { return &m.Authors },
	"source":     func(m *script.Metadata) *string { return &m.Source },
	"draft date": func(m *script.Metadata) *string { return &m.DraftDate },
	"contact":    func(m *script.Metadata) *string { return &m.Contact },
	"rights":     func(m *script.Metadata) *string { return &m.Rights },
}

// parseTitlePage consumes the leading "Key: Value" block, if the very first
// line opens with a recognized key. Indented follow-up lines continue the
// previous value. Returns the metadata and the index of the first body line.
func parseTitlePage(lines []string) (script.Metadata, int) {
	var meta script.Metadata
	if len(lines) == 0 {
		return meta, 0
	}
	m := titleKeyRe.FindStringSubmatch(lines[0])
	if m == nil || titleFieldKeys[strings.ToLower(strings.TrimSpace(m[1]))] == nil {
		return meta, 0
	}

	var current *string
	i := 0
	for ; i < len(lines) && strings.TrimSpace(lines[i]) != ""; i++ {
		if m := titleKeyRe.FindStringSubmatch(lines[i]); m != nil {
			if field := titleFieldKeys[strings.ToLower(strings.TrimSpace(m[1]))]; field != nil {
				current = field(&meta)
				*current = strings.TrimSpace(m[2])
				continue
			}
		}
		indented := strings.HasPrefix(lines[i], " ") || strings.HasPrefix(lines[i], "\t")
		if current != nil && indented {
			*current = strings.TrimSpace(*current + " " + strings.TrimSpace(lines[i]))
		}
	}
	return meta, i
}

func parseBody(lines []string) []flatEl {
	var flat []flatEl
	prevBlank := true
	inDialogue := false

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			prevBlank = true
			inDialogue = false
			continue
		}

		caret := false
		if strings.HasSuffix(trimmed, "^") && trimmed != "^" {
			base := strings.TrimSpace(strings.TrimSuffix(trimmed, "^"))
			if strings.HasPrefix(base, "@") || characterRe.MatchString(base) {
				caret = true
				trimmed = base
			}
		}

		var el script.Element
		switch {
		case strings.HasPrefix(trimmed, ".") && !strings.HasPrefix(trimmed, ".."):
			content, num := splitSceneNumber(strings.TrimPrefix(trimmed, "."))
			el = script.NewSceneHeading(content, num)
		case strings.HasPrefix(trimmed, "@"):
			el = script.NewCharacter(strings.TrimPrefix(trimmed, "@"))
		case strings.HasPrefix(trimmed, "!"):
			el = script.NewAction(strings.TrimPrefix(trimmed, "!"))
		case strings.HasPrefix(trimmed, ">") && strings.HasSuffix(trimmed, "<"):
			el = script.NewAction(strings.TrimSuffix(strings.TrimPrefix(trimmed, ">"), "<"))
		case strings.HasPrefix(trimmed, ">"):
			el = script.NewTransition(strings.TrimPrefix(trimmed, ">"))
		case strings.HasPrefix(trimmed, "~"):
			el = script.NewAction(strings.TrimPrefix(trimmed, "~"))
		case caret:
			// the simultaneity marker only ever follows a character cue
			el = script.NewCharacter(trimmed)
		case inDialogue && parentheticalRe.MatchString(trimmed):
			el = script.NewParenthetical(trimmed)
		case inDialogue:
			el = script.NewDialogue(trimmed)
		case sceneHeaderRe.MatchString(trimmed):
			content, num := splitSceneNumber(trimmed)
			el = script.NewSceneHeading(content, num)
		case prevBlank && isUpper(trimmed) && (transitionRe.MatchString(trimmed) || strings.HasSuffix(trimmed, "TO:")) && blankAfter(lines, i):
			el = script.NewTransition(trimmed)
		case prevBlank && characterRe.MatchString(trimmed) && !blankAfter(lines, i):
			el = script.NewCharacter(trimmed)
		default:
			el = script.NewAction(trimmed)
		}

		prevBlank = false
		inDialogue = el.Type == script.Character || el.Type == script.Parenthetical || el.Type == script.Dialogue
		flat = append(flat, flatEl{el: el, caret: caret && el.Type == script.Character})
	}
	return flat
}

// blankAfter reports whether the line following index i is blank or absent.
func blankAfter(lines []string, i int) bool {
	return i+1 >= len(lines) || strings.TrimSpace(lines[i+1]) == ""
}

func splitSceneNumber(line string) (content, number string) {
	if m := sceneNumberSuffixRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(line[:len(line)-len(m[0])]), m[1]
	}
	return line, ""
}

// assembleDualDialogue folds a caret-marked character cue and its dialogue run
// together with the immediately preceding character block into one
// dual-dialogue element. A caret with no usable first half stays an ordinary
// character cue.
func assembleDualDialogue(flat []flatEl) []script.Element {
	out := make([]script.Element, 0, len(flat))
	for i := 0; i < len(flat); i++ {
		if !flat[i].caret {
			out = append(out, flat[i].el)
			continue
		}

		second := flat[i].el
		var secondContent []script.Element
		j := i + 1
		for ; j < len(flat) && !flat[j].caret; j++ {
			t := flat[j].el.Type
			if t != script.Dialogue && t != script.Parenthetical {
				break
			}
			secondContent = append(secondContent, flat[j].el)
		}

		k := len(out) - 1
		for k >= 0 && (out[k].Type == script.Dialogue || out[k].Type == script.Parenthetical) {
			k--
		}
		if k >= 0 && out[k].Type == script.Character {
			first := out[k]
			firstContent := append([]script.Element(nil), out[k+1:]...)
			if dd, err := script.NewDualDialogue(first, firstContent, second, secondContent); err == nil {
				out = append(out[:k], dd)
				i = j - 1
				continue
			}
		}
		out = append(out, second)
	}
	return out
}
