/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders the screenplay model to print formats.
// The PDF writer produces the standard screenplay layout: US letter, Courier
// 12pt, a 1.5" left margin, per-type indent columns, page numbers in the top
// right corner from the second content page on.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"screenwright/internal/script"
)

// Layout constants in points. Courier at 12pt is fixed pitch: 7.2pt per
// character, 12pt per line.
const (
	pageWidth  = 612.0
	pageHeight = 792.0

	marginTop    = 72.0
	marginBottom = 72.0
	marginLeft   = 108.0
	marginRight  = 72.0
	hardMargin   = 54.0

	fontSize   = 12.0
	lineHeight = 12.0

	actionX     = marginLeft
	actionWidth = pageWidth - marginLeft - marginRight

	dialogueX     = 180.0
	dialogueWidth = 252.0

	parentheticalX     = 216.0
	parentheticalWidth = 180.0

	characterX = 266.0

	dualFirstX      = 126.0
	dualSecondX     = 342.0
	dualColumnWidth = 160.0
)

// PDFOptions controls the screenplay PDF writer.
type PDFOptions struct {
	SkipTitlePage        bool
	IncludeSceneNumbers  bool
	PageHeader           string
	Watermark            string
	WatermarkSize        float64
	WatermarkOrientation string // "horizontal", "45" or "vertical"
}

// writer wraps gofpdf with the screenplay page state.
type writer struct {
	pdf  *gofpdf.Fpdf
	opt  PDFOptions
	y    float64
	page int // content page counter, the title page is page zero
}

// WritePDF renders the script to w. Unknown element types abort with
// *script.InvalidElementError, mirroring the FDX exporter.
func WritePDF(w io.Writer, s script.Script, opt PDFOptions) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
		OrientationStr: "P",
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(s.Meta.Title, true)
	pdf.SetAuthor(s.Meta.Authors, true)
	pdf.SetFont("Courier", "", fontSize)

	doc := &writer{pdf: pdf, opt: opt}

	if !opt.SkipTitlePage {
		doc.titlePage(s.Meta)
	}
	doc.addContentPage()

	for _, el := range s.Elements {
		if err := doc.element(el); err != nil {
			return err
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (d *writer) titlePage(meta script.Metadata) {
	d.pdf.AddPage()
	d.watermark()

	title := meta.Title
	if title == "" {
		title = "Untitled Script"
	}

	centerY := (pageHeight-marginTop-marginBottom)/2 + fontSize
	d.pdf.SetFont("Courier", "U", fontSize)
	d.centerText(title, centerY)
	d.pdf.SetFont("Courier", "", fontSize)

	y := centerY
	if meta.Credit != "" {
		y += fontSize * 4
		d.centerText(meta.Credit, y)
	}
	if meta.Authors != "" {
		y += fontSize * 2
		d.centerText(meta.Authors, y)
	}

	bottomLine := pageHeight - marginBottom
	if meta.DraftDate != "" {
		d.rightText(meta.DraftDate, pageWidth-hardMargin, bottomLine)
	}
	if meta.Contact != "" {
		d.pdf.Text(hardMargin, bottomLine, meta.Contact)
	}
}

func (d *writer) addContentPage() {
	d.pdf.AddPage()
	d.page++
	d.y = marginTop + lineHeight
	d.watermark()

	if d.opt.PageHeader != "" {
		d.centerText(d.opt.PageHeader, hardMargin)
	}
	if d.page > 1 {
		label := fmt.Sprintf("%d.", d.page)
		d.rightText(label, pageWidth-hardMargin-2, hardMargin-5)
	}
}

// ensureRoom starts a new page when the next block of the given height would
// cross the bottom margin.
func (d *writer) ensureRoom(height float64) {
	if d.y+height > pageHeight-marginBottom {
		d.addContentPage()
	}
}

func (d *writer) element(el script.Element) error {
	switch el.Type {
	case script.SceneHeading:
		return d.sceneHeading(el)
	case script.Action:
		return d.block(el.Content, actionX, actionWidth, lineHeight)
	case script.Character:
		return d.block(el.Content, characterX, pageWidth-characterX-marginRight, lineHeight)
	case script.Dialogue:
		return d.block(el.Content, dialogueX, dialogueWidth, 0)
	case script.Parenthetical:
		return d.block(el.Content, parentheticalX, parentheticalWidth, 0)
	case script.Transition:
		return d.transition(el.Content)
	case script.DualDialogue:
		return d.dualDialogue(el)
	default:
		return &script.InvalidElementError{Type: el.Type}
	}
}

func (d *writer) sceneHeading(el script.Element) error {
	lines := d.pdf.SplitText(el.Content, actionWidth)
	d.ensureRoom(float64(len(lines))*lineHeight + lineHeight)
	d.y += lineHeight

	d.pdf.SetFont("Courier", "B", fontSize)
	if d.opt.IncludeSceneNumbers && el.SceneNumber != "" {
		d.pdf.Text(hardMargin, d.y, el.SceneNumber)
		d.rightText(el.SceneNumber, pageWidth-hardMargin, d.y)
	}
	for _, line := range lines {
		d.pdf.Text(actionX, d.y, line)
		d.y += lineHeight
	}
	d.pdf.SetFont("Courier", "", fontSize)
	return nil
}

func (d *writer) transition(content string) error {
	d.ensureRoom(lineHeight * 2)
	d.y += lineHeight
	d.rightText(content, pageWidth-marginRight, d.y)
	d.y += lineHeight
	return nil
}

// block writes a wrapped text block at the given indent. spacing is the blank
// space inserted above the block; dialogue and parentheticals attach directly
// to the preceding cue.
func (d *writer) block(content string, x, width, spacing float64) error {
	lines := d.pdf.SplitText(content, width)
	d.ensureRoom(float64(len(lines))*lineHeight + spacing)
	d.y += spacing
	for _, line := range lines {
		d.pdf.Text(x, d.y, line)
		d.y += lineHeight
	}
	return nil
}

// dualDialogue renders the two halves side by side in narrow columns and
// advances past the taller one.
func (d *writer) dualDialogue(el script.Element) error {
	first := dualLines(d.pdf, el.FirstCharacter, el.FirstContent)
	second := dualLines(d.pdf, el.SecondCharacter, el.SecondContent)

	tallest := len(first)
	if len(second) > tallest {
		tallest = len(second)
	}
	d.ensureRoom(float64(tallest)*lineHeight + lineHeight)
	d.y += lineHeight

	top := d.y
	for i, line := range first {
		d.pdf.Text(dualFirstX, top+float64(i)*lineHeight, line)
	}
	for i, line := range second {
		d.pdf.Text(dualSecondX, top+float64(i)*lineHeight, line)
	}
	d.y = top + float64(tallest)*lineHeight
	return nil
}

func dualLines(pdf *gofpdf.Fpdf, character *script.Element, content []script.Element) []string {
	var lines []string
	if character != nil {
		lines = append(lines, character.Content)
	}
	for _, item := range content {
		lines = append(lines, pdf.SplitText(item.Content, dualColumnWidth)...)
	}
	return lines
}

func (d *writer) centerText(text string, y float64) {
	width := d.pdf.GetStringWidth(text)
	d.pdf.Text((pageWidth-width)/2, y, text)
}

func (d *writer) rightText(text string, rightEdge, y float64) {
	width := d.pdf.GetStringWidth(text)
	d.pdf.Text(rightEdge-width, y, text)
}

// watermark stamps the configured text across the current page at low
// opacity.
func (d *writer) watermark() {
	if d.opt.Watermark == "" {
		return
	}
	size := d.opt.WatermarkSize
	if size <= 0 {
		size = 72
	}
	angle := 45.0
	switch strings.ToLower(d.opt.WatermarkOrientation) {
	case "horizontal":
		angle = 0
	case "vertical":
		angle = 90
	}

	d.pdf.SetAlpha(0.1, "Normal")
	d.pdf.SetFont("Helvetica", "B", size)
	d.pdf.TransformBegin()
	d.pdf.TransformRotate(angle, pageWidth/2, pageHeight/2)
	width := d.pdf.GetStringWidth(d.opt.Watermark)
	d.pdf.Text((pageWidth-width)/2, pageHeight/2, d.opt.Watermark)
	d.pdf.TransformEnd()
	d.pdf.SetAlpha(1, "Normal")
	d.pdf.SetFont("Courier", "", fontSize)
}
