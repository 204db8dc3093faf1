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
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// US letter in points, used when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// FileSource extracts positioned tokens from a PDF file. It validates the
// file with a page-count preflight on open, then reads pages concurrently,
// one goroutine per page, joined all-or-nothing.
type FileSource struct {
	path   string
	file   *os.File
	reader *pdf.Reader
}

// OpenFile opens and preflights a PDF. The caller owns the returned source
// and must Close it.
func OpenFile(path string) (*FileSource, error) {
	probe, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	pageCount, err := api.PageCount(probe, nil)
	probe.Close()
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("preflight: %w", err)}
	}
	if pageCount == 0 {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("document has no pages")}
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	return &FileSource{path: path, file: f, reader: r}, nil
}

func (s *FileSource) Close() error {
	return s.file.Close()
}

// Pages loads and tokenizes every page concurrently. Any single page failure
// fails the whole call; pages come back in document order.
func (s *FileSource) Pages(ctx context.Context) ([]Page, error) {
	numPages := s.reader.NumPage()
	pages := make([]Page, numPages)
	errs := make([]error, numPages)

	var wg sync.WaitGroup
	for i := 1; i <= numPages; i++ {
		wg.Add(1)
		go func(number int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[number-1] = err
				return
			}
			page, err := s.loadPage(number)
			if err != nil {
				errs[number-1] = err
				return
			}
			pages[number-1] = page
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, &ExtractionError{Path: s.path, Err: err}
		}
	}
	return pages, nil
}

func (s *FileSource) loadPage(number int) (page Page, err error) {
	// The parser panics on some malformed content streams; a broken page
	// must fail the page, not the process.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", number, r)
		}
	}()

	p := s.reader.Page(number)
	if p.V.IsNull() {
		return Page{}, fmt.Errorf("page %d: missing page object", number)
	}

	width, height := defaultPageWidth, defaultPageHeight
	if mb := p.V.Key("MediaBox"); mb.Kind() == pdf.Array && mb.Len() == 4 {
		if w := mb.Index(2).Float64() - mb.Index(0).Float64(); w > 0 {
			width = w
		}
		if h := mb.Index(3).Float64() - mb.Index(1).Float64(); h > 0 {
			height = h
		}
	}

	return Page{
		Number: number,
		Width:  width,
		Height: height,
		Tokens: assembleTokens(p.Content().Text),
	}, nil
}

// assembleTokens turns per-glyph text items into line-run tokens. Items on
// the same baseline merge into one run while the horizontal gap stays under
// 2.5 font sizes; a gap wider than half a font size reads as a word boundary
// and inserts a space. Runs are ordered top-to-bottom, then left-to-right.
func assembleTokens(texts []pdf.Text) []Token {
	items := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		items = append(items, t)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Y != items[j].Y {
			return items[i].Y > items[j].Y
		}
		return items[i].X < items[j].X
	})

	var tokens []Token
	for _, t := range items {
		height := t.FontSize
		if n := len(tokens); n > 0 {
			prev := &tokens[n-1]
			gap := t.X - (prev.X + prev.Width)
			if roughlyEqual(t.Y, prev.Y, 2) && gap <= t.FontSize*2.5 {
				if gap > t.FontSize*0.5 {
					prev.Text += " "
				}
				prev.Text += t.S
				prev.Width = t.X + t.W - prev.X
				continue
			}
		}
		tokens = append(tokens, Token{
			Text:   t.S,
			X:      t.X,
			Y:      t.Y,
			Width:  t.W,
			Height: height,
		})
	}
	return tokens
}
