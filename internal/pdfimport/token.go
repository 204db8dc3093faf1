/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pdfimport reconstructs a screenplay element sequence from the
// positioned text tokens of a PDF. Column x-positions are inferred once per
// document from frequency statistics, then every token is classified by
// position plus a stateful reclassification pass, merged, and projected onto
// the element model.
package pdfimport

import (
	"context"
	"fmt"
	"math"
)

// Token is one positioned text run on a page. Coordinates are PDF points with
// the origin at the bottom-left corner, so a following line has a smaller Y.
type Token struct {
	Text   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Page holds one page's dimensions and its tokens in reading order.
type Page struct {
	Number int
	Width  float64
	Height float64
	Tokens []Token
}

// TokenSource abstracts the PDF text-extraction collaborator. The core never
// parses PDF bytes itself.
type TokenSource interface {
	// Pages returns all pages of the document. Loading is all-or-nothing:
	// a failure on any page fails the whole call.
	Pages(ctx context.Context) ([]Page, error)
}

// ExtractionError reports a failure of the extraction collaborator (corrupt
// PDF, unreadable file). The import yields no model.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pdf extraction failed for %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// roughlyEqual reports whether a and b are within tolerance. Either side
// being NaN (an absent column position) compares unequal.
func roughlyEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
