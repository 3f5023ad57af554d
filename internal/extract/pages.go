package extract

import (
	"context"
	"strings"
	"unicode"
)

// Page is the text of one document page. Number is 1-based.
type Page struct {
	Number int
	Text   string
	Err    error
}

// Pages holds page texts in document order.
type Pages []Page

// Text joins every page's text with sep.
func (p Pages) Text(sep string) string {
	parts := make([]string, len(p))
	for i, pg := range p {
		parts[i] = pg.Text
	}
	return strings.Join(parts, sep)
}

// CharCount returns the number of non-whitespace runes across all pages.
func (p Pages) CharCount() int {
	n := 0
	for _, pg := range p {
		for _, r := range pg.Text {
			if !unicode.IsSpace(r) {
				n++
			}
		}
	}
	return n
}

// Failed returns how many pages could not be extracted.
func (p Pages) Failed() int {
	n := 0
	for _, pg := range p {
		if pg.Err != nil {
			n++
		}
	}
	return n
}

// Backend is an extraction capability over one PDF library.
type Backend interface {
	Name() string
	Extract(ctx context.Context, path string) (Pages, error)
}

// DefaultMinChars is the fallback threshold used when none is configured:
// output with no non-whitespace character at all is degenerate.
const DefaultMinChars = 1

// Degenerate reports whether pages carry fewer than minChars non-whitespace
// runes. A non-positive minChars means DefaultMinChars.
func Degenerate(p Pages, minChars int) bool {
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	return p.CharCount() < minChars
}
