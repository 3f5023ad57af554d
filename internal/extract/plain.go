package extract

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// SimpleBackend extracts sequential plain text with the pure-Go
// ledongthuc/pdf reader.
type SimpleBackend struct{}

// NewSimpleBackend creates the ledongthuc/pdf backend.
func NewSimpleBackend() *SimpleBackend {
	return &SimpleBackend{}
}

func (b *SimpleBackend) Name() string { return "simple" }

// Extract returns one Page per document page, in order. Pages without a
// content object yield empty text.
func (b *SimpleBackend) Extract(ctx context.Context, path string) (Pages, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Path: path, Err: fmt.Errorf("open pdf: %w", err)}
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return nil, &BackendError{Backend: b.Name(), Path: path, Err: ErrNoPages}
	}
	pages := make(Pages, 0, n)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &BackendError{Backend: b.Name(), Path: path, Err: err}
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Int("page", i).Msg("failed to extract page text")
			pages = append(pages, Page{Number: i, Err: err})
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}

	if pages.Failed() == n {
		return nil, &BackendError{Backend: b.Name(), Path: path, Err: fmt.Errorf("all %d pages failed", n)}
	}
	return pages, nil
}
