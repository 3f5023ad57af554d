package extract

import (
	"context"
	"fmt"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// StructuredBackend extracts layout-aware page text with MuPDF (go-fitz),
// keeping column and table reading order.
type StructuredBackend struct{}

// NewStructuredBackend creates the go-fitz backend.
func NewStructuredBackend() *StructuredBackend {
	return &StructuredBackend{}
}

func (b *StructuredBackend) Name() string { return "structured" }

// Extract returns one Page per document page. A page that fails is kept
// with its error and empty text; the call fails only if the document cannot
// be opened or no page at all could be read.
func (b *StructuredBackend) Extract(ctx context.Context, path string) (Pages, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Path: path, Err: fmt.Errorf("open pdf: %w", err)}
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, &BackendError{Backend: b.Name(), Path: path, Err: ErrNoPages}
	}
	pages := make(Pages, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &BackendError{Backend: b.Name(), Path: path, Err: err}
		}
		text, err := doc.Text(i)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Int("page", i+1).Msg("failed to extract page text")
			pages = append(pages, Page{Number: i + 1, Err: err})
			continue
		}
		pages = append(pages, Page{Number: i + 1, Text: text})
	}

	if pages.Failed() == n {
		return nil, &BackendError{Backend: b.Name(), Path: path, Err: fmt.Errorf("all %d pages failed", n)}
	}
	return pages, nil
}
