package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/pdf2text/internal/extract"
	"github.com/local/pdf2text/internal/filetype"
	"github.com/local/pdf2text/internal/metrics"
	"github.com/local/pdf2text/internal/pdfinfo"
	"github.com/local/pdf2text/internal/source"
	"github.com/local/pdf2text/internal/textclean"
)

var (
	// ErrNotFound is returned when a local input does not exist.
	ErrNotFound = errors.New("pdf file not found")
	// ErrNotPDF is returned for inputs that are not PDF documents.
	ErrNotPDF = errors.New("file must be a PDF")
)

// Extractor is the extraction policy the converter delegates to.
type Extractor interface {
	Extract(ctx context.Context, path string, m extract.Method) (extract.Result, error)
}

// Resolver turns references into local files.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (*source.Local, error)
}

// Options control a conversion.
type Options struct {
	Method        extract.Method
	Clean         bool
	Password      string
	Validate      bool
	PageSeparator string
}

// Dependencies are the collaborators of a Converter.
type Dependencies struct {
	Extractor Extractor
	Resolver  Resolver
	Detector  *filetype.Detector
	Metrics   *metrics.Recorder
}

// Document is the outcome of one successful conversion.
type Document struct {
	Source   string
	Name     string
	Text     string
	Pages    int
	Backend  string
	Fallback bool
	Duration time.Duration
}

// Converter converts one PDF reference to text.
type Converter struct {
	deps Dependencies
	opts Options
}

// New creates a Converter.
func New(deps Dependencies, opts Options) *Converter {
	if deps.Detector == nil {
		deps.Detector = filetype.New()
	}
	if deps.Resolver == nil {
		deps.Resolver = source.NewResolver(60*time.Second, source.S3Options{})
	}
	if opts.PageSeparator == "" {
		opts.PageSeparator = "\n"
	}
	return &Converter{deps: deps, opts: opts}
}

// Convert extracts the text of the document behind ref.
func (c *Converter) Convert(ctx context.Context, ref string) (*Document, error) {
	start := time.Now()
	doc, err := c.convert(ctx, ref)
	dur := time.Since(start)

	fallback := doc != nil && doc.Fallback
	c.deps.Metrics.ObserveDocument(dur, fallback, err)
	if err != nil {
		return nil, err
	}
	doc.Duration = dur
	log.Info().Str("file", ref).Str("backend", doc.Backend).Bool("fallback", doc.Fallback).
		Int("pages", doc.Pages).Int("chars", len(doc.Text)).Dur("took", dur).Msg("document converted")
	return doc, nil
}

func (c *Converter) convert(ctx context.Context, ref string) (*Document, error) {
	remote := source.IsRemote(ref)
	if !remote && !filetype.HasPDFExtension(ref) {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, ref)
	}

	local, err := c.deps.Resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	defer local.Close()

	if _, err := os.Stat(local.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, fmt.Errorf("stat %s: %w", ref, err)
	}
	isPDF, err := c.deps.Detector.IsPDF(local.Path)
	if err != nil {
		return nil, err
	}
	if !isPDF {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, ref)
	}

	path := local.Path
	switch {
	case c.opts.Password == "":
	case !pdfinfo.Encrypted(path):
		log.Debug().Str("file", ref).Msg("password given for unencrypted pdf, ignoring")
	default:
		dec, cleanup, err := pdfinfo.Decrypt(path, c.opts.Password)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = dec
	}
	if c.opts.Validate {
		if err := pdfinfo.Validate(path); err != nil {
			log.Warn().Err(err).Str("file", ref).Msg("pdf failed validation, extracting anyway")
		}
	}

	res, err := c.deps.Extractor.Extract(ctx, path, c.opts.Method)
	if err != nil {
		return nil, err
	}
	if res.Fallback {
		log.Info().Str("file", ref).AnErr("reason", res.Discarded).Msg("fell back to simple extraction")
	}

	pages := res.Pages
	if c.opts.Clean {
		pages = make(extract.Pages, len(res.Pages))
		for i, p := range res.Pages {
			p.Text = textclean.Page(p.Text, p.Number)
			pages[i] = p
		}
	}

	return &Document{
		Source:   ref,
		Name:     local.Name(),
		Text:     pages.Text(c.opts.PageSeparator),
		Pages:    len(pages),
		Backend:  res.Backend,
		Fallback: res.Fallback,
	}, nil
}
