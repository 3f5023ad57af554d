package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Observer is notified after every backend invocation.
type Observer func(backend string, dur time.Duration, err error)

// Options tune the selector.
type Options struct {
	// MinChars is the non-whitespace rune count below which auto mode treats
	// structured output as degenerate.
	MinChars int
	Observer Observer
}

// Result is a successful extraction.
type Result struct {
	Pages   Pages
	Backend string
	// Fallback is set when auto mode discarded the structured attempt.
	Fallback bool
	// Discarded is why the structured attempt was discarded, if it was.
	Discarded error
}

// Selector picks between a structured-layout backend and a simple-text
// backend according to a Method.
type Selector struct {
	structured Backend
	simple     Backend
	opts       Options
}

// NewSelector builds a selector over the two backends.
func NewSelector(structured, simple Backend, opts Options) *Selector {
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinChars
	}
	return &Selector{structured: structured, simple: simple, opts: opts}
}

// Extract returns the best available text for path. Explicit methods invoke
// exactly one backend. Auto invokes the structured backend and falls back to
// the simple backend when it fails or its output is degenerate.
func (s *Selector) Extract(ctx context.Context, path string, m Method) (Result, error) {
	switch m {
	case Structured, Simple:
		b := s.structured
		if m == Simple {
			b = s.simple
		}
		pages, err := s.run(ctx, b, path)
		if err != nil {
			return Result{}, &ExtractionError{Path: path, Method: m, Causes: []error{err}}
		}
		return Result{Pages: pages, Backend: b.Name()}, nil
	case Auto:
		return s.auto(ctx, path)
	default:
		return Result{}, fmt.Errorf("unsupported method %d", int(m))
	}
}

func (s *Selector) auto(ctx context.Context, path string) (Result, error) {
	pages, err := s.run(ctx, s.structured, path)
	if err == nil && !Degenerate(pages, s.opts.MinChars) {
		return Result{Pages: pages, Backend: s.structured.Name()}, nil
	}
	if err == nil {
		err = &BackendError{Backend: s.structured.Name(), Path: path, Err: ErrDegenerate}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, &ExtractionError{Path: path, Method: Auto, Causes: []error{err, ctxErr}}
	}

	log.Debug().Err(err).Str("file", path).Str("fallback", s.simple.Name()).Msg("structured extraction discarded")

	fallback, ferr := s.run(ctx, s.simple, path)
	if ferr != nil {
		return Result{}, &ExtractionError{Path: path, Method: Auto, Causes: []error{err, ferr}}
	}
	return Result{Pages: fallback, Backend: s.simple.Name(), Fallback: true, Discarded: err}, nil
}

// run invokes one backend, converting parser panics into a BackendError.
func (s *Selector) run(ctx context.Context, b Backend, path string) (pages Pages, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &BackendError{Backend: b.Name(), Path: path, Err: fmt.Errorf("parser panic: %v", r)}
		}
		if s.opts.Observer != nil {
			s.opts.Observer(b.Name(), time.Since(start), err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, &BackendError{Backend: b.Name(), Path: path, Err: err}
	}
	pages, err = b.Extract(ctx, path)
	if err != nil {
		var be *BackendError
		if !errors.As(err, &be) {
			err = &BackendError{Backend: b.Name(), Path: path, Err: err}
		}
		return nil, err
	}
	log.Debug().Str("backend", b.Name()).Str("file", path).
		Int("pages", len(pages)).Int("chars", pages.CharCount()).Int("failed_pages", pages.Failed()).
		Msg("backend extraction finished")
	return pages, nil
}
