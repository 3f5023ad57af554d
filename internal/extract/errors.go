package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDegenerate marks backend output that carried no usable text.
var ErrDegenerate = errors.New("no extractable text")

// ErrNoPages is returned by a backend for a document that opened but has no
// pages; it is treated as malformed.
var ErrNoPages = errors.New("document has no pages")

// BackendError is returned by a single extraction backend.
type BackendError struct {
	Backend string
	Path    string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s extraction failed for %s: %v", e.Backend, e.Path, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ExtractionError is returned by the selector when no permitted backend
// produced a result. Causes holds one error per attempted backend.
type ExtractionError struct {
	Path   string
	Method Method
	Causes []error
}

func (e *ExtractionError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("extract %s (method %s): %s", e.Path, e.Method, strings.Join(msgs, "; "))
}

func (e *ExtractionError) Unwrap() []error { return e.Causes }

// IsExtractionError reports whether err is or wraps an ExtractionError.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
