package extract

import (
	"fmt"
	"strings"
)

// Method selects which backend(s) the selector may invoke.
type Method int

const (
	// Auto tries the structured backend first and falls back to the simple one.
	Auto Method = iota
	// Structured invokes only the layout-aware backend.
	Structured
	// Simple invokes only the sequential plain-text backend.
	Simple
)

func (m Method) String() string {
	switch m {
	case Structured:
		return "structured"
	case Simple:
		return "simple"
	default:
		return "auto"
	}
}

// ParseMethod maps a flag value to a Method. The legacy names "pdfplumber"
// and "pypdf2" are accepted as aliases of structured and simple.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "structured", "pdfplumber":
		return Structured, nil
	case "simple", "pypdf2":
		return Simple, nil
	default:
		return Auto, fmt.Errorf("unknown extraction method %q (want auto, pypdf2 or pdfplumber)", s)
	}
}
