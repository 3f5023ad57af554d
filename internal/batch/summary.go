package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// File statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// FileResult is the outcome for one input file.
type FileResult struct {
	Source   string `json:"source"`
	Status   string `json:"status"`
	Output   string `json:"output,omitempty"`
	Backend  string `json:"backend,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Pages    int    `json:"pages,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Summary aggregates a batch run.
type Summary struct {
	Results   []FileResult  `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration_ns"`
}

func newSummary(results []FileResult, dur time.Duration) *Summary {
	s := &Summary{Results: results, Duration: dur}
	for _, r := range results {
		if r.Status == StatusSuccess {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Errors returns the failed results.
func (s *Summary) Errors() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Status != StatusSuccess {
			out = append(out, r)
		}
	}
	return out
}

// WriteJSON stores the summary as indented JSON at path.
func (s *Summary) WriteJSON(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
