package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/local/pdf2text/internal/converter"
)

// Converter converts one document.
type Converter interface {
	Convert(ctx context.Context, ref string) (*converter.Document, error)
}

// Config describes a batch run.
type Config struct {
	// Root is the directory the files were discovered in.
	Root string
	// OutputDir receives the .txt files; empty writes next to each source.
	OutputDir string
	// Jobs bounds the number of documents converted at once.
	Jobs int
	// Progress enables the progress bar on ProgressOut.
	Progress    bool
	ProgressOut io.Writer
}

// Runner converts a set of files independently of each other.
type Runner struct {
	conv Converter
	cfg  Config
}

// NewRunner creates a Runner.
func NewRunner(conv Converter, cfg Config) *Runner {
	if cfg.Jobs <= 0 {
		cfg.Jobs = 1
	}
	if cfg.ProgressOut == nil {
		cfg.ProgressOut = os.Stderr
	}
	return &Runner{conv: conv, cfg: cfg}
}

// Run converts every file. A failing document is logged and recorded in
// the summary; it never stops the others. Results keep the order of files.
func (r *Runner) Run(ctx context.Context, files []string) *Summary {
	start := time.Now()
	results := make([]FileResult, len(files))

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(r.cfg.ProgressOut),
		progressbar.OptionSetDescription("Converting PDFs"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(r.cfg.Progress),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(r.cfg.ProgressOut) }),
	)

	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Jobs)
	for i, file := range files {
		if ctx.Err() != nil {
			results[i] = FileResult{Source: file, Status: StatusError, Error: ctx.Err().Error()}
			continue
		}
		g.Go(func() error {
			results[i] = r.one(ctx, file)
			_ = bar.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	sum := newSummary(results, time.Since(start))
	log.Info().Int("files", len(files)).Int("succeeded", sum.Succeeded).Int("failed", sum.Failed).
		Dur("took", sum.Duration).Msg("batch finished")
	return sum
}

func (r *Runner) one(ctx context.Context, file string) FileResult {
	res := FileResult{Source: file}
	if err := ctx.Err(); err != nil {
		res.Status, res.Error = StatusError, err.Error()
		return res
	}

	doc, err := r.conv.Convert(ctx, file)
	if err != nil {
		log.Error().Err(err).Str("file", file).Msg("conversion failed")
		res.Status, res.Error = StatusError, err.Error()
		return res
	}

	out := OutputPath(r.cfg.Root, file, r.cfg.OutputDir)
	if err := writeText(out, doc.Text); err != nil {
		log.Error().Err(err).Str("file", file).Str("output", out).Msg("writing output failed")
		res.Status, res.Error = StatusError, err.Error()
		return res
	}
	res.Status = StatusSuccess
	res.Output = out
	res.Backend = doc.Backend
	res.Fallback = doc.Fallback
	res.Pages = doc.Pages
	return res
}

func writeText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
