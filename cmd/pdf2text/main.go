package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/local/pdf2text/internal/batch"
	cfgpkg "github.com/local/pdf2text/internal/config"
	"github.com/local/pdf2text/internal/converter"
	"github.com/local/pdf2text/internal/extract"
	logpkg "github.com/local/pdf2text/internal/logger"
	"github.com/local/pdf2text/internal/metrics"
	"github.com/local/pdf2text/internal/pdfinfo"
	"github.com/local/pdf2text/internal/source"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1 // one or more documents failed
	exitUsage  = 2 // bad flags or input path
)

const bannerWidth = 50

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type flags struct {
	output      string
	method      string
	recursive   bool
	verbose     bool
	jobs        int
	clean       bool
	password    string
	validate    bool
	report      string
	metricsFile string
	noProgress  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(cfgpkg.Load())
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.code == exitUsage {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	// cobra flag and argument errors
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitUsage
}

func newRootCmd(cfg cfgpkg.Config) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "pdf2text INPUT",
		Short: "Convert PDF documents to plain text",
		Long: `Convert a PDF file, or every PDF in a directory, to plain text.

The auto method extracts with the layout-aware MuPDF backend and falls back to
the simple backend when that fails or yields no text. INPUT may also be an
http(s):// or s3://bucket/key reference to a single PDF.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, cfg, f, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file or directory for converted text")
	fl.StringVarP(&f.method, "method", "m", cfg.Extract.Method, "extraction method: auto, pypdf2 or pdfplumber")
	fl.BoolVarP(&f.recursive, "recursive", "r", false, "process all PDFs in directory recursively")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
	fl.IntVarP(&f.jobs, "jobs", "j", cfg.Extract.Jobs, "documents converted in parallel in directory mode")
	fl.BoolVar(&f.clean, "clean", false, "drop page numbers, running headers and footers")
	fl.StringVar(&f.password, "password", "", "password for encrypted PDFs")
	fl.BoolVar(&f.validate, "validate", false, "validate PDF structure before extraction (warnings only)")
	fl.StringVar(&f.report, "report", "", "write a JSON report of a directory run to this file")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	fl.BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func execute(cmd *cobra.Command, cfg cfgpkg.Config, f *flags, input string) error {
	method, err := extract.ParseMethod(f.method)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	logOpts := logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		Console:      cmd.ErrOrStderr(),
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
		Fields:       map[string]string{"run_id": uuid.NewString()},
	}
	if f.verbose {
		logOpts.Level = "debug"
	}
	if err := logpkg.Init(logOpts); err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	defer logpkg.Close()

	if n := source.CleanupTemps("", cfg.Source.TempMaxAge); n > 0 {
		log.Debug().Int("removed", n).Msg("removed stale temp downloads")
	}

	rec := metrics.New()
	if f.metricsFile != "" {
		defer func() {
			if err := rec.WriteFile(f.metricsFile); err != nil {
				log.Error().Err(err).Str("file", f.metricsFile).Msg("failed to write metrics")
			}
		}()
	}

	sel := extract.NewSelector(extract.NewStructuredBackend(), extract.NewSimpleBackend(), extract.Options{
		MinChars: cfg.Extract.MinChars,
		Observer: rec.ObserveBackend,
	})
	resolver := source.NewResolver(cfg.Source.HTTPTimeout, source.S3Options{
		Region:    cfg.Source.S3Region,
		Endpoint:  cfg.Source.S3Endpoint,
		AccessKey: cfg.Source.S3AccessKey,
		SecretKey: cfg.Source.S3SecretKey,
	})
	conv := converter.New(converter.Dependencies{
		Extractor: sel,
		Resolver:  resolver,
		Metrics:   rec,
	}, converter.Options{
		Method:        method,
		Clean:         f.clean,
		Password:      f.password,
		Validate:      f.validate,
		PageSeparator: cfg.Extract.PageSeparator,
	})

	ctx := cmd.Context()
	if source.IsRemote(input) {
		return convertOne(ctx, cmd, conv, f, input)
	}
	info, err := os.Stat(input)
	switch {
	case err != nil:
		return &exitError{code: exitUsage, err: fmt.Errorf("invalid path: %s", input)}
	case info.IsDir():
		return convertDir(ctx, cmd, conv, f, input)
	default:
		return convertOne(ctx, cmd, conv, f, input)
	}
}

func convertOne(ctx context.Context, cmd *cobra.Command, conv *converter.Converter, f *flags, input string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if f.verbose {
		fmt.Fprintf(errOut, "Converting single PDF: %s\n", input)
		if !source.IsRemote(input) {
			if n, err := pdfinfo.PageCount(input); err == nil {
				fmt.Fprintf(errOut, "Pages: %d\n", n)
			}
		}
	}

	doc, err := conv.Convert(ctx, input)
	if err != nil {
		fmt.Fprintf(errOut, "❌ Error: %v\n", err)
		return &exitError{code: exitFailed, err: err}
	}
	if f.verbose {
		fmt.Fprintf(errOut, "Backend: %s (fallback: %t)\n", doc.Backend, doc.Fallback)
	}

	if f.output == "" {
		bar := strings.Repeat("=", bannerWidth)
		fmt.Fprintf(out, "\n%s\nEXTRACTED TEXT:\n%s\n%s\n", bar, bar, doc.Text)
		return nil
	}

	dest := f.output
	if st, err := os.Stat(dest); err == nil && st.IsDir() {
		dest = filepath.Join(dest, strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))+".txt")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &exitError{code: exitFailed, err: err}
	}
	if err := os.WriteFile(dest, []byte(doc.Text), 0o644); err != nil {
		fmt.Fprintf(errOut, "❌ Error: %v\n", err)
		return &exitError{code: exitFailed, err: err}
	}
	fmt.Fprintf(out, "✅ Successfully converted to: %s\n", dest)
	return nil
}

func convertDir(ctx context.Context, cmd *cobra.Command, conv *converter.Converter, f *flags, dir string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	files, err := batch.Discover(dir, f.recursive)
	if err != nil {
		return &exitError{code: exitUsage, err: fmt.Errorf("scan %s: %w", dir, err)}
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No PDF files found in %s\n", dir)
		return nil
	}
	fmt.Fprintf(out, "Found %d PDF files\n", len(files))

	runner := batch.NewRunner(conv, batch.Config{
		Root:        dir,
		OutputDir:   f.output,
		Jobs:        f.jobs,
		Progress:    !f.noProgress,
		ProgressOut: errOut,
	})
	sum := runner.Run(ctx, files)

	if f.report != "" {
		if err := sum.WriteJSON(f.report); err != nil {
			log.Error().Err(err).Str("file", f.report).Msg("failed to write report")
		}
	}

	fmt.Fprintf(out, "\n✅ Successfully converted: %d/%d\n", sum.Succeeded, len(files))
	if sum.Failed == 0 {
		return nil
	}
	fmt.Fprintf(out, "❌ Failed: %d\n", sum.Failed)
	if f.verbose {
		fmt.Fprintln(out, "\nErrors:")
		for _, r := range sum.Errors() {
			fmt.Fprintf(out, "  - %s: %s\n", r.Source, r.Error)
		}
	}
	return &exitError{code: exitFailed, err: fmt.Errorf("%d of %d documents failed", sum.Failed, len(files))}
}
