package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options defines logger initialization parameters.
type Options struct {
	Level  string
	Pretty bool
	// Console receives human-facing log lines; stdout stays reserved for
	// extracted text. Defaults to os.Stderr.
	Console io.Writer

	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Axiom
	SendToAxiom  bool
	AxiomAPIKey  string
	AxiomOrgID   string
	AxiomDataset string
	AxiomFlush   time.Duration

	// Fields are attached to every event (e.g. run_id).
	Fields map[string]string
}

var ax *axiomShipper

// Init sets up the global logger: console, optional file rotation, optional Axiom forwarding.
func Init(opts Options) error {
	var writers []io.Writer

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if opts.Pretty {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen})
	} else {
		writers = append(writers, console)
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return fmt.Errorf("create logs dir: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		})
	}

	if opts.SendToAxiom && opts.AxiomAPIKey != "" {
		sink, err := newAxiomSink(opts.AxiomAPIKey, opts.AxiomOrgID)
		if err != nil {
			fmt.Fprintf(console, "Axiom disabled: %v\n", err)
		} else {
			ax = newAxiomShipper(sink, opts.AxiomDataset, opts.AxiomFlush)
			writers = append(writers, &axiomWriter{shipper: ax})
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.WarnLevel
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).Level(lvl).With().Timestamp()
	for k, v := range opts.Fields {
		ctx = ctx.Str(k, v)
	}
	log.Logger = ctx.Logger()
	return nil
}

// Close flushes any buffered external loggers.
func Close() {
	if ax != nil {
		_ = ax.Close()
		ax = nil
	}
}
