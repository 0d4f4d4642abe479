// Package logging configures zerolog for the command line tools.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs a console logger on stderr as the global logger.
func Init(verbose bool) {
	InitWriter(os.Stderr, verbose)
}

// InitWriter is Init with an explicit destination. The TUI uses it to
// keep log lines off the terminal it draws on.
func InitWriter(w io.Writer, verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    w != os.Stderr,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// NewLogger creates a logger writing to writers, or returns the global
// logger when none are given.
func NewLogger(writers ...io.Writer) zerolog.Logger {
	if len(writers) == 0 {
		return log.Logger
	}

	if len(writers) == 1 {
		return zerolog.New(writers[0]).With().Timestamp().Logger()
	}

	multi := zerolog.MultiLevelWriter(writers...)
	return zerolog.New(multi).With().Timestamp().Logger()
}

// WithComponent creates a logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// WithRun derives a logger tagged with a pipeline run id.
func WithRun(l zerolog.Logger, runID string) zerolog.Logger {
	return l.With().Str("run", runID).Logger()
}
