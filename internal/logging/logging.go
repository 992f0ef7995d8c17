// Package logging implements the crawler's structured logger. It
// keeps the teacher's narrow Logger interface shape but backs it with
// zerolog so every line carries the fields spec.md §7 requires:
// timestamp, severity, URL, routine, message.
//
// Ground: _examples/original_source/dysdera/logger.py — DysderaLogger
// always writes warnings/errors to the log file; informational lines
// only reach the file when verboseLog is set; console echo happens
// only when verbose is set.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the crawler's logging interface: every call is tagged with
// the routine performing the work and, where relevant, the URL being
// acted on.
type Logger interface {
	InfoAt(routine, url, msg string)
	WarnAt(routine, url, msg string)
	ErrorAt(routine, url, msg string)
	Debugf(format string, args ...any)
}

type zeroLogger struct {
	file       zerolog.Logger
	console    zerolog.Logger
	verbose    bool
	verboseLog bool
}

// New builds a Logger writing warnings/errors (and info lines, when
// verboseLog is true) to path (created/appended) and, when verbose is
// true, also echoing every line to stdout.
func New(path string, verbose, verboseLog bool) (Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &zeroLogger{
		file:       zerolog.New(f).With().Timestamp().Logger(),
		console:    zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger(),
		verbose:    verbose,
		verboseLog: verboseLog,
	}, nil
}

// NewWriter builds a Logger writing to an arbitrary io.Writer instead
// of a file path, used by tests.
func NewWriter(w io.Writer, verbose, verboseLog bool) Logger {
	return &zeroLogger{
		file:       zerolog.New(w).With().Timestamp().Logger(),
		console:    zerolog.New(w).With().Timestamp().Logger(),
		verbose:    verbose,
		verboseLog: verboseLog,
	}
}

func (z *zeroLogger) InfoAt(routine, url, msg string) {
	if z.verboseLog {
		z.file.Info().Str("routine", routine).Str("url", url).Msg(msg)
	}
	if z.verbose {
		z.console.Info().Str("routine", routine).Str("url", url).Msg(msg)
	}
}

func (z *zeroLogger) WarnAt(routine, url, msg string) {
	z.file.Warn().Str("routine", routine).Str("url", url).Msg(msg)
	if z.verbose {
		z.console.Warn().Str("routine", routine).Str("url", url).Msg(msg)
	}
}

func (z *zeroLogger) ErrorAt(routine, url, msg string) {
	z.file.Error().Str("routine", routine).Str("url", url).Msg(msg)
	if z.verbose {
		z.console.Error().Str("routine", routine).Str("url", url).Msg(msg)
	}
}

func (z *zeroLogger) Debugf(format string, args ...any) {
	if z.verbose {
		z.console.Debug().Msgf(format, args...)
	}
}
