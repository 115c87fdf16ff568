// Package util provides low-level helpers shared by all other packages.
package util

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogNormal  LogLevel = 1
	LogVerbose LogLevel = 2
	LogDebug   LogLevel = 3
)

// Output formats accepted by [NewLoggerFormat].
const (
	FormatAuto   = "auto"   // pretty on a terminal, JSON otherwise
	FormatPretty = "pretty" // zerolog console writer
	FormatJSON   = "json"   // one JSON object per line
)

// Logger writes levelled messages through zerolog.  Verbose maps to
// zerolog's debug level and Debug to trace.
type Logger struct {
	level  LogLevel
	format string
	zl     zerolog.Logger
}

// NewLogger returns a Logger on stderr that prints messages at or below
// the given verbosity (0 = quiet, 1 = normal, 2 = verbose, 3 = debug).
func NewLogger(verbosity int) *Logger {
	return NewLoggerFormat(verbosity, FormatAuto, os.Stderr)
}

// NewLoggerFormat is NewLogger with an explicit format and writer.
func NewLoggerFormat(verbosity int, format string, w io.Writer) *Logger {
	l := &Logger{level: LogLevel(verbosity), format: format}
	l.zl = l.build(w)
	return l
}

// NopLogger discards everything.
func NopLogger() *Logger {
	return &Logger{level: LogQuiet, format: FormatJSON, zl: zerolog.Nop()}
}

// SetOutput overrides the output writer (default: os.Stderr).  Fields
// added with [Logger.With] are not carried over.
func (l *Logger) SetOutput(w io.Writer) { l.zl = l.build(w) }

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// With returns a child logger that tags every message with key=value.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		level:  l.level,
		format: l.format,
		zl:     l.zl.With().Str(key, value).Logger(),
	}
}

// Info prints when verbosity ≥ 1.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Warn prints when verbosity ≥ 1.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Verbose prints when verbosity ≥ 2.
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Debug prints when verbosity ≥ 3.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Trace().Msgf(format, args...)
}

// Error always prints regardless of verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) build(w io.Writer) zerolog.Logger {
	out := w
	if l.format == FormatPretty || (l.format == FormatAuto && isTerminal(w)) {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: "15:04:05.000",
		}
	}

	return zerolog.New(out).
		Level(zerologLevel(l.level)).
		With().
		Timestamp().
		Logger()
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch {
	case level <= LogQuiet:
		return zerolog.ErrorLevel
	case level == LogNormal:
		return zerolog.InfoLevel
	case level == LogVerbose:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
