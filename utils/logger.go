package utils

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a Logger writing human-readable lines to stdout, with
// ERROR entries going to stderr.
func NewLogger(level string) *Logger {
	return NewSplitLogger(os.Stdout, os.Stderr, level)
}

// NewSplitLogger sends ERROR entries to errOut and everything else to out.
func NewSplitLogger(out, errOut io.Writer, level string) *Logger {
	w := levelSplitWriter{out: consoleWriter(out), err: consoleWriter(errOut)}
	return &Logger{zl: newZerolog(w, level)}
}

// NewLoggerTo creates a Logger writing every entry to w, dropping entries
// below level (debug, info, warn, error). Unknown levels fall back to info.
func NewLoggerTo(w io.Writer, level string) *Logger {
	return &Logger{zl: newZerolog(consoleWriter(w), level)}
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    w != os.Stdout && w != os.Stderr,
	}
}

func newZerolog(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}

// levelSplitWriter routes events by level. zerolog calls WriteLevel because
// the type implements zerolog.LevelWriter.
type levelSplitWriter struct {
	out io.Writer
	err io.Writer
}

func (w levelSplitWriter) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

func (w levelSplitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel {
		return w.err.Write(p)
	}
	return w.out.Write(p)
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}
