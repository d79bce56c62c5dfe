package monitoring

import (
	"io"
	"log"
	"time"

	"github.com/rs/zerolog"
)

// Logf is the package-level diagnostic logger used by the codec. It is muted
// by default; SetLogger or UseStdLogger route it somewhere.
var Logf func(format string, v ...interface{}) = discard

func discard(string, ...interface{}) {}

// UseStdLogger routes Logf to the standard library logger.
func UseStdLogger() {
	Logf = log.Printf
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = discard
		return
	}
	Logf = f
}

// NewZerolog builds a timestamped zerolog logger writing to w. An unknown
// level falls back to info. console selects the human-readable writer.
func NewZerolog(w io.Writer, level string, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Zerologf adapts a zerolog logger to the Logf signature. Messages are logged
// at debug level; codec diagnostics are not user-facing.
func Zerologf(logger zerolog.Logger) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		logger.Debug().Msgf(format, v...)
	}
}
