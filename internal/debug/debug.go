// Package debug provides the logger shared by the rest of the module.
//
// Setting $WAYLAND_DEBUG to a positive number enables protocol
// tracing: every request and event is logged at debug level.
package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

var (
	log   zerolog.Logger
	trace bool
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()

	debugLevel, err := strconv.ParseInt(os.Getenv("WAYLAND_DEBUG"), 10, 0)
	if err == nil && debugLevel > 0 {
		trace = true
	}
	SetLevel("info")
}

// SetOutput replaces the logger's destination, such as with a
// zerolog.ConsoleWriter.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

// Logger returns the shared logger.
func Logger() zerolog.Logger {
	return log
}

// Tracing reports whether protocol tracing is enabled.
func Tracing() bool {
	return trace
}

// SetTracing turns protocol tracing on or off.
func SetTracing(enabled bool) {
	trace = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// ParseLevel converts a level name into a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// SetLevel sets the global log level. The trace level also enables
// protocol tracing, and tracing keeps the level at debug or lower.
// Unknown names select info.
func SetLevel(level string) {
	l, _ := ParseLevel(level)
	if l == zerolog.TraceLevel {
		trace = true
	}
	if trace {
		l = min(l, zerolog.DebugLevel)
	}
	zerolog.SetGlobalLevel(l)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

// Printf logs a protocol trace line. It does nothing unless tracing
// is enabled.
func Printf(str string, args ...any) {
	if !trace {
		return
	}
	log.Debug().Msgf(str, args...)
}
