// FILE: chassis/internal/logger/logger.go
// Package logger holds the process-wide slog logger for the chassis CLI.
//
// The chassis library itself does not log. Commands initialize this
// singleton once and inject it wherever a *slog.Logger is accepted.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

// singleton is the package-level logger created by Initialize.
// Accessed atomically to be safe for concurrent use across goroutines.
var singleton atomic.Pointer[slog.Logger]

func init() {
	// A usable default so callers that skip Initialize do not panic.
	singleton.Store(newLogger(structuredLogs(), false))
}

// Get returns the current *slog.Logger for injection into structs.
func Get() *slog.Logger {
	return singleton.Load()
}

// Set replaces the singleton logger. This is intended for tests that need to
// capture log output; production code should use Initialize instead.
func Set(l *slog.Logger) {
	singleton.Store(l)
}

// Initialize configures the singleton. Output is plain text unless the
// CHASSIS_STRUCTURED_LOGS env var is set to true, which switches to JSON;
// debug lowers the level to slog.LevelDebug.
func Initialize(debug bool) {
	singleton.Store(newLogger(structuredLogs(), debug))
}

// Debugf logs a formatted message at debug level using the singleton logger.
func Debugf(msg string, args ...any) {
	Get().Debug(fmt.Sprintf(msg, args...))
}

// Infof logs a formatted message at info level using the singleton logger.
func Infof(msg string, args ...any) {
	Get().Info(fmt.Sprintf(msg, args...))
}

// Warnf logs a formatted message at warning level using the singleton logger.
func Warnf(msg string, args ...any) {
	Get().Warn(fmt.Sprintf(msg, args...))
}

// Errorf logs a formatted message at error level using the singleton logger.
func Errorf(msg string, args ...any) {
	Get().Error(fmt.Sprintf(msg, args...))
}

func newLogger(structured, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if structured {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

func structuredLogs() bool {
	structured, err := strconv.ParseBool(os.Getenv("CHASSIS_STRUCTURED_LOGS"))
	if err != nil {
		// Unset or unparsable env var keeps the developer-facing text output
		return false
	}
	return structured
}
