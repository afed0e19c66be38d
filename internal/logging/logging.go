// Package logging provides structured logging for zenlings using zerolog.
//
// The TUI owns the terminal while the tutor runs, so logs never go to
// stdout or stderr. By default logging is disabled entirely; when a log
// file is configured, JSON lines are appended to it.
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger. It starts as a no-op logger and is
// replaced by Init when a log file is configured.
var Logger = zerolog.Nop()

var logFile *os.File

// Init opens path for appending and routes the global logger to it.
func Init(path, level string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	zerolog.SetGlobalLevel(parseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339

	logFile = f
	Logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}

// Close flushes and closes the log file, if one was opened.
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	Logger = zerolog.Nop()
}

// Component creates a child logger with a component field.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
