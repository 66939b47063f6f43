// Package logger provides test helpers for structured logging.
package logger

import (
	"log/slog"
	"os"
)

// NewTestLogger creates a logger for tests.
// It logs at WARN to keep test output quiet; set TEST_DEBUG to see debug records.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}

	return slog.New(newHandler(os.Stdout, Config{Level: level, Format: "text"}))
}
