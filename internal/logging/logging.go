// Package logging builds the process-wide structured logger. Pipeline stages
// attach a "component" attribute to the logger they receive.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a stdout text-handler logger filtering at the configured level.
func New(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

// parseLevel maps a config string to a slog level. Anything unrecognized
// resolves to debug so a typo never hides logs.
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
