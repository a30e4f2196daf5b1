// Package logging configures structured logging with tint.
//
// Logs always go to stderr: in stdio mode stdout carries the MCP protocol.
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures logging at the level specified by LOG_LEVEL
func Setup() {
	SetupWithLevel(LevelFromString(os.Getenv("LOG_LEVEL")))
}

// SetupWithLevel configures logging at the given level
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// New builds a tint logger writing to w. Color is disabled unless w is the
// process stderr, so captured output stays plain.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    w != os.Stderr,
	}))
}

// LevelFromString maps a level name to a slog level, defaulting to info
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
