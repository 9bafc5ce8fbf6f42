// Package slogutil builds the log/slog loggers used by devenv.
package slogutil

import (
	"io"
	"log/slog"
)

// Silent is above every level devenv logs at; a logger at Silent prints nothing.
const Silent = slog.Level(100)

// levelNames are the logging.level values accepted in .devenvrc.
var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a .devenvrc logging.level value to a slog.Level.
// Names are matched exactly.
func ParseLevel(name string) (slog.Level, bool) {
	level, ok := levelNames[name]
	return level, ok
}

// NewLogger creates a logger using Handler.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger is the logger components fall back to when given nil.
func NewDiscardLogger() *slog.Logger {
	return NewLogger(io.Discard, Silent)
}
