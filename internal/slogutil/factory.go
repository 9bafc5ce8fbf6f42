package slogutil

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Options selects the CLI logger configuration.
type Options struct {
	// Verbosity counts -v flags; Quiet silences everything.
	Verbosity int
	Quiet     bool

	// ConfigLevel is logging.level from .devenvrc, used when no -v flag is given.
	ConfigLevel string
	// Format is "human" (default) or "json".
	Format string

	// LogFile additionally receives every record at debug level when set.
	LogFile string
}

// LoggerFactory builds the CLI logger and owns the files it opens.
type LoggerFactory struct {
	opts    Options
	closers []io.Closer
}

// NewLoggerFactory creates a new logger factory.
func NewLoggerFactory(opts Options) *LoggerFactory {
	return &LoggerFactory{opts: opts}
}

// Logger returns a logger writing to w and, when configured, to the log file.
// The log file always uses the text handler at debug level and is opened in
// append mode.
func (f *LoggerFactory) Logger(w io.Writer) (*slog.Logger, error) {
	console := f.handler(w, f.effectiveLevel())
	if f.opts.LogFile == "" {
		return slog.New(console), nil
	}

	file, err := os.OpenFile(f.opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	f.closers = append(f.closers, file)

	debug := NewHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(fanout{console, debug}), nil
}

func (f *LoggerFactory) handler(w io.Writer, level slog.Level) slog.Handler {
	if f.opts.Format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return NewHandler(w, &slog.HandlerOptions{Level: level})
}

// effectiveLevel returns the console log level.
// Precedence: -q > -v flags > logging.level > warn
func (f *LoggerFactory) effectiveLevel() slog.Level {
	switch {
	case f.opts.Quiet:
		return Silent
	case f.opts.Verbosity == 1:
		return slog.LevelInfo
	case f.opts.Verbosity > 1:
		return slog.LevelDebug
	}
	if level, ok := ParseLevel(f.opts.ConfigLevel); ok {
		return level
	}
	return slog.LevelWarn
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}

// fanout sends each record to every handler enabled for its level.
type fanout []slog.Handler

func (h fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, child := range h {
		if child.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, child := range h {
		if !child.Enabled(ctx, r.Level) {
			continue
		}
		if err := child.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(child slog.Handler) slog.Handler { return child.WithAttrs(attrs) })
}

func (h fanout) WithGroup(name string) slog.Handler {
	return h.each(func(child slog.Handler) slog.Handler { return child.WithGroup(name) })
}

func (h fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(h))
	for i, child := range h {
		out[i] = fn(child)
	}
	return out
}
