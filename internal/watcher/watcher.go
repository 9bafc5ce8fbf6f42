// Package watcher re-runs project analysis when relevant files change.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"devenv/internal/slogutil"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event is a change to a file, with Path relative to the watched root.
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// ChangeHandler is called with each debounced batch of relevant events.
type ChangeHandler func(root string, events []Event)

// Config contains watcher configuration. Patterns are doublestar globs
// matched against slash-separated paths relative to the root.
type Config struct {
	DebounceMs       int      `json:"debounceMs" mapstructure:"debounce_ms"`
	IgnorePatterns   []string `json:"ignorePatterns" mapstructure:"ignore_patterns"`
	RelevantPatterns []string `json:"relevantPatterns" mapstructure:"relevant_patterns"`
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{
		DebounceMs: 500,
		IgnorePatterns: []string{
			"**/node_modules/**",
			"**/.git/**",
			"**/dist/**",
			"**/coverage/**",
			"**/*.log",
			"**/*.tmp",
		},
		RelevantPatterns: []string{
			"package.json",
			"package-lock.json",
			".env",
			".env.example",
			"tsconfig.json",
			"SERVICES.toml",
			".devenvrc*",
			"**/*.{js,cjs,mjs,ts}",
		},
	}
}

// Watcher watches a project directory tree
type Watcher struct {
	config  Config
	logger  *slog.Logger
	handler ChangeHandler
}

// New creates a watcher. A nil logger discards output.
func New(config Config, logger *slog.Logger, handler ChangeHandler) *Watcher {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Watcher{
		config:  config,
		logger:  logger,
		handler: handler,
	}
}

// Run watches root until ctx is done. The handler runs on the calling
// goroutine, one batch at a time, and never after Run returns. Events still
// pending at cancellation are dropped.
func (w *Watcher) Run(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addTree(fsw, root, root); err != nil {
		return err
	}

	batch := NewBatchDebouncer(time.Duration(w.config.DebounceMs) * time.Millisecond)
	defer batch.Cancel()

	w.logger.Info("Watching project", "root", root, "debounceMs", w.config.DebounceMs)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopped watching project", "root", root)
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, root, ev, batch)

		case <-batch.Ready():
			events := batch.Take()
			if len(events) == 0 {
				continue
			}
			w.logger.Debug("Changes detected", "root", root, "eventCount", len(events))
			if w.handler != nil {
				w.handler(root, events)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, root string, ev fsnotify.Event, batch *BatchDebouncer) {
	rel, err := filepath.Rel(root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if w.IsIgnored(rel) {
		return
	}

	// New directories are not covered by existing watches.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(fsw, root, ev.Name); err != nil {
				w.logger.Warn("Failed to watch directory", "path", rel, "error", err)
			}
			return
		}
	}

	typ, ok := eventType(ev.Op)
	if !ok || !w.IsRelevant(rel) {
		return
	}
	batch.Add(Event{Type: typ, Path: rel, Timestamp: time.Now()})
}

// addTree watches dir and every non-ignored directory below it.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && w.IsIgnored(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func eventType(op fsnotify.Op) (EventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreate, true
	case op.Has(fsnotify.Write):
		return EventModify, true
	case op.Has(fsnotify.Remove):
		return EventDelete, true
	case op.Has(fsnotify.Rename):
		return EventRename, true
	default:
		return 0, false
	}
}

// IsIgnored checks if a root-relative path matches an ignore pattern
func (w *Watcher) IsIgnored(rel string) bool {
	return matchAny(w.config.IgnorePatterns, rel)
}

// IsRelevant reports whether a change to rel can affect the analysis.
func (w *Watcher) IsRelevant(rel string) bool {
	return matchAny(w.config.RelevantPatterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}
