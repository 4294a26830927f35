// Package watcher keeps an index in sync with a content directory: file
// events are debounced, coalesced and emitted in batches the caller maps to
// index upserts and removals.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Operation is a content-file change type.
type Operation int

const (
	// OpUpsert indicates a document file was created or modified.
	OpUpsert Operation = iota
	// OpDelete indicates a document file was removed.
	OpDelete
)

// String returns a human-readable operation name.
func (op Operation) String() string {
	if op == OpDelete {
		return "DELETE"
	}
	return "UPSERT"
}

// Event is one coalesced change to a content document file.
type Event struct {
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Watcher watches a content directory for *.json document changes and
// emits debounced event batches.
type Watcher struct {
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	fs      *fsnotify.Watcher
	deb     *Debouncer
	stopped bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window (default 500ms).
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		debounce: 500 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start watches dir until ctx is cancelled. Batches of coalesced events
// are delivered on the returned channel, which closes on shutdown.
func (w *Watcher) Start(ctx context.Context, dir string) (<-chan []Event, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w.mu.Lock()
	w.fs = fs
	w.deb = NewDebouncer(w.debounce)
	deb := w.deb
	w.mu.Unlock()

	go w.loop(ctx, fs, deb)
	return deb.Batches(), nil
}

func (w *Watcher) loop(ctx context.Context, fs *fsnotify.Watcher, deb *Debouncer) {
	defer func() {
		_ = fs.Close()
		deb.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fs.Events:
			if !ok {
				return
			}
			if !isDocumentFile(event.Name) {
				continue
			}
			if op, relevant := mapOperation(event.Op); relevant {
				w.logger.Debug("content file event",
					slog.String("path", event.Name),
					slog.String("op", op.String()))
				deb.Add(Event{Path: event.Name, Operation: op, Timestamp: time.Now()})
			}
		case err, ok := <-fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

func isDocumentFile(path string) bool {
	name := filepath.Base(path)
	return filepath.Ext(name) == ".json" && !strings.HasPrefix(name, ".")
}

func mapOperation(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return OpUpsert, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpDelete, true
	default:
		return 0, false
	}
}
