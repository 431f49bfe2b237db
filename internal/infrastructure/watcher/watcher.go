// Package watcher reloads the dataset when its source file changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a source must stay quiet before a reload.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc is called with the source path once changes settle.
type ReloadFunc func(ctx context.Context, path string) error

// Stats tracks watcher activity.
type Stats struct {
	Events    int
	Reloads   int
	Errors    int
	LastEvent time.Time
}

// SourceWatcher watches a single source file. It watches the parent
// directory so editors that save by rename are still seen.
type SourceWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	reload   ReloadFunc
	logger   *zap.Logger
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
}

// Option configures a SourceWatcher.
type Option func(*SourceWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *SourceWatcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *SourceWatcher) { w.logger = l }
}

// New creates a watcher for path that calls reload after changes.
func New(path string, reload ReloadFunc, opts ...Option) (*SourceWatcher, error) {
	if reload == nil {
		return nil, errors.New("reload func is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving source path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &SourceWatcher{
		watcher:  fw,
		path:     abs,
		reload:   reload,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched source path.
func (w *SourceWatcher) Path() string {
	return w.path
}

// Start begins watching. It is non-blocking; events are handled in a
// goroutine until ctx is canceled or Stop is called.
func (w *SourceWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Info("watching source", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *SourceWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("closing file watcher", zap.Error(err))
	}
	w.logger.Info("watcher stopped")
}

// Done is closed when the event loop exits.
func (w *SourceWatcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a copy of the activity counters.
func (w *SourceWatcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *SourceWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 5
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

func (w *SourceWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("source event", zap.String("op", event.Op.String()))

	w.mu.Lock()
	now := time.Now()
	w.stats.Events++
	w.stats.LastEvent = now
	w.pending = now
	w.mu.Unlock()
}

func (w *SourceWatcher) processPending(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	err := w.reload(ctx, w.path)

	w.mu.Lock()
	if err != nil {
		w.stats.Errors++
	} else {
		w.stats.Reloads++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("source reloaded", zap.String("path", w.path))
}
