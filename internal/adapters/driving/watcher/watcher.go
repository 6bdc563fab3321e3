// Package watcher ingests documents as they appear in a watched directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/walnut-labs/walnut/internal/core/ports/driven"
	"github.com/walnut-labs/walnut/internal/core/ports/driving"
	"github.com/walnut-labs/walnut/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before ingestion.
// Editors and downloads emit bursts of write events for one logical save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher uploads supported files dropped into a directory.
type Watcher struct {
	docs     driving.DocumentService
	registry driven.ExtractorRegistry
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher. debounce <= 0 falls back to DefaultDebounce.
func New(docs driving.DocumentService, registry driven.ExtractorRegistry, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		docs:     docs,
		registry: registry,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches dir until the context is cancelled. Create and write events
// for supported files schedule a debounced upload; everything else is
// ignored.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// handle schedules an upload for relevant events. Repeated events for the
// same path reset the debounce timer.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.registry.IsSupported(event.Name) {
		logger.Debug("Ignoring unsupported file %s", event.Name)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

// ingest uploads one settled file. Failures are logged, not fatal; the
// watch loop keeps running.
func (w *Watcher) ingest(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	result, err := w.docs.Upload(ctx, filepath.Base(path), content)
	if err != nil {
		logger.Warn("Uploading %s: %v", path, err)
		return
	}
	logger.Info("Ingested %s as %s (%d chunks)", path, result.DocumentID, result.ChunksCreated)
}

// cancelPending stops all outstanding debounce timers.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
