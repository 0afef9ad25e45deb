package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"skinsight/domain/compat"
)

// TableWatcher holds the current compatibility-table snapshot and hot-reloads
// it when the override file changes. Without an override file it simply
// serves the built-in defaults.
type TableWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu      sync.RWMutex
	current *compat.Tables

	stopCh chan struct{}
}

// NewTableWatcher loads the tables once and, when a path is configured,
// starts watching it for changes.
func NewTableWatcher(path string, logger *zap.Logger) (*TableWatcher, error) {
	tables, err := LoadTables(path)
	if err != nil {
		return nil, err
	}

	w := &TableWatcher{
		path:    path,
		logger:  logger,
		current: tables,
		stopCh:  make(chan struct{}),
	}

	if path == "" {
		return w, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.watcher = watcher

	go w.watch()

	return w, nil
}

// Current returns the current immutable table snapshot.
func (w *TableWatcher) Current() *compat.Tables {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Reload re-reads the table file and swaps in the new snapshot. A failed
// reload keeps the previous snapshot so lookups never see a broken table.
func (w *TableWatcher) Reload() error {
	tables, err := LoadTables(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.current = tables
	w.mu.Unlock()

	w.logger.Info("compatibility tables reloaded", zap.String("path", w.path))
	return nil
}

// Stop stops watching. Current keeps serving the last snapshot.
func (w *TableWatcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *TableWatcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if err := w.Reload(); err != nil {
					w.logger.Error("failed to reload compatibility tables",
						zap.String("path", w.path),
						zap.Error(err),
					)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("table watcher error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}
