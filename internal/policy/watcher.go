package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads the rule file into the engine when it changes on disk.
// Rapid write bursts are debounced; a reload that fails keeps the previous
// rule set active.
type Watcher struct {
	engine *Engine
	path   string

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for the given rule file.
func NewWatcher(engine *Engine, path string) *Watcher {
	return &Watcher{engine: engine, path: path}
}

// Watch blocks until ctx is cancelled, swapping in the new rule set whenever
// the file is rewritten.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create policy watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory, not the file: editors and atomic writers replace
	// the file by rename, which drops a direct file watch.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch policy dir: %w", err)
	}

	slog.Info("policy watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("policy watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.scheduleReload()
		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("policy watcher errors channel closed")
			}
			slog.Error("policy watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	rules, err := LoadFile(w.path)
	if err != nil {
		slog.Error("policy reload failed, keeping previous rule set", "path", w.path, "error", err)
		return
	}
	w.engine.Replace(rules)
	slog.Info("policy rules reloaded", "path", w.path, "rules", len(rules))
}
