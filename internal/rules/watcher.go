package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
)

// debounceWindow absorbs the write+rename event bursts editors and config
// management tools produce when replacing a file.
const debounceWindow = 200 * time.Millisecond

// Watcher reloads a ruleset file on change and hands the parsed result to a
// callback. A file that fails to parse or validate is logged and ignored;
// the previously active ruleset keeps serving decisions.
type Watcher struct {
	path     string
	onReload func(*engine.Ruleset)
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given rules file. The onReload
// callback receives every successfully loaded ruleset.
func NewWatcher(path string, onReload func(*engine.Ruleset), logger *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("rules path cannot be empty")
	}
	if onReload == nil {
		return nil, fmt.Errorf("onReload callback cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	// Watch the parent directory: atomic replaces (write to temp, rename
	// over) would otherwise detach a watch on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch rules directory: %w", err)
	}

	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logger,
		watcher:  fsw,
	}, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rules watcher error", zap.Error(err))
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) reload() {
	rs, err := Load(w.path)
	if err != nil {
		w.logger.Error("rules reload failed, keeping previous ruleset",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}
	w.logger.Info("rules reloaded", zap.String("path", w.path))
	w.onReload(rs)
}
