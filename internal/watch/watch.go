// Package watch re-runs a callback whenever an input file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/sprintpack/internal/logging"
)

// DefaultDebounce is how long the watcher waits after the last event before
// running the callback. Editors often emit several events for one save.
const DefaultDebounce = 100 * time.Millisecond

// Func is called after the watched file changes. Calls never overlap.
type Func func(ctx context.Context) error

// Watcher watches a single file. It watches the file's directory so that
// editors which save by renaming a temporary file are still seen.
type Watcher struct {
	path     string
	fn       Func
	logger   *logging.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	closeOnce sync.Once
}

// New starts watching path. Changes made after New returns are reported by
// Run. A nil logger discards output.
func New(path string, fn Func, logger *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		fn:       fn,
		logger:   logger.With("path", abs),
		watcher:  fw,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period before the callback runs.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run processes file events until ctx is done, calling fn once per burst of
// changes. Errors returned by fn are logged and do not stop the watcher.
// Run closes the watcher before returning ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.Close() }()

	timer := time.NewTimer(0)
	<-timer.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return ctx.Err()
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("input changed", "op", event.Op.String())
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.fn(ctx); err != nil {
				w.logger.Error("re-run failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ctx.Err()
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}
