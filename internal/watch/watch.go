// Package watch re-runs a callback when files under a contracts root change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 300 * time.Millisecond

// Func receives the changed paths of one batch, sorted and unique.
type Func func(ctx context.Context, changed []string)

// Watcher watches a directory tree.
type Watcher struct {
	root     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	log      *slog.Logger
}

// New starts watching root and every directory beneath it. Events are not
// delivered until Run is called.
func New(root string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{root: root, debounce: debounce, fsw: fsw, log: logger}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers debounced batches to fn until ctx is cancelled. fn runs on
// the Run goroutine; events arriving meanwhile are batched for the next call.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			w.log.DebugContext(ctx, "fsnotify event", "op", event.Op.String(), "file", event.Name)
			if event.Has(fsnotify.Create) {
				// New contract folders need their own watch.
				if err := w.addTree(event.Name); err != nil {
					w.log.DebugContext(ctx, "skip watch", "path", event.Name, "error", err)
				}
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.ErrorContext(ctx, "fsnotify error", "error", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)
			fn(ctx, changed)
		}
	}
}
