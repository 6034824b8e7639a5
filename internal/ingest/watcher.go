// Package ingest discovers report files dropped into watched directories.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/finpro/constants"
)

const DefaultDebounce = 500 * time.Millisecond

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, walk roots and emit existing files first
	Debounce    time.Duration // coalesce rapid write/rename bursts; 0 emits immediately
	Logger      *slog.Logger
}

// StartWatcher emits the paths of new or rewritten .pdf/.txt files under the
// roots. Both channels close when ctx is done. The path channel is not
// drained on its own: a slow consumer delays discovery, it does not lose
// files.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("watcher start failed: no roots provided")
		return nil, nil, errors.New("no roots provided")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}

	var existing []string
	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowed(path) {
				existing = append(existing, path)
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			logger.Error("failed to add root directory", "root", r, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}
	logger.Info("watching for reports", "roots", cfg.Roots, "existing", len(existing))

	evCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
		}()

		emit := func(p string) bool {
			select {
			case evCh <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, p := range existing {
			if !emit(p) {
				return
			}
		}

		var (
			timer   *time.Timer
			timerC  <-chan time.Time
			pending = map[string]struct{}{}
			order   []string
		)
		flush := func() bool {
			for _, p := range order {
				if !emit(p) {
					return false
				}
			}
			order = order[:0]
			clear(pending)
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) {
					watchIfDir(w, e.Name, logger)
				}
				if !allowed(e.Name) || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write) || e.Has(fsnotify.Rename)) {
					continue
				}
				if _, seen := pending[e.Name]; !seen {
					pending[e.Name] = struct{}{}
					order = append(order, e.Name)
				}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					timer.Reset(cfg.Debounce)
				}
				timerC = timer.C
			case <-timerC:
				timerC = nil
				if !flush() {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func allowed(path string) bool {
	return constants.IsAllowedExt(filepath.Ext(path))
}

// watchIfDir starts watching a directory created under a root.
func watchIfDir(w *fsnotify.Watcher, path string, logger *slog.Logger) {
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return
	}
	if err := w.Add(path); err != nil {
		logger.Warn("failed to add new directory to watcher", "path", path, "error", err)
	}
}
