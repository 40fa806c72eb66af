// Package watch re-validates manifest files when they change on disk.
// Events are debounced so editors that write in bursts trigger a single
// validation per save.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures a Watcher.
type Config struct {
	// Paths are the files or directories to watch.
	Paths []string

	// Debounce is how long to wait after the last change before firing
	// (default 200ms).
	Debounce time.Duration

	// Extensions limits which files trigger validation
	// (default .json, .yaml, .yml).
	Extensions []string
}

// Watcher watches manifest files and invokes a callback on change.
type Watcher struct {
	fsw    *fsnotify.Watcher
	cfg    Config
	logger *slog.Logger
}

// New creates a Watcher for the configured paths. Directories are watched
// non-recursively; files are watched via their parent directory so
// rename-based saves keep working.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".json", ".yaml", ".yml"}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, cfg: cfg, logger: logger}
	for _, p := range cfg.Paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	target := path
	if !info.IsDir() {
		target = filepath.Dir(path)
	}
	if err := w.fsw.Add(target); err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}
	w.logger.Debug("watching", "path", target)
	return nil
}

// matches reports whether the changed file is one the caller cares about:
// a watched extension and, when individual files were named, one of them.
func (w *Watcher) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	extOK := false
	for _, e := range w.cfg.Extensions {
		if ext == e {
			extOK = true
			break
		}
	}
	if !extOK {
		return false
	}

	for _, p := range w.cfg.Paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if filepath.Dir(name) == filepath.Clean(p) {
				return true
			}
			continue
		}
		if filepath.Clean(p) == filepath.Clean(name) {
			return true
		}
	}
	return false
}

// Run blocks, invoking onChange with each changed path after the
// debounce window, until the context is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.Debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timerC:
			for p := range pending {
				onChange(p)
			}
			pending = make(map[string]struct{})
			timer = nil
			timerC = nil
		}
	}
}
