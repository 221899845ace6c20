// Package watch re-runs a callback when composer.json or the installed
// package list changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher watches a Composer project.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   hclog.Logger

	composerDir string
	targets     map[string]bool
}

// New watches projectDir for composer.json and vendorDir/composer for
// installed.json. The vendor directory need not exist yet.
func New(projectDir, vendorDir string, opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	composerDir := filepath.Join(vendorDir, "composer")
	w := &Watcher{
		fs:          fs,
		debounce:    DefaultDebounce,
		logger:      hclog.NewNullLogger(),
		composerDir: composerDir,
		targets: map[string]bool{
			filepath.Join(projectDir, "composer.json"):   true,
			filepath.Join(composerDir, "installed.json"): true,
		},
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fs.Add(projectDir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", projectDir, err)
	}

	// vendor/ appears on the first install, vendor/composer just after it.
	for _, dir := range []string{vendorDir, composerDir} {
		if err := w.add(dir); err != nil {
			fs.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Watcher) add(dir string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Debug("watching", "dir", dir)
	return nil
}

// Run calls fn with the changed path once changes have settled. Calls are
// made from Run's goroutine, one at a time. Errors from fn are logged. Run
// returns when ctx is cancelled and closes the watcher.
func (w *Watcher) Run(ctx context.Context, fn func(path string) error) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var fire <-chan time.Time
	var pending string

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher closed")
			}

			if event.Has(fsnotify.Create) && (event.Name == filepath.Dir(w.composerDir) || event.Name == w.composerDir) {
				if err := w.add(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
				}
				continue
			}

			if !w.targets[event.Name] || event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			w.logger.Trace("change", "path", event.Name, "op", event.Op.String())
			pending = event.Name
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Debug("changes settled", "path", pending)
			if err := fn(pending); err != nil {
				w.logger.Error("watch callback failed", "path", pending, "error", err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Close stops the watcher without running it.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
