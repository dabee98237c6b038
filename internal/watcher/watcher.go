// Package watcher reloads the active scoreboard document when it changes
// on disk.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kai-65537/AOLOT-scoreboard/internal/logger"
	"github.com/kai-65537/AOLOT-scoreboard/internal/services"
)

// Reloader is the part of the scoreboard service the watcher drives
type Reloader interface {
	ActivePath() string
	ReloadFromWatch(ctx context.Context) (*services.LoadResult, error)
}

// Watcher follows the reloader's active document. Editors often save by
// renaming a temp file over the target, so the parent directory is
// watched and events are filtered by path.
type Watcher struct {
	log       logger.Logger
	reloader  Reloader
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	resync    time.Duration

	mu      sync.Mutex
	dir     string
	target  string
	reloads int
}

// New creates a Watcher. delay is the quiet period after the last change
// before a reload runs.
func New(log logger.Logger, reloader Reloader, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		log:       log,
		reloader:  reloader,
		fsw:       fsw,
		debouncer: NewDebouncer(delay),
		resync:    time.Second,
	}, nil
}

// Run processes file events until ctx is cancelled, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	defer w.debouncer.Stop()

	w.sync()
	ticker := time.NewTicker(w.resync)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sync()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.matches(event) {
				w.log.Debug("Configuration file changed", "path", event.Name, "op", event.Op.String())
				w.debouncer.Trigger(func() { w.reload(ctx) })
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error", "error", err)
		}
	}
}

// Reloads returns how many watch-triggered reloads have run
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Target returns the file currently being followed
func (w *Watcher) Target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// sync moves the directory watch to follow the active document
func (w *Watcher) sync() {
	path := w.reloader.ActivePath()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.target = path
	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}
	if dir == w.dir {
		return
	}
	if w.dir != "" {
		if err := w.fsw.Remove(w.dir); err != nil {
			w.log.Debug("Failed to stop watching directory", "dir", w.dir, "error", err)
		}
	}
	w.dir = ""
	if dir == "" {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		w.log.Warn("Cannot watch configuration directory", "dir", dir, "error", err)
		return
	}
	w.dir = dir
	w.log.Info("Watching configuration", "path", path)
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target != "" && filepath.Clean(event.Name) == w.target
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	// Failures are already logged, recorded and broadcast by the service
	if _, err := w.reloader.ReloadFromWatch(ctx); err != nil {
		w.log.Debug("Watch reload rejected", "error", err)
	}
}
