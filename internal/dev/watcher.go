package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeKind classifies a detected file change so the reload server
// can pick between a full refresh and a CSS-only swap.
type ChangeKind int

const (
	ChangeShell ChangeKind = iota
	ChangeCSS
	ChangeAsset
)

// Change is a single detected file change.
type Change struct {
	Path string
	Kind ChangeKind
}

// WatcherConfig configures the polling watcher.
type WatcherConfig struct {
	// Paths are the directories to poll recursively.
	Paths []string

	// Interval is the poll period. Defaults to 250ms.
	Interval time.Duration
}

// defaultIgnore names directory and file patterns never worth
// reporting.
var defaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls directories for modified, added, or removed files and
// invokes a callback per change. Polling keeps the implementation
// portable; the watched trees are small enough that it stays cheap.
type Watcher struct {
	config   WatcherConfig
	onChange func(Change)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	mtimes  map[string]time.Time
}

// NewWatcher creates a watcher over the given config.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 250 * time.Millisecond
	}
	return &Watcher{
		config: config,
		mtimes: make(map[string]time.Time),
	}
}

// OnChange sets the change callback. It is invoked from the watcher's
// polling goroutine.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is cancelled or Stop is called. It records the
// initial state first so pre-existing files do not fire changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.scan(nil)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			w.poll()
		}
	}
}

// Stop terminates the polling loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning reports whether the polling loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// poll compares the tree against the recorded state and reports one
// change per kind so a burst of writes triggers a single reload.
func (w *Watcher) poll() {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	var changes []Change
	w.scan(func(c Change) {
		changes = append(changes, c)
	})

	if callback == nil {
		return
	}
	seen := make(map[ChangeKind]bool)
	for _, c := range changes {
		if !seen[c.Kind] {
			seen[c.Kind] = true
			callback(c)
		}
	}
}

// scan walks the watched paths, updates the modification-time map, and
// reports differences through report (which may be nil on the initial
// pass). Deleted files are reported too.
func (w *Watcher) scan(report func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	present := make(map[string]bool)

	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if ignored(p) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}
			present[p] = true
			prev, known := w.mtimes[p]
			mod := info.ModTime()
			if !known || mod.After(prev) {
				w.mtimes[p] = mod
				if known && report != nil {
					report(Change{Path: p, Kind: classify(p)})
				}
				if !known && report != nil {
					report(Change{Path: p, Kind: classify(p)})
				}
			}
			return nil
		})
	}

	for p := range w.mtimes {
		if !present[p] {
			delete(w.mtimes, p)
			if report != nil {
				report(Change{Path: p, Kind: classify(p)})
			}
		}
	}
}

func ignored(p string) bool {
	name := filepath.Base(p)
	for _, pattern := range defaultIgnore {
		if strings.ContainsAny(pattern, "*?[") {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		} else if name == pattern {
			return true
		}
	}
	return false
}

// classify maps a file extension to a change kind.
func classify(p string) ChangeKind {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html":
		return ChangeShell
	case ".css":
		return ChangeCSS
	default:
		return ChangeAsset
	}
}
