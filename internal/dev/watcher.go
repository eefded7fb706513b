package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeFragment is a markup fragment edit.
	ChangeFragment ChangeType = iota

	// ChangeData is a data payload edit.
	ChangeData

	// ChangeOther is any other file the watched tree holds.
	ChangeOther
)

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files and directories to watch.
	Paths []string

	// Poll is the scan interval.
	Poll time.Duration
}

// Watcher polls the content tree for changes. Polling keeps the watcher
// portable; a fragment directory is small enough that a full scan per
// tick stays cheap.
type Watcher struct {
	config   WatcherConfig
	onChange func(Change)

	mu          sync.Mutex
	running     bool
	initialized bool
	stopCh      chan struct{}
	timestamps  map[string]time.Time
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Poll == 0 {
		config.Poll = 500 * time.Millisecond
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching. It blocks until ctx is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.Scan()

	ticker := time.NewTicker(w.config.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Scan runs one poll step: new or modified files are reported through the
// callback, deleted files are forgotten. The first scan only seeds the
// timestamp map.
func (w *Watcher) Scan() {
	w.mu.Lock()
	callback := w.onChange
	initialized := w.initialized
	w.initialized = true
	w.mu.Unlock()

	var changes []Change
	seen := make(map[string]bool)

	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			seen[p] = true

			w.mu.Lock()
			lastMod, exists := w.timestamps[p]
			modTime := info.ModTime()
			w.timestamps[p] = modTime
			w.mu.Unlock()

			if initialized && (!exists || modTime.After(lastMod)) {
				changes = append(changes, Change{Path: p, Type: classifyChange(p)})
			}
			return nil
		})
	}

	w.mu.Lock()
	for p := range w.timestamps {
		if !seen[p] {
			delete(w.timestamps, p)
			if initialized {
				changes = append(changes, Change{Path: p, Type: classifyChange(p)})
			}
		}
	}
	w.mu.Unlock()

	if callback == nil {
		return
	}
	// Collapse to one report per change type per scan.
	reported := make(map[ChangeType]bool)
	for _, change := range changes {
		if !reported[change.Type] {
			reported[change.Type] = true
			callback(change)
		}
	}
}

// classifyChange determines the type of change based on file name.
func classifyChange(path string) ChangeType {
	switch {
	case strings.HasSuffix(path, ".html"):
		return ChangeFragment
	case filepath.Base(path) == "data.json" || strings.HasSuffix(path, ".json"):
		return ChangeData
	default:
		return ChangeOther
	}
}
