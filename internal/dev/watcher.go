package dev

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeDocument is a BEMJSON or template file.
	ChangeDocument ChangeType = iota
	ChangeCSS
	ChangeAsset
)

// Change represents a detected file change.
type Change struct {
	Path    string
	Type    ChangeType
	Removed bool
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files and directories to watch.
	Paths []string

	// Ignore lists base names or globs to skip.
	Ignore []string

	// Interval is the polling interval.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// stamp is compared between scans; size catches rewrites within the
// filesystem's mtime resolution.
type stamp struct {
	mod  time.Time
	size int64
}

// Watcher reports file changes by polling.
type Watcher struct {
	config   WatcherConfig
	mu       sync.Mutex
	onChange func(Change)
	running  bool
	stopCh   chan struct{}
	files    map[string]stamp
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 200 * time.Millisecond
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{config: config}
}

// OnChange sets the callback for file changes. It runs on the polling
// goroutine, one call per changed file.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start watches until ctx is done or Stop is called. The first scan only
// records the current state.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	files := w.scan()
	w.mu.Lock()
	w.files = files
	w.mu.Unlock()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.poll()
		}
	}
}

// Stop stops the watcher. It is safe to call more than once.
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

func (w *Watcher) scan() map[string]stamp {
	files := make(map[string]stamp)
	for _, root := range w.config.Paths {
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if w.shouldIgnore(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			files[p] = stamp{mod: info.ModTime(), size: info.Size()}
			return nil
		})
	}
	return files
}

func (w *Watcher) poll() {
	current := w.scan()

	w.mu.Lock()
	callback := w.onChange
	previous := w.files
	w.files = current
	w.mu.Unlock()

	if callback == nil {
		return
	}
	for _, change := range diffScans(previous, current) {
		callback(change)
	}
}

// diffScans lists created, modified and removed files sorted by path.
func diffScans(previous, current map[string]stamp) []Change {
	var changes []Change
	for p, now := range current {
		if before, ok := previous[p]; !ok || before.size != now.size || !before.mod.Equal(now.mod) {
			changes = append(changes, Change{Path: p, Type: classifyChange(p)})
		}
	}
	for p := range previous {
		if _, ok := current[p]; !ok {
			changes = append(changes, Change{Path: p, Type: classifyChange(p), Removed: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// shouldIgnore checks if a path should be ignored. Watched roots are
// never ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	for _, root := range w.config.Paths {
		if filepath.Clean(root) == filepath.Clean(fullPath) {
			return false
		}
	}

	name := filepath.Base(fullPath)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
		}
	}
	return false
}

// classifyChange determines the type of change based on file extension.
func classifyChange(path string) ChangeType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".msgpack", ".mp":
		return ChangeDocument
	case ".css":
		return ChangeCSS
	default:
		return ChangeAsset
	}
}
