package profile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirWatcher polls a config tree for YAML changes and triggers a callback.
// Profiles live in nested directories (games/<game>/abilities/*.yaml), so
// the watcher sweeps the whole base directory instead of a fixed path list;
// added and removed files count as changes too.
type DirWatcher struct {
	BaseDir  string
	Interval time.Duration
	onChange func(string) // called with the path that changed
	stopCh   chan struct{}
	mtimes   map[string]time.Time
}

// NewDirWatcher creates a watcher over baseDir with the given poll interval.
func NewDirWatcher(baseDir string, interval time.Duration, onChange func(string)) *DirWatcher {
	return &DirWatcher{
		BaseDir:  baseDir,
		Interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		mtimes:   make(map[string]time.Time),
	}
}

// Start begins polling in a goroutine.
func (w *DirWatcher) Start() {
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		// prime cache so startup state is not reported as a change
		w.sweep(true)
		for {
			select {
			case <-ticker.C:
				w.sweep(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *DirWatcher) Stop() {
	close(w.stopCh)
}

// sweep walks the tree, compares mtimes against the previous sweep, and
// fires onChange for every modified, added, or deleted YAML file.
func (w *DirWatcher) sweep(prime bool) {
	seen := make(map[string]time.Time, len(w.mtimes))
	_ = filepath.WalkDir(w.BaseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		fi, err := os.Stat(path)
		if err != nil {
			return nil
		}
		seen[path] = fi.ModTime()
		return nil
	})

	if !prime && w.onChange != nil {
		for path, mt := range seen {
			last, ok := w.mtimes[path]
			if !ok || mt.After(last) {
				w.onChange(path)
			}
		}
		for path := range w.mtimes {
			if _, ok := seen[path]; !ok {
				w.onChange(path)
			}
		}
	}
	w.mtimes = seen
}
