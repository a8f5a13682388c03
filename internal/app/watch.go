package app

import (
	"os"
	"sync"
	"time"
)

// SourceWatcher polls the raster files referenced by the scene and triggers
// a callback when one changes on disk, so edits made in an external image
// editor show up without reopening the project.
type SourceWatcher struct {
	state         *State
	checkInterval time.Duration
	stopCh        chan struct{}
	onChanged     func(paths []string)

	mu       sync.Mutex
	modTimes map[string]time.Time
}

// NewSourceWatcher creates a watcher over the state's scene sources.
func NewSourceWatcher(state *State, checkInterval time.Duration) *SourceWatcher {
	return &SourceWatcher{
		state:         state,
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
		modTimes:      make(map[string]time.Time),
	}
}

// OnChanged sets the callback to invoke when source files change. The
// callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (w *SourceWatcher) OnChanged(callback func(paths []string)) {
	w.onChanged = callback
}

// Start begins watching in a background goroutine.
func (w *SourceWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watchLoop()
}

// Stop stops the watcher goroutine.
func (w *SourceWatcher) Stop() {
	close(w.stopCh)
}

func (w *SourceWatcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if changed := w.checkForUpdates(); len(changed) > 0 {
				for _, p := range changed {
					w.state.Sources.Evict(p)
				}
				if w.onChanged != nil {
					w.onChanged(changed)
				}
			}
		}
	}
}

// checkForUpdates returns the source paths whose files have been modified
// since the last check. Missing files are skipped; the first sighting of a
// path only records its baseline.
func (w *SourceWatcher) checkForUpdates() []string {
	sc := w.state.Editor.Scene()

	w.mu.Lock()
	defer w.mu.Unlock()

	var changed []string
	for _, im := range sc.Images {
		if im.Path == "" {
			continue
		}
		info, err := os.Stat(im.Path)
		if err != nil {
			continue
		}
		last, seen := w.modTimes[im.Path]
		w.modTimes[im.Path] = info.ModTime()
		if seen && info.ModTime().After(last) {
			changed = append(changed, im.Path)
		}
	}
	return changed
}
