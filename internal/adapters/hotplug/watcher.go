// Package hotplug notices serial devices appearing and disappearing by
// watching the device directory.
package hotplug

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/labelrec/internal/ports"
)

// DefaultDebounce coalesces the burst of events a single plug produces.
const DefaultDebounce = 200 * time.Millisecond

var serialPrefixes = []string{"tty", "cu.", "rfcomm"}

// IsSerialName reports whether a device node name looks like a serial port.
func IsSerialName(name string) bool {
	for _, p := range serialPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Watcher calls OnChange after serial device nodes are created or removed
// under Dir.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	OnChange func()
	logger   ports.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a Watcher for dir.
func NewWatcher(dir string, onChange func(), logger ports.Logger) *Watcher {
	return &Watcher{
		Dir:      dir,
		Debounce: DefaultDebounce,
		OnChange: onChange,
		logger:   logger,
	}
}

// Run watches until ctx is cancelled. It returns the error from setting up
// the watch; the caller falls back to manual refresh.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return err
	}
	w.logger.Debug("watching device directory", ports.String("dir", w.Dir))

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsSerialName(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("device watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.Debounce, w.OnChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}
