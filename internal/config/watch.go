package config

import (
	"os"
	"sync"
	"time"
)

// Watcher polls a file's modification time and invokes a callback when it
// changes, so edited content is picked up without restarting the toy.
type Watcher struct {
	path     string
	interval time.Duration
	onChange func()
	stop     chan struct{}
	stopOnce sync.Once
	lastMod  time.Time
}

// NewWatcher creates a watcher for path. onChange runs on the watcher's
// goroutine; keep it cheap (e.g. push a flag the frame loop checks).
func NewWatcher(path string, interval time.Duration, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		interval: interval,
		onChange: onChange,
		stop:     make(chan struct{}),
	}
}

// NewSignalWatcher creates a watcher whose changes coalesce into a
// non-blocking signal on the returned channel (capacity 1). For callers that
// must react on their own loop, like a frame thread: drain the channel there
// and do the reload where it is safe, so nothing else ever runs on the
// watcher's goroutine.
func NewSignalWatcher(path string, interval time.Duration) (*Watcher, <-chan struct{}) {
	ch := make(chan struct{}, 1)
	w := NewWatcher(path, interval, func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	return w, ch
}

// Start begins polling in a goroutine. The current mtime is primed first so
// starting the watcher never fires a spurious change.
func (w *Watcher) Start() {
	if fi, err := os.Stat(w.path); err == nil {
		w.lastMod = fi.ModTime()
	}
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan()
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop terminates the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *Watcher) scan() {
	fi, err := os.Stat(w.path)
	if err != nil {
		// File missing or unreadable; keep the last known mtime and retry.
		return
	}
	if mt := fi.ModTime(); mt.After(w.lastMod) {
		w.lastMod = mt
		if w.onChange != nil {
			w.onChange()
		}
	}
}
