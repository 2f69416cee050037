// Package watcher notifies a running search of file changes so its
// results can be recomputed. It deliberately exposes less than a
// general-purpose file watcher: one debounced change event per path,
// no recursion, no ignore rules — callers decide which files matter.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var (
	// ErrWatcherClosed is returned by operations on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
	// ErrAlreadyWatching is returned when a path is added twice.
	ErrAlreadyWatching = errors.New("already watching path")
)

// Change reports that a watched file's contents may have changed.
type Change struct {
	Path     string
	Removed  bool
	Occurred time.Time
}

// Watcher debounces filesystem events per path: rapid write bursts
// (editors often write several times per save) collapse into one
// Change after the quiet period.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	paths   map[string]bool
	pending map[string]*time.Timer
	quiet   time.Duration

	changes chan Change
	errs    chan error

	closed  bool
	closeCh chan struct{}
	loopWg  sync.WaitGroup
}

// New creates a watcher with the given debounce quiet period. A zero
// or negative period defaults to 100ms.
func New(quiet time.Duration) (*Watcher, error) {
	if quiet <= 0 {
		quiet = 100 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		paths:   make(map[string]bool),
		pending: make(map[string]*time.Timer),
		quiet:   quiet,
		changes: make(chan Change, 64),
		errs:    make(chan error, 8),
		closeCh: make(chan struct{}),
	}
	w.loopWg.Add(1)
	go w.loop()
	return w, nil
}

// Add starts watching a single file.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.paths[abs] {
		return ErrAlreadyWatching
	}
	if err := w.fsw.Add(abs); err != nil {
		return err
	}
	w.paths[abs] = true
	return nil
}

// Changes returns the debounced change channel. The channel is never
// closed; receivers select against their own shutdown signal.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Errors returns the watcher error channel.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = make(map[string]*time.Timer)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.loopWg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.loopWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
				w.schedule(ev.Name, true)
			case ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create):
				w.schedule(ev.Name, false)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// schedule (re)starts the debounce timer for a path. Each new event
// within the quiet period pushes the emission out again.
func (w *Watcher) schedule(path string, removed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.quiet, func() {
		w.emit(path, removed)
	})
}

func (w *Watcher) emit(path string, removed bool) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.changes <- Change{Path: path, Removed: removed, Occurred: time.Now()}:
	case <-w.closeCh:
	}
}
