// Package watcher provides file watching for configuration live reload.
//
// A Watcher monitors a single configuration file through fsnotify. It
// watches the file's directory so that editors which save by renaming a
// temporary file are still noticed, and debounces bursts of changes into
// one Event.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the last operation seen before the debounce settled.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Watcher delivers debounced change events for one file.
type Watcher struct {
	path     string
	debounce time.Duration
	bufSize  int

	fsw    *fsnotify.Watcher
	events chan Event
	errors chan error

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before an event is
// delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithBufferSize sets the capacity of the event channel.
func WithBufferSize(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.bufSize = n
		}
	}
}

// New starts watching path. The file itself need not exist yet, but its
// directory must.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		debounce: 100 * time.Millisecond,
		bufSize:  4,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.fsw = fsw
	w.events = make(chan Event, w.bufSize)
	w.errors = make(chan error, w.bufSize)

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the channel of debounced change events.
// It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors.
// It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

// processLoop filters fsnotify events down to the watched file and
// delivers one event per quiet period.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending Event
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			op, match := w.convert(fsEvent)
			if !match {
				continue
			}
			pending = Event{Path: w.path, Op: op, Time: time.Now()}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.send(pending)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Channel full, drop error
			}
		}
	}
}

// convert maps an fsnotify event on the watched file to an Operation.
// Chmod-only events and events on other files do not match.
func (w *Watcher) convert(ev fsnotify.Event) (Operation, bool) {
	if filepath.Clean(ev.Name) != w.path {
		return 0, false
	}
	switch {
	case ev.Op.Has(fsnotify.Create):
		return OpCreate, true
	case ev.Op.Has(fsnotify.Write):
		return OpWrite, true
	case ev.Op.Has(fsnotify.Rename):
		return OpRename, true
	case ev.Op.Has(fsnotify.Remove):
		return OpRemove, true
	default:
		return 0, false
	}
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	default:
		// A reload is already queued; the consumer rereads the file anyway.
	}
}
