// Package watcher monitors the generated page index for rebuilds, so the
// serve mode can swap in a fresh graph when the site generator writes a
// new index. Uses fsnotify on the parent directory (reliable for atomic
// writes) with an mtime/size polling fallback.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/sitegraph/pkg/debug"
)

// DefaultPollInterval is the polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// DefaultDebounce collapses the burst of events a generator emits while
// writing its output.
const DefaultDebounce = 250 * time.Millisecond

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithForcePoll forces polling mode even when fsnotify is available.
// Network filesystems often drop inotify events.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher reports rebuilds of a single file.
type Watcher struct {
	path         string
	pollInterval time.Duration
	debounce     time.Duration
	forcePoll    bool

	fsw       *fsnotify.Watcher
	polling   bool
	lastMtime time.Time
	lastSize  int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.Mutex
	changeCh chan struct{}
}

// New creates a watcher for the given index file.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         abs,
		pollInterval: DefaultPollInterval,
		debounce:     DefaultDebounce,
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. The file may not exist yet; its creation counts
// as a change.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	if info, err := os.Stat(w.path); err == nil {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	} else {
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	w.polling = w.forcePoll
	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			if err := fsw.Add(filepath.Dir(w.path)); err != nil {
				fsw.Close()
				w.polling = true
			} else {
				w.fsw = fsw
				go w.watchEvents()
			}
		} else {
			w.polling = true
		}
	}
	if w.polling {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop ends watching. The change channel stays open; a receiver blocked
// on it is released by process exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	w.started = false
}

// Changed receives after the index file settles following a rebuild.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// IsPolling reports whether the fallback mode is active.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

func (w *Watcher) watchEvents() {
	var timer *time.Timer
	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debug.Log("watcher: %s", ev)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.notify)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.Log("watcher error: %v", err)
		}
	}
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime() != w.lastMtime || info.Size() != w.lastSize {
				w.mu.Lock()
				w.lastMtime = info.ModTime()
				w.lastSize = info.Size()
				w.mu.Unlock()
				w.notify()
			}
		}
	}
}

// notify is non-blocking: a pending change that has not been consumed yet
// absorbs later ones.
func (w *Watcher) notify() {
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
