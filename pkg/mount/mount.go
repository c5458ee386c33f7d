// Package mount waits for filesystem entries the site generator produces
// asynchronously. The generator may still be writing its first build when
// we start, so callers wait for the expected entry with a bounded retry
// schedule backed by filesystem notifications when available.
package mount

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/sitegraph/pkg/debug"
)

// Options bounds the wait. The zero value is not usable; use
// DefaultOptions.
type Options struct {
	// Interval is the base poll interval, doubled each attempt up to
	// MaxInterval.
	Interval    time.Duration
	MaxInterval time.Duration
	// MaxWait bounds the total window. Exceeding it fails the wait
	// rather than retrying forever.
	MaxWait time.Duration
}

// DefaultOptions waits up to 30 seconds, polling from 100ms with backoff.
func DefaultOptions() Options {
	return Options{
		Interval:    100 * time.Millisecond,
		MaxInterval: 2 * time.Second,
		MaxWait:     30 * time.Second,
	}
}

// EnsureMounted blocks until dir contains the named entry, combining
// polling with backoff and fsnotify observation of dir. It returns nil as
// soon as the entry exists, and an error when the window closes or ctx is
// canceled first.
func EnsureMounted(ctx context.Context, dir, name string, opts Options) error {
	target := filepath.Join(dir, name)
	if exists(target) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opts.MaxWait)
	defer cancel()

	// Watch the parent so we wake immediately on creation. Watch setup
	// failing is fine; polling still covers it.
	var events chan fsnotify.Event
	if w, err := fsnotify.NewWatcher(); err == nil {
		if err := w.Add(dir); err == nil {
			events = make(chan fsnotify.Event, 16)
			defer w.Close()
			go func() {
				for {
					select {
					case ev, ok := <-w.Events:
						if !ok {
							return
						}
						select {
						case events <- ev:
						default:
						}
					case <-ctx.Done():
						return
					}
				}
			}()
		} else {
			w.Close()
			debug.Log("mount: cannot watch %s: %v", dir, err)
		}
	}

	interval := opts.Interval
	for {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("waiting for %s: %w", target, ctx.Err())
		case ev := <-events:
			timer.Stop()
			debug.Log("mount: event %s", ev)
		case <-timer.C:
		}
		if exists(target) {
			return nil
		}
		interval *= 2
		if interval > opts.MaxInterval {
			interval = opts.MaxInterval
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
