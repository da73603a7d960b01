package watchconf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/watchconf/watchconf/internal/format"
	"github.com/watchconf/watchconf/internal/metrics"
)

// Watcher polls a single configuration file and keeps the merged key/value
// state from every successful parse. All exported methods are safe for
// concurrent use; callbacks run inline on the poll goroutine.
type Watcher struct {
	path string
	opts Options

	mu       sync.Mutex
	interval time.Duration

	// lastMod is the change-detection fingerprint: the stat mtime of the
	// last successfully parsed revision. Mutated only by the poll goroutine
	// (and the synchronous first load inside New).
	lastMod time.Time

	st        *state
	collector *metrics.Collector

	fsw      *fsnotify.Watcher // nil unless notifications are active
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Watcher for the configuration file at path and performs one
// synchronous load before background polling starts. Load failures —
// including on that first load — are reported through opts.OnError exactly
// like any later cycle's; New fails only when the watcher itself cannot be
// constructed.
func New(path string, opts Options) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watchconf: path must not be empty")
	}
	opts = opts.withDefaults()

	w := &Watcher{
		path:      path,
		opts:      opts,
		interval:  opts.Interval,
		st:        newState(),
		collector: metrics.New(),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	if opts.Notify {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("watchconf: start notifications: %w", err)
		}
		if err := fsw.Add(path); err != nil {
			// File not there yet, or the platform refuses the watch.
			// Polling still covers it.
			slog.Warn("watchconf: notifications unavailable, polling only",
				"path", path, "err", err)
			fsw.Close()
		} else {
			w.fsw = fsw
			go w.relay()
		}
	}

	w.cycle()
	go w.run()
	return w, nil
}

// Path returns the watched file's path.
func (w *Watcher) Path() string { return w.path }

// Interval returns the current poll cadence.
func (w *Watcher) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interval
}

// SetInterval changes the poll cadence. Non-positive values are ignored.
// The poll loop is woken so the new cadence takes effect immediately rather
// than after the previously armed timer fires.
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.interval = d
	w.mu.Unlock()
	w.poke()
}

// Get returns the current value for key and whether the key has ever been
// seen in a successful parse. It always reads the latest merged state.
func (w *Watcher) Get(key string) (any, bool) {
	return w.st.get(key)
}

// Snapshot returns a shallow copy of the merged configuration mapping.
// Nested values are shared with the watcher; treat the result as read-only.
func (w *Watcher) Snapshot() map[string]any {
	return w.st.snapshot()
}

// String renders the merged configuration as YAML, whatever the source
// file's format.
func (w *Watcher) String() string {
	out, err := yaml.Marshal(w.st.snapshot())
	if err != nil {
		return ""
	}
	return string(out)
}

// WriteMetrics writes the watcher's reload counters to out in the
// Prometheus text exposition format.
func (w *Watcher) WriteMetrics(out io.Writer) error {
	return w.collector.Encode(out)
}

// Stop ends polling and releases the notification watcher, if any.
// It is idempotent and safe to call from any goroutine.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			w.fsw.Close()
		}
	})
}

// run drives the poll loop. The timer is re-armed only after a cycle's
// synchronous work, callbacks included, has finished, so no two cycles for
// the same watcher ever overlap. Rescheduling is unconditional: there is no
// backoff and no retry cap — polling continues until Stop.
func (w *Watcher) run() {
	t := time.NewTimer(w.Interval())
	defer t.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-t.C:
		case <-w.wake:
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
		}
		w.cycle()
		t.Reset(w.Interval())
	}
}

// relay forwards filesystem notifications into poll-loop wakeups. The woken
// cycle still goes through the normal stat/fingerprint check, so a spurious
// event costs one stat and nothing more.
func (w *Watcher) relay() {
	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// Atomic saves replace the inode; re-add the watch.
				_ = w.fsw.Add(w.path)
			}
			w.poke()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("watchconf: notification error", "path", w.path, "err", err)
		}
	}
}

// poke nudges the poll loop without blocking; a wakeup already pending is
// enough.
func (w *Watcher) poke() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// cycle runs one stat → read → parse → merge → notify pass. A failure at
// any step leaves the merged state and the fingerprint untouched, so the
// previous configuration stays active.
func (w *Watcher) cycle() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.fail(&Error{Op: OpStat, Path: w.path, Err: err})
		return
	}

	mod := info.ModTime()
	if mod.Equal(w.lastMod) {
		w.collector.Skip()
		if w.opts.Debug {
			slog.Debug("watchconf: unchanged, skipping", "path", w.path, "mtime", mod)
		}
		return
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		w.fail(&Error{Op: OpRead, Path: w.path, Err: err})
		return
	}

	fresh, err := format.Parse(w.path, data)
	if err != nil {
		w.fail(&Error{Op: OpParse, Path: w.path, Err: err})
		return
	}

	// Fingerprint before merge: an interrupted merge must not leave the
	// same revision reparsing forever.
	w.lastMod = mod
	w.st.merge(fresh)
	w.collector.Reload()

	if w.opts.Debug {
		slog.Debug("watchconf: reloaded", "path", w.path, "keys", len(fresh), "mtime", mod)
	}
	if w.opts.OnUpdate != nil {
		w.opts.OnUpdate(fresh)
	}
}

// fail reports one failed cycle. With no OnError handler the error is still
// logged and counted — never raised, never a crash.
func (w *Watcher) fail(err *Error) {
	w.collector.Error()
	slog.Error("watchconf: reload failed, keeping previous config",
		"path", w.path, "op", err.Op, "err", err.Err)
	if w.opts.OnError != nil {
		w.opts.OnError(err)
	}
}
