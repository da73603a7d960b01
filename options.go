package watchconf

import "time"

// DefaultInterval is the poll cadence applied when Options.Interval is zero.
const DefaultInterval = 60 * time.Second

// Options configures a Watcher. The zero value is usable: polling every
// DefaultInterval with no callbacks.
type Options struct {
	// Interval is the poll cadence. Defaults to DefaultInterval.
	Interval time.Duration

	// Debug enables per-cycle slog.Debug diagnostics (skips, reload sizes).
	// Failures are always logged at Error level regardless of this flag.
	Debug bool

	// Notify additionally subscribes to filesystem notifications so a write
	// to the file triggers an immediate poll instead of waiting out the
	// interval. Polling remains the correctness mechanism; if notifications
	// are unavailable the watcher degrades to pure polling.
	Notify bool

	// OnUpdate is invoked after every successful reload with the freshly
	// parsed mapping — only the keys present in the file this cycle, not the
	// accumulated state. It runs inline on the poll goroutine.
	OnUpdate func(fresh map[string]any)

	// OnError is invoked once per failed reload cycle with a *Error.
	// It runs inline on the poll goroutine. Leaving it nil is safe: errors
	// are logged and counted, never raised.
	OnError func(err error)
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}
