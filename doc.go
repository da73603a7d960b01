// Package watchconf is a live-reloading configuration loader. A Watcher
// polls one configuration file, parses it on change, and keeps the merged
// key/value state available to the application without a restart.
//
// Supported formats, dispatched by file extension (case-insensitive):
//   - .yaml / .yml / .json — parsed as YAML (JSON is valid YAML)
//   - anything else — a restricted declarative expression that evaluates to
//     a mapping, optionally written as "exports = {...}"
//
// Reload semantics:
//   - Change detection is by stat mtime; an unchanged fingerprint means no
//     read, no parse and no update callback for that cycle.
//   - A successful parse merges its keys into the current state. Keys are
//     never pruned: once a key has been seen it stays readable, at its most
//     recent value, even if a later file revision drops it.
//   - A failed stat, read or parse leaves the state and the fingerprint
//     exactly as they were; the previous configuration stays active.
//
// New performs one synchronous load before background polling starts, so a
// watcher over a valid file is readable as soon as New returns:
//
//	w, err := watchconf.New("app.yaml", watchconf.Options{
//		Interval: 10 * time.Second,
//		OnUpdate: func(fresh map[string]any) { apply(fresh) },
//		OnError:  func(err error) { slog.Error("config reload", "err", err) },
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
//
//	host, _ := w.Get("host")
//
// Load failures, including on that first load, are reported through OnError
// and never raised; New fails only when the watcher itself cannot be
// constructed.
package watchconf
