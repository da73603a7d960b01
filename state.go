package watchconf

import "sync"

// state is the merged configuration mapping, safe for concurrent reads while
// the poll goroutine merges new parse results in.
type state struct {
	mu   sync.RWMutex
	data map[string]any
}

func newState() *state {
	return &state{data: make(map[string]any)}
}

// merge copies every key from fresh into the merged mapping, overwriting
// existing values and adding new keys. Keys absent from fresh are kept —
// accumulation, not replacement.
func (s *state) merge(fresh map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range fresh {
		s.data[k] = v
	}
}

// get returns the current value for key and whether the key has ever been
// seen in a successful parse.
func (s *state) get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// snapshot returns a shallow copy of the merged mapping. Nested values are
// shared with the internal state; callers must treat them as read-only.
func (s *state) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
