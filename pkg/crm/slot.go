package crm

import "sync"

// Slot holds the result of the latest fetch for one piece of UI state.
// Every fetch begins by taking a generation token; a completion only lands
// if its token is still the newest one. A slow response from an earlier
// fetch can therefore never overwrite a newer one, regardless of arrival
// order.
type Slot[T any] struct {
	mu    sync.Mutex
	gen   uint64
	value T
	set   bool
}

// Begin starts a new fetch generation and returns its token. Any
// generation taken earlier becomes stale immediately.
func (s *Slot[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Complete stores value if gen is still the current generation and reports
// whether the value landed. Stale completions are discarded.
func (s *Slot[T]) Complete(gen uint64, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.value = value
	s.set = true
	return true
}

// Get returns the latest landed value, if any.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Reset clears the stored value and invalidates every outstanding token.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.gen++
	s.value = zero
	s.set = false
}
