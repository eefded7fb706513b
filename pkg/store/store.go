package store

import "sync"

// Subscriber is a render callback registered by the directive orchestrator.
// Subscribers receive no arguments: they re-derive what changed by
// re-evaluating expressions against the now-current state.
type Subscriber func()

// Store holds the mutable page state and its render subscribers. It is an
// explicit instance passed to every collaborator rather than a process-wide
// global, so independent pages (and tests) get independent stores.
type Store struct {
	mu    sync.RWMutex
	data  any
	route string
	theme string

	// extra holds writes to fields the store does not model. Writing an
	// unknown field is not an error; it is simply added.
	extra map[string]any

	// subs is append-only. A subscriber whose root has been detached from
	// the document is never removed; its notifications become no-ops.
	subMu sync.Mutex
	subs  []Subscriber
}

// New creates a store with the given initial route and theme. Data starts
// nil and is replaced wholesale when the content payload loads.
func New(route, theme string) *Store {
	return &Store{
		route: route,
		theme: theme,
		extra: make(map[string]any),
	}
}

// Data returns the current content payload.
func (s *Store) Data() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Route returns the current page identifier.
func (s *Store) Route() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.route
}

// Theme returns the current theme name.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Get returns the named top-level field and whether the store knows it.
func (s *Store) Get(field string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch field {
	case "data":
		return s.data, true
	case "route":
		return s.route, true
	case "theme":
		return s.theme, true
	}
	v, ok := s.extra[field]
	return v, ok
}

// Set writes a top-level field and synchronously notifies every subscriber.
// Writes are never batched or deduplicated: N writes cause N notification
// rounds, even when the value is unchanged.
func (s *Store) Set(field string, value any) {
	s.Put(field, value)
	s.Notify()
}

// Put writes a top-level field without notifying. Directive handlers use it
// so a user action yields exactly one notification round, triggered by the
// handler itself.
func (s *Store) Put(field string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch field {
	case "data":
		s.data = value
	case "route":
		s.route, _ = value.(string)
	case "theme":
		s.theme, _ = value.(string)
	default:
		s.extra[field] = value
	}
}

// Subscribe appends a render callback. Subscribers run in registration
// order on every notification round and are never removed.
func (s *Store) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

// Notify invokes every subscriber in registration order. The subscriber
// list is copied before the round so callbacks may read and even subscribe
// without holding the lock; a subscriber added mid-round joins the next one.
func (s *Store) Notify() {
	s.subMu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribers returns the number of registered render callbacks.
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}
