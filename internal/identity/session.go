package identity

import (
	"sync"
	"time"
)

// Session is the authenticated identity snapshot held by [SessionState].
// A nil *Session means anonymous.
type Session struct {
	UID         string
	Email       string
	DisplayName string
	StartedAt   time.Time
}

// SessionState holds the process's current session and its observers.
//
// It replaces an implicit global: construct one, hand it to the [Manager]
// that transitions it and to whatever reads it (for example the navigation
// guard). At most one identity is authenticated at a time.
type SessionState struct {
	mu          sync.Mutex
	current     *Session
	subscribers map[int]func(*Session)
	nextID      int
}

// NewSessionState creates an empty, anonymous SessionState.
func NewSessionState() *SessionState {
	return &SessionState{subscribers: make(map[int]func(*Session))}
}

// Current returns the last-observed session snapshot, nil when anonymous.
func (s *SessionState) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Authenticated reports whether a session is active.
func (s *SessionState) Authenticated() bool {
	return s.Current() != nil
}

// Observe registers fn to be invoked with the current snapshot immediately
// and again on every transition. The returned function removes the
// subscription; once it returns, no later transition notifies fn. A
// notification already in flight on another goroutine may still deliver.
func (s *SessionState) Observe(fn func(*Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// set replaces the current session and notifies every subscriber.
func (s *SessionState) set(sess *Session) {
	s.mu.Lock()
	s.current = sess
	fns := make([]func(*Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}
