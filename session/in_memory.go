package session

import (
	"github.com/msgpo/rhasspy-dialogue-hermes-1/core"
)

// InMemoryStore is a volatile SessionStore holding the active session slot
// and the pending deque in process memory. Session history is never
// persisted.
//
// The store carries no lock: core.SessionStore is mutated only from the
// dialogue manager's single coordination loop, which serializes every
// operation (see engine.Manager). Delivery goroutines hand work off to the
// loop instead of touching the store.
type InMemoryStore struct {
	active *core.Session
	queue  []*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Active returns the current session, or nil when idle.
func (s *InMemoryStore) Active() *core.Session { return s.active }

// SetActive installs sess as the active session.
func (s *InMemoryStore) SetActive(sess *core.Session) { s.active = sess }

// ClearActive removes the active session.
func (s *InMemoryStore) ClearActive() { s.active = nil }

// Enqueue appends sess to the back of the pending queue.
func (s *InMemoryStore) Enqueue(sess *core.Session) {
	s.queue = append(s.queue, sess)
}

// EnqueueFront inserts sess at the head of the pending queue.
func (s *InMemoryStore) EnqueueFront(sess *core.Session) {
	s.queue = append([]*core.Session{sess}, s.queue...)
}

// DequeueFront pops and returns the queue head, or nil when empty.
func (s *InMemoryStore) DequeueFront() *core.Session {
	if len(s.queue) == 0 {
		return nil
	}
	sess := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return sess
}

// QueueLen reports the number of pending sessions.
func (s *InMemoryStore) QueueLen() int { return len(s.queue) }
