package engine

import "sync"

// speechAwaiter tracks the single outstanding speech-finished wait. Only one
// wait is supported at a time, matching the single-active-session rule:
// arming for a new utterance clears any stale signal state first.
//
// finish is called from delivery goroutines while the coordination loop may
// be blocked inside the wait, so the awaiter guards its state with a mutex
// rather than relying on loop ownership.
type speechAwaiter struct {
	mu        sync.Mutex
	sessionID string
	finished  chan struct{}
}

// arm registers a wait for the given session and returns the channel that
// closes when a matching finish arrives.
func (a *speechAwaiter) arm(sessionID string) <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessionID = sessionID
	a.finished = make(chan struct{})
	return a.finished
}

// finish completes the outstanding wait if its session id matches. Returns
// false when there is no armed wait or the id differs.
func (a *speechAwaiter) finish(sessionID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished == nil || a.sessionID != sessionID {
		return false
	}
	close(a.finished)
	a.finished = nil
	a.sessionID = ""
	return true
}
