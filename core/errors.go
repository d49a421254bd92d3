package core

import "errors"

// Protocol violations. These are contained at the dispatch boundary and
// logged, never surfaced back over the bus.
var (
	// ErrNoActiveSession signals an operation that requires an active
	// session while the store is idle.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionMismatch signals an event whose session id does not match
	// the active session.
	ErrSessionMismatch = errors.New("session id does not match active session")
)
