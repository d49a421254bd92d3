package core

// DefaultSiteID is assumed when an inbound payload omits siteId.
const DefaultSiteID = "default"

// Session tracks one active or queued dialogue turn-sequence. The session id
// is assigned by the dialogue manager at creation time and never changes.
// IntentFilter and SendIntentNotRecognized may only be mutated while the
// session is active, by a continue-session operation for that same session.
type Session struct {
	ID     string
	SiteID string

	// CustomData is echoed back in every outbound message for this session.
	CustomData string
	// IntentFilter restricts recognizer results; nil means unrestricted.
	IntentFilter            []string
	SendIntentNotRecognized bool

	// Start is the request that created the session. Its initializer tag
	// decides the notification vs action branch at (re)activation time.
	Start *StartSessionRequest
}

// NewSession creates a session for a start request with a manager-assigned id.
func NewSession(id, siteID string, start *StartSessionRequest) *Session {
	return &Session{ID: id, SiteID: siteID, Start: start}
}

// SessionStore holds the single active session (or none) and the FIFO
// pending queue. No operation blocks. Implementations are owned exclusively
// by the dialogue manager's coordination loop; see package engine for the
// serialization argument.
type SessionStore interface {
	// Active returns the current session, or nil when idle.
	Active() *Session
	// SetActive installs s as the active session.
	SetActive(s *Session)
	// ClearActive removes the active session, leaving the store idle.
	ClearActive()
	// Enqueue appends s to the back of the pending queue.
	Enqueue(s *Session)
	// EnqueueFront inserts s at the head of the pending queue. Used by
	// wake-word sessions, which jump ahead of ordinary queued sessions.
	EnqueueFront(s *Session)
	// DequeueFront pops and returns the queue head, or nil when empty.
	DequeueFront() *Session
	// QueueLen reports the number of pending sessions.
	QueueLen() int
}
