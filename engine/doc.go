// Package engine implements the dialogue session state machine.
//
// The Manager arbitrates exactly one active session at a time across the
// speech components on the bus: for every inbound event it decides whether a
// session starts, queues, continues, aborts or ends, and emits the ordered
// sequence of outbound directives the other components act on.
//
// # Concurrency model
//
// All session mutation happens on a single coordination loop goroutine
// (Run). Delivery goroutines never touch the session store; they hand
// closures to the loop via the public operation methods. Because the loop
// runs operations serially, store access needs no locking and the
// single-active-session invariant holds by construction. The only operation
// that bypasses the loop is SpeechFinished, which completes the speech wait
// coordinator; the coordinator owns its signal state behind a mutex
// precisely because the loop may be suspended inside a wait when the signal
// arrives.
package engine
