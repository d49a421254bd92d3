// Package core provides the foundational domain types and interfaces for the
// dialogue manager. It defines:
//
//   - Messages (the Hermes bus contract: inbound requests/events and outbound
//     directives, each bound to its topic)
//   - Session (one coordinated dialogue turn-sequence) and the SessionStore
//     contract holding the single active session plus the pending queue
//   - Session initializer variants (notification vs action) and session
//     termination reasons
//
// The package intentionally keeps implementation concerns (transport,
// orchestration, concrete stores) out of scope, exposing small interfaces so
// higher layers stay decoupled from storage and wire details.
package core
