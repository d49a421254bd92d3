// Package bus defines the message bus contract the dialogue manager speaks
// over, plus an in-process implementation suitable for tests, examples and
// embedding. The wire transport used in deployments lives in the mqtt
// sub-package; the runner only ever sees the Bus interface, keeping the core
// decoupled from connection, reconnection and wire-level concerns.
//
// Topic filters follow MQTT semantics: "+" matches one level, a trailing
// "#" matches the remainder.
package bus
