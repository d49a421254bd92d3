// Package runner binds the dialogue engine to a message bus.
//
// The Router subscribes to the Hermes topics the dialogue manager consumes,
// decodes payloads, applies the configured site allow-list, and hands each
// event to the matching engine operation. Outbound messages emitted by the
// engine are forwarded to the bus strictly in emission order.
//
// All failures are contained here: a malformed payload or a filtered-out
// event is logged and dropped, and never prevents the router from handling
// subsequent independent events. No failure is surfaced back over the bus.
package runner
