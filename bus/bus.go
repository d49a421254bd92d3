package bus

import "strings"

// Handler consumes a raw message delivered for a subscription. Handlers for
// the same subscription are invoked sequentially in delivery order; a
// handler must not assume which goroutine it runs on.
type Handler func(topic string, payload []byte)

// Bus is the publish/subscribe surface the dialogue manager requires.
type Bus interface {
	// Publish sends payload on a concrete topic.
	Publish(topic string, payload []byte) error
	// Subscribe registers a handler for a topic filter. Filters may use
	// MQTT wildcards ("+", trailing "#").
	Subscribe(filter string, h Handler) error
	// Close releases the bus. Pending deliveries may be dropped.
	Close() error
}

// MatchTopic reports whether an MQTT-style filter matches a concrete topic.
func MatchTopic(filter, topic string) bool {
	if filter == topic {
		return true
	}
	fp := strings.Split(filter, "/")
	tp := strings.Split(topic, "/")
	for i, f := range fp {
		if f == "#" {
			return i == len(fp)-1
		}
		if i >= len(tp) {
			return false
		}
		if f != "+" && f != tp[i] {
			return false
		}
	}
	return len(fp) == len(tp)
}
