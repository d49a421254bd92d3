package bus

import (
	"fmt"
	"sync"

	"github.com/msgpo/rhasspy-dialogue-hermes-1/logging"
)

type delivery struct {
	topic   string
	payload []byte
}

type subscription struct {
	filter string
	ch     chan delivery
	done   chan struct{}
}

// InMemoryBus is a process-local Bus backed by per-subscription channels.
// Each subscription gets its own dispatch goroutine so one slow handler
// cannot stall publishers or sibling subscriptions, while deliveries for a
// single subscription stay ordered.
type InMemoryBus struct {
	mu     sync.RWMutex
	subs   []*subscription
	closed bool

	bufferSize int
	logger     logging.Logger
	wg         sync.WaitGroup
}

// InMemoryOptions configures an InMemoryBus.
type InMemoryOptions struct {
	// BufferSize sets per-subscription channel buffering.
	BufferSize int
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// NewInMemoryBus constructs an in-process bus with optional overrides.
func NewInMemoryBus(optFns ...func(o *InMemoryOptions)) *InMemoryBus {
	opts := InMemoryOptions{
		BufferSize: 64,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryBus{bufferSize: opts.BufferSize, logger: opts.Logger}
}

// Subscribe registers a handler for a topic filter and starts its dispatch
// goroutine.
func (b *InMemoryBus) Subscribe(filter string, h Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("bus is closed")
	}

	sub := &subscription{
		filter: filter,
		ch:     make(chan delivery, b.bufferSize),
		done:   make(chan struct{}),
	}
	b.subs = append(b.subs, sub)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-sub.done:
				return
			case d := <-sub.ch:
				h(d.topic, d.payload)
			}
		}
	}()

	b.logger.Debug("subscribed", "filter", filter)
	return nil
}

// Publish delivers payload to every subscription whose filter matches topic.
// Deliveries to a saturated subscription are dropped with a warning rather
// than blocking the publisher.
func (b *InMemoryBus) Publish(topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("bus is closed")
	}

	for _, sub := range b.subs {
		if !MatchTopic(sub.filter, topic) {
			continue
		}
		select {
		case sub.ch <- delivery{topic: topic, payload: payload}:
		default:
			b.logger.Warn("dropping delivery, subscriber saturated", "topic", topic, "filter", sub.filter)
		}
	}
	return nil
}

// Close stops all dispatch goroutines and rejects further operations.
func (b *InMemoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.done)
	}
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
