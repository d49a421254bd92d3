package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/msgpo/rhasspy-dialogue-hermes-1/bus"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/core"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/engine"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/logging"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// SiteIDs is the site allow-list. Empty accepts all sites.
	SiteIDs []string
	// WakewordIDs lists the wake words to subscribe for; each maps to its
	// own detection topic.
	WakewordIDs []string
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// WithSiteIDs restricts inbound events to the given sites.
func WithSiteIDs(siteIDs ...string) func(o *Options) {
	return func(o *Options) { o.SiteIDs = siteIDs }
}

// WithWakewordIDs sets the wake words to listen for.
func WithWakewordIDs(wakewordIDs ...string) func(o *Options) {
	return func(o *Options) { o.WakewordIDs = wakewordIDs }
}

// WithLogger overrides the logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// Router dispatches inbound bus events to engine operations and publishes
// the engine's emissions. Construct with New, then call Start once.
type Router struct {
	bus     bus.Bus
	manager *engine.Manager

	siteIDs     map[string]struct{}
	wakewordIDs []string
	logger      logging.Logger
}

// New constructs a Router with optional overrides.
func New(b bus.Bus, m *engine.Manager, optFns ...func(o *Options)) *Router {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var sites map[string]struct{}
	if len(opts.SiteIDs) > 0 {
		sites = make(map[string]struct{}, len(opts.SiteIDs))
		for _, id := range opts.SiteIDs {
			sites[id] = struct{}{}
		}
	}

	return &Router{
		bus:         b,
		manager:     m,
		siteIDs:     sites,
		wakewordIDs: opts.WakewordIDs,
		logger:      opts.Logger,
	}
}

// Start subscribes to all dialogue topics and launches the publish loop
// forwarding engine emissions to the bus. It returns after wiring is in
// place; delivery then runs until ctx is cancelled.
func (r *Router) Start(ctx context.Context) error {
	subscriptions := map[string]bus.Handler{
		core.TopicStartSession:           r.onStartSession,
		core.TopicContinueSession:        r.onContinueSession,
		core.TopicEndSession:             r.onEndSession,
		core.TopicSayFinished:            r.onSayFinished,
		core.TopicTextCaptured:           r.onTextCaptured,
		core.TopicIntentWildcard:         r.onIntentRecognized,
		core.TopicNluIntentNotRecognized: r.onIntentNotRecognized,
	}
	for topic, handler := range subscriptions {
		if err := r.bus.Subscribe(topic, handler); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		r.logger.Debug("subscribed", "topic", topic)
	}

	for _, wakewordID := range r.wakewordIDs {
		topic := core.HotwordTopic(wakewordID)
		wakewordID := wakewordID
		handler := func(_ string, payload []byte) {
			r.onHotwordDetected(wakewordID, payload)
		}
		if err := r.bus.Subscribe(topic, handler); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		r.logger.Debug("subscribed", "topic", topic)
	}

	go r.publishLoop(ctx)
	return nil
}

// publishLoop drains the engine's emission stream to the bus, preserving
// emission order.
func (r *Router) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-r.manager.Events():
			payload, err := json.Marshal(msg)
			if err != nil {
				r.logger.Error("failed to encode outbound message", "topic", msg.Topic(), "error", err)
				continue
			}
			if err := r.bus.Publish(msg.Topic(), payload); err != nil {
				r.logger.Error("failed to publish", "topic", msg.Topic(), "error", err)
			}
		}
	}
}

// siteAllowed applies the site allow-list; an empty list accepts all sites.
func (r *Router) siteAllowed(siteID string) bool {
	if r.siteIDs == nil {
		return true
	}
	_, ok := r.siteIDs[siteID]
	return ok
}

func siteOrDefault(siteID string) string {
	if siteID == "" {
		return core.DefaultSiteID
	}
	return siteID
}

func (r *Router) onStartSession(_ string, payload []byte) {
	var req core.StartSessionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.logger.Error("discarding malformed start session payload", "error", err)
		return
	}
	req.SiteID = siteOrDefault(req.SiteID)
	if !r.siteAllowed(req.SiteID) {
		r.logger.Debug("discarding start session for filtered site", "site_id", req.SiteID)
		return
	}
	r.manager.StartSession(&req)
}

func (r *Router) onContinueSession(_ string, payload []byte) {
	var req core.ContinueSessionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.logger.Error("discarding malformed continue session payload", "error", err)
		return
	}
	if !r.siteAllowed(siteOrDefault(req.SiteID)) {
		r.logger.Debug("discarding continue session for filtered site", "site_id", req.SiteID)
		return
	}
	r.manager.ContinueSession(&req)
}

func (r *Router) onEndSession(_ string, payload []byte) {
	var req core.EndSessionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.logger.Error("discarding malformed end session payload", "error", err)
		return
	}
	if !r.siteAllowed(siteOrDefault(req.SiteID)) {
		r.logger.Debug("discarding end session for filtered site", "site_id", req.SiteID)
		return
	}
	r.manager.EndSession(&req)
}

func (r *Router) onSayFinished(_ string, payload []byte) {
	var ev core.SayFinished
	if err := json.Unmarshal(payload, &ev); err != nil {
		r.logger.Error("discarding malformed say finished payload", "error", err)
		return
	}
	r.manager.SpeechFinished(&ev)
}

func (r *Router) onTextCaptured(_ string, payload []byte) {
	var ev core.TextCaptured
	if err := json.Unmarshal(payload, &ev); err != nil {
		r.logger.Error("discarding malformed text captured payload", "error", err)
		return
	}
	ev.SiteID = siteOrDefault(ev.SiteID)
	r.manager.TextCaptured(&ev)
}

func (r *Router) onIntentRecognized(topic string, payload []byte) {
	if !core.IsIntentTopic(topic) {
		return
	}
	var ev core.IntentRecognized
	if err := json.Unmarshal(payload, &ev); err != nil {
		r.logger.Error("discarding malformed intent payload", "topic", topic, "error", err)
		return
	}
	r.manager.IntentRecognized(&ev)
}

func (r *Router) onIntentNotRecognized(_ string, payload []byte) {
	var ev core.IntentNotRecognized
	if err := json.Unmarshal(payload, &ev); err != nil {
		r.logger.Error("discarding malformed intent not recognized payload", "error", err)
		return
	}
	ev.SiteID = siteOrDefault(ev.SiteID)
	r.manager.IntentNotRecognized(&ev)
}

func (r *Router) onHotwordDetected(wakewordID string, payload []byte) {
	var ev core.HotwordDetected
	if err := json.Unmarshal(payload, &ev); err != nil {
		r.logger.Error("discarding malformed hotword payload", "wakeword_id", wakewordID, "error", err)
		return
	}
	ev.SiteID = siteOrDefault(ev.SiteID)
	if !r.siteAllowed(ev.SiteID) {
		r.logger.Debug("discarding hotword for filtered site", "site_id", ev.SiteID)
		return
	}
	r.manager.WakewordDetected(wakewordID, &ev)
}
