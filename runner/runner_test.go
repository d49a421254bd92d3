package runner

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgpo/rhasspy-dialogue-hermes-1/bus"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/core"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/engine"
)

type published struct {
	topic   string
	payload []byte
}

type fixture struct {
	bus      *bus.InMemoryBus
	outbound chan published
}

// newFixture wires a manager and router to an in-process bus and captures
// everything the dialogue manager publishes.
func newFixture(t *testing.T, optFns ...func(o *Options)) *fixture {
	t.Helper()

	b := bus.NewInMemoryBus()
	t.Cleanup(func() { b.Close() })

	m := engine.New(engine.WithSpeechTimeout(20 * time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go m.Run(ctx)

	f := &fixture{bus: b, outbound: make(chan published, 64)}

	// A single wildcard subscription keeps cross-topic ordering intact;
	// inbound topics published by the tests themselves are skipped.
	outTopics := map[string]struct{}{
		core.TopicSessionStarted:      {},
		core.TopicSessionQueued:       {},
		core.TopicSessionEnded:        {},
		core.TopicIntentNotRecognized: {},
		core.TopicSay:                 {},
		core.TopicStartListening:      {},
		core.TopicStopListening:       {},
		core.TopicNluQuery:            {},
	}
	require.NoError(t, b.Subscribe("hermes/#", func(topic string, payload []byte) {
		if _, ok := outTopics[topic]; !ok {
			return
		}
		f.outbound <- published{topic: topic, payload: payload}
	}))

	r := New(b, m, optFns...)
	require.NoError(t, r.Start(ctx))
	return f
}

func (f *fixture) publish(t *testing.T, topic string, v any) {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, f.bus.Publish(topic, payload))
}

func (f *fixture) next(t *testing.T) published {
	t.Helper()
	select {
	case p := <-f.outbound:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound message")
		return published{}
	}
}

func (f *fixture) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case p := <-f.outbound:
		t.Fatalf("unexpected outbound message on %s: %s", p.topic, p.payload)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRouter_StartSessionEndToEnd(t *testing.T) {
	f := newFixture(t)

	f.publish(t, core.TopicStartSession, map[string]any{
		"siteId": "kitchen",
		"init":   map[string]any{"type": "action"},
	})

	p := f.next(t)
	assert.Equal(t, core.TopicSessionStarted, p.topic)
	var started core.SessionStarted
	require.NoError(t, json.Unmarshal(p.payload, &started))
	assert.Equal(t, "kitchen", started.SiteID)
	assert.NotEmpty(t, started.SessionID)

	p = f.next(t)
	assert.Equal(t, core.TopicStartListening, p.topic)
}

func TestRouter_DefaultsMissingSiteID(t *testing.T) {
	f := newFixture(t)

	f.publish(t, core.TopicStartSession, map[string]any{
		"init": map[string]any{"type": "action"},
	})

	var started core.SessionStarted
	require.NoError(t, json.Unmarshal(f.next(t).payload, &started))
	assert.Equal(t, core.DefaultSiteID, started.SiteID)
}

func TestRouter_SiteAllowListFiltersEvents(t *testing.T) {
	f := newFixture(t, WithSiteIDs("kitchen"))

	f.publish(t, core.TopicStartSession, map[string]any{
		"siteId": "livingroom",
		"init":   map[string]any{"type": "action"},
	})
	f.expectSilence(t)

	f.publish(t, core.TopicStartSession, map[string]any{
		"siteId": "kitchen",
		"init":   map[string]any{"type": "action"},
	})
	assert.Equal(t, core.TopicSessionStarted, f.next(t).topic)
}

func TestRouter_MalformedPayloadDoesNotStopRouting(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bus.Publish(core.TopicStartSession, []byte("{not json")))
	f.expectSilence(t)

	f.publish(t, core.TopicStartSession, map[string]any{
		"siteId": "default",
		"init":   map[string]any{"type": "action"},
	})
	assert.Equal(t, core.TopicSessionStarted, f.next(t).topic)
}

func TestRouter_HotwordTopicRouting(t *testing.T) {
	f := newFixture(t, WithWakewordIDs("porcupine"))

	f.publish(t, core.HotwordTopic("porcupine"), map[string]any{
		"siteId":  "office",
		"modelId": "porcupine",
	})

	var started core.SessionStarted
	require.NoError(t, json.Unmarshal(f.next(t).payload, &started))
	assert.Equal(t, "office", started.SiteID)
	assert.Equal(t, "porcupine", started.CustomData)
	assert.Equal(t, core.TopicStartListening, f.next(t).topic)
}

func TestRouter_UnconfiguredHotwordIsIgnored(t *testing.T) {
	f := newFixture(t, WithWakewordIDs("porcupine"))

	f.publish(t, core.HotwordTopic("jarvis"), map[string]any{
		"siteId":  "office",
		"modelId": "jarvis",
	})
	f.expectSilence(t)
}

func TestRouter_SayFinishedCompletesSpeechWait(t *testing.T) {
	f := newFixture(t)

	f.publish(t, core.TopicStartSession, map[string]any{
		"siteId": "default",
		"init":   map[string]any{"type": "action", "text": "hello there"},
	})

	require.Equal(t, core.TopicSessionStarted, f.next(t).topic)
	p := f.next(t)
	require.Equal(t, core.TopicSay, p.topic)
	var say core.Say
	require.NoError(t, json.Unmarshal(p.payload, &say))

	f.publish(t, core.TopicSayFinished, map[string]any{
		"siteId":    "default",
		"sessionId": say.SessionID,
	})

	assert.Equal(t, core.TopicStartListening, f.next(t).topic)
}

func TestRouter_IntentWildcardAndRecognitionFlow(t *testing.T) {
	f := newFixture(t)

	f.publish(t, core.TopicStartSession, map[string]any{
		"siteId": "default",
		"init":   map[string]any{"type": "action", "intentFilter": []string{"GetTime"}},
	})
	var started core.SessionStarted
	require.NoError(t, json.Unmarshal(f.next(t).payload, &started))
	require.Equal(t, core.TopicStartListening, f.next(t).topic)

	f.publish(t, core.TopicTextCaptured, map[string]any{
		"text":      "what time is it",
		"siteId":    "default",
		"sessionId": started.SessionID,
	})
	assert.Equal(t, core.TopicStopListening, f.next(t).topic)
	p := f.next(t)
	assert.Equal(t, core.TopicNluQuery, p.topic)
	var query core.NluQuery
	require.NoError(t, json.Unmarshal(p.payload, &query))
	assert.Equal(t, []string{"GetTime"}, query.IntentFilter)

	// Recognized intents arrive on their own per-intent topic.
	f.publish(t, core.IntentTopic("GetTime"), map[string]any{
		"input":     "what time is it",
		"intent":    map[string]any{"intentName": "GetTime", "confidenceScore": 0.98},
		"siteId":    "default",
		"sessionId": started.SessionID,
	})
	f.expectSilence(t)
}

func TestRouter_IntentNotRecognizedEndsSession(t *testing.T) {
	f := newFixture(t)

	f.publish(t, core.TopicStartSession, map[string]any{
		"siteId": "default",
		"init":   map[string]any{"type": "action", "sendIntentNotRecognized": true},
	})
	var started core.SessionStarted
	require.NoError(t, json.Unmarshal(f.next(t).payload, &started))
	require.Equal(t, core.TopicStartListening, f.next(t).topic)

	f.publish(t, core.TopicNluIntentNotRecognized, map[string]any{
		"input":     "mumble",
		"siteId":    "default",
		"sessionId": started.SessionID,
	})

	p := f.next(t)
	assert.Equal(t, core.TopicIntentNotRecognized, p.topic)
	p = f.next(t)
	assert.Equal(t, core.TopicSessionEnded, p.topic)
	var ended core.SessionEnded
	require.NoError(t, json.Unmarshal(p.payload, &ended))
	assert.Equal(t, core.TerminationIntentNotRecognized, ended.Termination.Reason)
}
