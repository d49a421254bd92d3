package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionInit_TaggedDecode(t *testing.T) {
	var req StartSessionRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"siteId": "kitchen",
		"customData": "caller",
		"init": {
			"type": "action",
			"text": "yes?",
			"canBeEnqueued": true,
			"intentFilter": ["SetTimer"],
			"sendIntentNotRecognized": true
		}
	}`), &req))

	assert.Equal(t, InitTypeAction, req.Init.Type)
	assert.Equal(t, "yes?", req.Init.Text)
	assert.True(t, req.Init.CanBeEnqueued)
	assert.Equal(t, []string{"SetTimer"}, req.Init.IntentFilter)
	assert.True(t, req.Init.SendIntentNotRecognized)

	require.NoError(t, json.Unmarshal([]byte(`{
		"siteId": "kitchen",
		"init": {"type": "notification", "text": "door open"}
	}`), &req))
	assert.Equal(t, InitTypeNotification, req.Init.Type)

	// An absent intentFilter decodes to nil, which means unrestricted.
	require.NoError(t, json.Unmarshal([]byte(`{"init": {"type": "action"}}`), &req))
	assert.Nil(t, req.Init.IntentFilter)
}

func TestSessionEnded_CarriesTerminationReason(t *testing.T) {
	payload, err := json.Marshal(&SessionEnded{
		SessionID:   "s1",
		SiteID:      "default",
		Termination: Termination{Reason: TerminationAbortedByUser},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sessionId": "s1",
		"siteId": "default",
		"termination": {"reason": "abortedByUser"}
	}`, string(payload))
}

func TestParametricTopics(t *testing.T) {
	assert.Equal(t, "hermes/hotword/porcupine/detected", HotwordTopic("porcupine"))
	assert.Equal(t, "hermes/intent/GetTime", IntentTopic("GetTime"))
	assert.True(t, IsIntentTopic("hermes/intent/GetTime"))
	assert.False(t, IsIntentTopic("hermes/nlu/intentNotRecognized"))

	recognized := &IntentRecognized{Intent: Intent{IntentName: "GetTime"}}
	assert.Equal(t, "hermes/intent/GetTime", recognized.Topic())
}
