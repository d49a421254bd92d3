package core

import "strings"

// Hermes topics handled by the dialogue manager. Parametric topics
// (per-intent, per-wakeword) have helper constructors below.
const (
	TopicStartSession        = "hermes/dialogueManager/startSession"
	TopicContinueSession     = "hermes/dialogueManager/continueSession"
	TopicEndSession          = "hermes/dialogueManager/endSession"
	TopicSessionStarted      = "hermes/dialogueManager/sessionStarted"
	TopicSessionQueued       = "hermes/dialogueManager/sessionQueued"
	TopicSessionEnded        = "hermes/dialogueManager/sessionEnded"
	TopicIntentNotRecognized = "hermes/dialogueManager/intentNotRecognized"

	TopicSay         = "hermes/tts/say"
	TopicSayFinished = "hermes/tts/sayFinished"

	TopicStartListening = "hermes/asr/startListening"
	TopicStopListening  = "hermes/asr/stopListening"
	TopicTextCaptured   = "hermes/asr/textCaptured"

	TopicNluQuery               = "hermes/nlu/query"
	TopicNluIntentNotRecognized = "hermes/nlu/intentNotRecognized"

	// TopicIntentWildcard subscribes to every recognized intent
	// (hermes/intent/<intentName>).
	TopicIntentWildcard = "hermes/intent/#"
)

// HotwordTopic returns the detection topic for a single wakeword id.
func HotwordTopic(wakewordID string) string {
	return "hermes/hotword/" + wakewordID + "/detected"
}

// IntentTopic returns the publication topic for a recognized intent name.
func IntentTopic(intentName string) string {
	return "hermes/intent/" + intentName
}

// IsIntentTopic reports whether a concrete topic carries a recognized intent.
func IsIntentTopic(topic string) bool {
	return strings.HasPrefix(topic, "hermes/intent/")
}
