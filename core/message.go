package core

// Message is implemented by every payload the dialogue manager publishes or
// consumes. After emission a message should be treated as immutable.
type Message interface {
	// Topic returns the bus topic the message belongs on.
	Topic() string
}

// InitType tags the session initializer variant of a StartSessionRequest.
type InitType string

const (
	// InitTypeAction starts an interactive session that listens for speech
	// and may be queued behind (or dropped in favor of) an active session.
	InitTypeAction InitType = "action"
	// InitTypeNotification starts a one-shot, speak-then-end session with no
	// listening phase. Notification sessions never queue.
	InitTypeNotification InitType = "notification"
)

// SessionInit is the tagged initializer variant carried by a start request.
// Dispatch happens on Type; the remaining fields apply to action sessions
// only (Text is shared by both variants).
type SessionInit struct {
	Type InitType `json:"type"`
	Text string   `json:"text,omitempty"`

	// CanBeEnqueued controls conflict behavior for action sessions: queue
	// behind the active session when true, drop silently when false.
	CanBeEnqueued           bool     `json:"canBeEnqueued,omitempty"`
	IntentFilter            []string `json:"intentFilter,omitempty"`
	SendIntentNotRecognized bool     `json:"sendIntentNotRecognized,omitempty"`
}

// TerminationReason explains why a session ended.
type TerminationReason string

const (
	TerminationNominal             TerminationReason = "nominal"
	TerminationAbortedByUser       TerminationReason = "abortedByUser"
	TerminationIntentNotRecognized TerminationReason = "intentNotRecognized"
	TerminationTimeout             TerminationReason = "timeout"
)

// Termination wraps the reason a session ended for the wire payload.
type Termination struct {
	Reason TerminationReason `json:"reason"`
}

// ---------------------------------------------------------------------------
// Inbound messages
// ---------------------------------------------------------------------------

// StartSessionRequest asks the dialogue manager to start (or queue) a new
// session at a site.
type StartSessionRequest struct {
	SiteID     string      `json:"siteId"`
	Init       SessionInit `json:"init"`
	CustomData string      `json:"customData,omitempty"`
}

func (m *StartSessionRequest) Topic() string { return TopicStartSession }

// ContinueSessionRequest asks the manager to keep the active session alive
// for another listen/recognize round, optionally updating session fields.
type ContinueSessionRequest struct {
	SessionID               string   `json:"sessionId"`
	SiteID                  string   `json:"siteId,omitempty"`
	CustomData              string   `json:"customData,omitempty"`
	Text                    string   `json:"text,omitempty"`
	IntentFilter            []string `json:"intentFilter,omitempty"`
	SendIntentNotRecognized bool     `json:"sendIntentNotRecognized,omitempty"`
}

func (m *ContinueSessionRequest) Topic() string { return TopicContinueSession }

// EndSessionRequest asks the manager to terminate the active session.
type EndSessionRequest struct {
	SessionID string `json:"sessionId"`
	SiteID    string `json:"siteId,omitempty"`
	Text      string `json:"text,omitempty"`
}

func (m *EndSessionRequest) Topic() string { return TopicEndSession }

// SayFinished reports that text-to-speech playback completed.
type SayFinished struct {
	SiteID    string `json:"siteId"`
	SessionID string `json:"sessionId,omitempty"`
	ID        string `json:"id,omitempty"`
}

func (m *SayFinished) Topic() string { return TopicSayFinished }

// TextCaptured carries a final speech-to-text transcription.
type TextCaptured struct {
	Text       string  `json:"text"`
	Likelihood float64 `json:"likelihood"`
	Seconds    float64 `json:"seconds"`
	SiteID     string  `json:"siteId"`
	SessionID  string  `json:"sessionId,omitempty"`
}

func (m *TextCaptured) Topic() string { return TopicTextCaptured }

// Intent identifies a recognized intent and its confidence.
type Intent struct {
	IntentName      string  `json:"intentName"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// IntentRecognized reports a successful recognition for the active session.
// Published on hermes/intent/<intentName>; Topic reflects the intent name.
type IntentRecognized struct {
	Input      string `json:"input"`
	Intent     Intent `json:"intent"`
	SiteID     string `json:"siteId"`
	SessionID  string `json:"sessionId,omitempty"`
	CustomData string `json:"customData,omitempty"`
}

func (m *IntentRecognized) Topic() string { return IntentTopic(m.Intent.IntentName) }

// IntentNotRecognized reports a failed recognition from the NLU engine.
type IntentNotRecognized struct {
	Input     string `json:"input"`
	SiteID    string `json:"siteId"`
	SessionID string `json:"sessionId,omitempty"`
}

func (m *IntentNotRecognized) Topic() string { return TopicNluIntentNotRecognized }

// HotwordDetected reports a wake word detection at a site.
type HotwordDetected struct {
	SiteID             string  `json:"siteId"`
	ModelID            string  `json:"modelId"`
	ModelVersion       string  `json:"modelVersion,omitempty"`
	ModelType          string  `json:"modelType,omitempty"`
	CurrentSensitivity float64 `json:"currentSensitivity,omitempty"`
}

// Topic returns the detection topic keyed by the detected model id. Inbound
// routing uses per-wakeword subscriptions instead (see HotwordTopic).
func (m *HotwordDetected) Topic() string { return HotwordTopic(m.ModelID) }

// ---------------------------------------------------------------------------
// Outbound messages
// ---------------------------------------------------------------------------

// SessionStarted announces that a session became active.
type SessionStarted struct {
	SessionID  string `json:"sessionId"`
	SiteID     string `json:"siteId"`
	CustomData string `json:"customData,omitempty"`
}

func (m *SessionStarted) Topic() string { return TopicSessionStarted }

// SessionQueued announces that a start request was parked behind the active
// session.
type SessionQueued struct {
	SessionID  string `json:"sessionId"`
	SiteID     string `json:"siteId"`
	CustomData string `json:"customData,omitempty"`
}

func (m *SessionQueued) Topic() string { return TopicSessionQueued }

// SessionEnded announces session termination, including the reason.
type SessionEnded struct {
	SessionID   string      `json:"sessionId"`
	SiteID      string      `json:"siteId"`
	CustomData  string      `json:"customData,omitempty"`
	Termination Termination `json:"termination"`
}

func (m *SessionEnded) Topic() string { return TopicSessionEnded }

// IntentNotRecognizedNotification forwards a failed recognition to the
// component that started the session. Only emitted when the session asked
// for it via sendIntentNotRecognized.
type IntentNotRecognizedNotification struct {
	SessionID  string `json:"sessionId"`
	SiteID     string `json:"siteId"`
	CustomData string `json:"customData,omitempty"`
	Input      string `json:"input,omitempty"`
}

func (m *IntentNotRecognizedNotification) Topic() string { return TopicIntentNotRecognized }

// Say directs the text-to-speech component to speak for a session.
type Say struct {
	Text      string `json:"text"`
	SiteID    string `json:"siteId"`
	SessionID string `json:"sessionId,omitempty"`
	Lang      string `json:"lang,omitempty"`
}

func (m *Say) Topic() string { return TopicSay }

// StartListening directs the speech-to-text component to begin capturing.
type StartListening struct {
	SiteID    string `json:"siteId"`
	SessionID string `json:"sessionId,omitempty"`
}

func (m *StartListening) Topic() string { return TopicStartListening }

// StopListening directs the speech-to-text component to stop capturing.
type StopListening struct {
	SiteID    string `json:"siteId"`
	SessionID string `json:"sessionId,omitempty"`
}

func (m *StopListening) Topic() string { return TopicStopListening }

// NluQuery asks the intent recognizer to classify captured text, restricted
// to the session's intent filter when present (nil means unrestricted).
type NluQuery struct {
	Input        string   `json:"input"`
	IntentFilter []string `json:"intentFilter,omitempty"`
	SiteID       string   `json:"siteId,omitempty"`
	SessionID    string   `json:"sessionId,omitempty"`
}

func (m *NluQuery) Topic() string { return TopicNluQuery }
