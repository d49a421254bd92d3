package engine

import (
	"time"

	"github.com/msgpo/rhasspy-dialogue-hermes-1/core"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/logging"
)

// Config defines tuning parameters for the Manager's operational behavior.
type Config struct {
	// SpeechTimeout bounds how long an operation waits for the
	// text-to-speech component to confirm playback before proceeding
	// anyway. The timeout is logged, never surfaced as a failure.
	SpeechTimeout time.Duration

	// EventBufferSize sets the channel buffer for outbound messages.
	// Larger buffers reduce blocking but increase memory usage.
	EventBufferSize int

	// TaskBufferSize sets how many pending operations the coordination
	// loop accepts before delivery goroutines block on hand-off.
	TaskBufferSize int
}

// DefaultConfig provides production-ready default configuration values.
var DefaultConfig = Config{
	SpeechTimeout:   10 * time.Second,
	EventBufferSize: 100,
	TaskBufferSize:  64,
}

// Options configures a Manager instance using the functional options pattern.
type Options struct {
	// Config contains operational parameters (timeouts, buffering).
	// Defaults to DefaultConfig.
	Config Config

	// SessionStore holds the active session and the pending queue.
	// Defaults to an in-memory implementation.
	SessionStore core.SessionStore

	// Logger provides structured logging. Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// WithSpeechTimeout overrides the speech-finished wait timeout.
func WithSpeechTimeout(d time.Duration) func(o *Options) {
	return func(o *Options) { o.Config.SpeechTimeout = d }
}

// WithSessionStore overrides the session store implementation.
func WithSessionStore(store core.SessionStore) func(o *Options) {
	return func(o *Options) { o.SessionStore = store }
}

// WithLogger overrides the logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}
