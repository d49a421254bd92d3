package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msgpo/rhasspy-dialogue-hermes-1/core"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/logging"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/session"
)

// Manager is the dialogue session state machine. Public operation methods
// are safe for concurrent use: each hands a task to the coordination loop,
// which executes operations one at a time and emits outbound messages on
// Events() in emission order.
type Manager struct {
	store  core.SessionStore
	logger logging.Logger

	speech        *speechAwaiter
	speechTimeout time.Duration

	tasks  chan func(ctx context.Context)
	events chan core.Message
	done   chan struct{}
}

// New constructs a Manager with optional overrides.
func New(optFns ...func(o *Options)) *Manager {
	opts := Options{
		Config:       DefaultConfig,
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		store:         opts.SessionStore,
		logger:        opts.Logger,
		speech:        &speechAwaiter{},
		speechTimeout: opts.Config.SpeechTimeout,
		tasks:         make(chan func(ctx context.Context), opts.Config.TaskBufferSize),
		events:        make(chan core.Message, opts.Config.EventBufferSize),
		done:          make(chan struct{}),
	}
}

// Events returns the stream of outbound messages, in emission order. The
// channel is never closed while the manager runs; consumers should select
// against their own context.
func (m *Manager) Events() <-chan core.Message { return m.events }

// Run executes the coordination loop until ctx is cancelled. It must be
// called exactly once; operations posted before Run starts are buffered.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-m.tasks:
			task(ctx)
		}
	}
}

// post hands a task to the coordination loop, blocking while the task buffer
// is full. Tasks posted after shutdown are dropped.
func (m *Manager) post(name string, task func(ctx context.Context)) {
	select {
	case m.tasks <- task:
	case <-m.done:
		m.logger.Warn("dropping operation, manager stopped", "operation", name)
	}
}

// emit queues one outbound message, preserving emission order.
func (m *Manager) emit(ctx context.Context, msg core.Message) {
	select {
	case m.events <- msg:
	case <-ctx.Done():
	}
}

// ---------------------------------------------------------------------------
// Operations. Each schedules its handler onto the coordination loop.
// ---------------------------------------------------------------------------

// StartSession starts or queues a new dialogue session.
func (m *Manager) StartSession(req *core.StartSessionRequest) {
	m.post("startSession", func(ctx context.Context) {
		sess := core.NewSession(uuid.NewString(), req.SiteID, req)
		sess.CustomData = req.CustomData
		m.startSession(ctx, sess)
	})
}

// ContinueSession keeps the active session alive for another
// listen/recognize round, updating its fields from the request.
func (m *Manager) ContinueSession(req *core.ContinueSessionRequest) {
	m.post("continueSession", func(ctx context.Context) {
		active, err := m.requireSession(req.SessionID)
		if err != nil {
			m.logger.Warn("ignoring continue session request", "session_id", req.SessionID, "error", err)
			return
		}

		if req.CustomData != "" {
			active.CustomData = req.CustomData
		}
		if active.IntentFilter != nil {
			// A filtered session may only be re-filtered. The request value
			// is taken as given, even when nil; see the tests pinning this.
			active.IntentFilter = req.IntentFilter
		}
		active.SendIntentNotRecognized = req.SendIntentNotRecognized

		m.logger.Debug("continuing session", "session_id", active.ID)
		if req.Text != "" {
			m.sayAndWait(ctx, req.Text, active.SiteID, active.ID)
		}

		m.logger.Debug("listening for session", "session_id", active.ID)
		m.emit(ctx, &core.StartListening{SiteID: active.SiteID, SessionID: active.ID})
	})
}

// EndSession terminates the active session nominally, promoting the queue
// head if one is pending.
func (m *Manager) EndSession(req *core.EndSessionRequest) {
	m.post("endSession", func(ctx context.Context) {
		active, err := m.requireSession(req.SessionID)
		if err != nil {
			m.logger.Warn("ignoring end session request", "session_id", req.SessionID, "error", err)
			return
		}
		m.endSession(ctx, core.TerminationNominal, active.SiteID)
	})
}

// TextCaptured handles a final transcription: stop listening, query the
// intent recognizer.
func (m *Manager) TextCaptured(ev *core.TextCaptured) {
	m.post("textCaptured", func(ctx context.Context) {
		active, err := m.requireSession(ev.SessionID)
		if err != nil {
			m.logger.Warn("ignoring captured text", "session_id", ev.SessionID, "error", err)
			return
		}
		m.logger.Debug("received text", "text", ev.Text, "session_id", active.ID)

		m.emit(ctx, &core.StopListening{SiteID: ev.SiteID, SessionID: active.ID})
		m.emit(ctx, &core.NluQuery{
			Input:        ev.Text,
			IntentFilter: active.IntentFilter,
			SiteID:       ev.SiteID,
			SessionID:    active.ID,
		})
	})
}

// IntentRecognized records a successful recognition for the active session.
func (m *Manager) IntentRecognized(ev *core.IntentRecognized) {
	m.post("intentRecognized", func(ctx context.Context) {
		active, err := m.requireSession(ev.SessionID)
		if err != nil {
			m.logger.Warn("ignoring recognized intent", "session_id", ev.SessionID, "error", err)
			return
		}
		m.logger.Debug("intent recognized", "intent", ev.Intent.IntentName, "session_id", active.ID)
	})
}

// IntentNotRecognized handles a failed recognition: notify the requester if
// the session asked for it, then end the session.
func (m *Manager) IntentNotRecognized(ev *core.IntentNotRecognized) {
	m.post("intentNotRecognized", func(ctx context.Context) {
		active, err := m.requireSession(ev.SessionID)
		if err != nil {
			m.logger.Warn("ignoring recognition failure", "session_id", ev.SessionID, "error", err)
			return
		}

		m.logger.Warn("no intent recognized", "session_id", active.ID)
		if active.SendIntentNotRecognized {
			m.emit(ctx, &core.IntentNotRecognizedNotification{
				SessionID:  active.ID,
				SiteID:     ev.SiteID,
				CustomData: active.CustomData,
				Input:      ev.Input,
			})
		}

		m.endSession(ctx, core.TerminationIntentNotRecognized, ev.SiteID)
	})
}

// WakewordDetected preempts the active session in favor of a fresh
// non-queueable action session at the detecting site.
func (m *Manager) WakewordDetected(wakewordID string, ev *core.HotwordDetected) {
	m.post("wakewordDetected", func(ctx context.Context) {
		m.logger.Debug("hotword detected", "wakeword_id", wakewordID, "site_id", ev.SiteID)

		req := &core.StartSessionRequest{
			SiteID:     ev.SiteID,
			CustomData: wakewordID,
			Init:       core.SessionInit{Type: core.InitTypeAction, CanBeEnqueued: false},
		}
		sessionID := fmt.Sprintf("%s-%s-%s", ev.SiteID, wakewordID, uuid.NewString())
		sess := core.NewSession(sessionID, ev.SiteID, req)
		sess.CustomData = wakewordID

		if m.store.Active() != nil {
			// Jump the queue, then abort the current session; ending it
			// promotes the wake session to active.
			m.store.EnqueueFront(sess)
			m.endSession(ctx, core.TerminationAbortedByUser, ev.SiteID)
			return
		}
		m.startSession(ctx, sess)
	})
}

// SpeechFinished completes the outstanding speech wait, if the reported
// session matches it. Unlike the other operations this does not pass through
// the coordination loop: the loop is usually suspended inside the wait when
// the signal arrives.
func (m *Manager) SpeechFinished(ev *core.SayFinished) {
	if !m.speech.finish(ev.SessionID) {
		m.logger.Debug("ignoring speech finished with no matching wait", "session_id", ev.SessionID)
	}
}

// ---------------------------------------------------------------------------
// State machine internals. Everything below runs on the coordination loop.
// ---------------------------------------------------------------------------

// requireSession returns the active session if sessionID correlates to it.
func (m *Manager) requireSession(sessionID string) (*core.Session, error) {
	active := m.store.Active()
	if active == nil {
		return nil, core.ErrNoActiveSession
	}
	if sessionID != active.ID {
		return nil, core.ErrSessionMismatch
	}
	return active, nil
}

// activate installs sess as the active session and announces it.
func (m *Manager) activate(ctx context.Context, sess *core.Session) {
	m.logger.Debug("starting new session", "session_id", sess.ID)
	m.store.SetActive(sess)
	m.emit(ctx, &core.SessionStarted{
		SessionID:  sess.ID,
		SiteID:     sess.SiteID,
		CustomData: sess.CustomData,
	})
}

// startSession runs the initializer branch for a new or promoted session.
func (m *Manager) startSession(ctx context.Context, sess *core.Session) {
	init := sess.Start.Init

	if init.Type == core.InitTypeNotification {
		// Notification session: speak, then end immediately. When another
		// session is already active the spoken line is attributed to it and
		// ending falls on it as well.
		if m.store.Active() == nil {
			m.activate(ctx, sess)
		}
		if init.Text != "" {
			m.sayAndWait(ctx, init.Text, sess.SiteID, m.store.Active().ID)
		}
		m.endSession(ctx, core.TerminationNominal, sess.SiteID)
		return
	}

	// Action session.
	sess.IntentFilter = init.IntentFilter
	sess.SendIntentNotRecognized = init.SendIntentNotRecognized

	if m.store.Active() != nil {
		if init.CanBeEnqueued {
			m.store.Enqueue(sess)
			m.emit(ctx, &core.SessionQueued{
				SessionID:  sess.ID,
				SiteID:     sess.SiteID,
				CustomData: sess.CustomData,
			})
			return
		}
		m.logger.Warn("session was dropped", "session_id", sess.ID, "site_id", sess.SiteID)
		return
	}

	m.activate(ctx, sess)
	if init.Text != "" {
		m.sayAndWait(ctx, init.Text, sess.SiteID, sess.ID)
	}

	m.logger.Debug("listening for session", "session_id", sess.ID)
	m.emit(ctx, &core.StartListening{SiteID: sess.SiteID, SessionID: sess.ID})
}

// endSession announces termination of the active session, clears it and
// promotes the pending queue head, forwarding everything the promotion
// emits. Callers ensure a session is active.
func (m *Manager) endSession(ctx context.Context, reason core.TerminationReason, siteID string) {
	active := m.store.Active()
	m.logger.Debug("session ended", "session_id", active.ID, "reason", string(reason))

	m.emit(ctx, &core.SessionEnded{
		SessionID:   active.ID,
		SiteID:      siteID,
		CustomData:  active.CustomData,
		Termination: core.Termination{Reason: reason},
	})
	m.store.ClearActive()

	if next := m.store.DequeueFront(); next != nil {
		m.logger.Debug("handling queued session", "session_id", next.ID)
		m.startSession(ctx, next)
	}
}

// sayAndWait forwards text to the text-to-speech component and suspends the
// operation until playback is confirmed or the timeout elapses. A timeout is
// logged and treated as completion.
func (m *Manager) sayAndWait(ctx context.Context, text, siteID, sessionID string) {
	finished := m.speech.arm(sessionID)

	m.logger.Debug("say", "text", text, "session_id", sessionID)
	m.emit(ctx, &core.Say{Text: text, SiteID: siteID, SessionID: sessionID})

	timer := time.NewTimer(m.speechTimeout)
	defer timer.Stop()
	select {
	case <-finished:
	case <-timer.C:
		m.logger.Warn("timed out waiting for speech to finish", "session_id", sessionID)
	case <-ctx.Done():
	}
}
