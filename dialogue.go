// Package dialogue provides a high-level façade over the session engine and
// dispatch runner, enabling construction of a complete dialogue manager in a
// few lines. Most applications interact with this package by:
//  1. Creating a Dialogue via New() with a connected bus (MQTT or in-process)
//  2. Optionally restricting sites and configuring wake words
//  3. Calling Run(ctx), which serves the bus until the context is cancelled
//
// The façade delegates session arbitration to engine.Manager and bus wiring
// to runner.Router. All defaults are safe for local development and testing;
// deployments typically supply a broker-backed bus and a structured logger.
package dialogue

import (
	"context"

	"github.com/msgpo/rhasspy-dialogue-hermes-1/bus"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/core"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/engine"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/logging"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/runner"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/session"
)

// Options configures the Dialogue instance.
type Options struct {
	// EngineConfig tunes the session engine (speech timeout, buffering).
	EngineConfig engine.Config

	// SiteIDs is the site allow-list. Empty accepts all sites.
	SiteIDs []string

	// WakewordIDs lists the wake words to subscribe detection topics for.
	WakewordIDs []string

	// SessionStore defaults to an in-memory implementation.
	SessionStore core.SessionStore

	// Logger defaults to NoOp logger if nil.
	Logger logging.Logger
}

// Dialogue is the high-level façade aggregating the session engine and the
// bus-facing runner.
type Dialogue struct {
	manager *engine.Manager
	router  *runner.Router
}

// New creates a Dialogue served over the given bus, with optional overrides.
func New(b bus.Bus, optFns ...func(o *Options)) *Dialogue {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.SessionStore = opts.SessionStore
		o.Logger = opts.Logger
	})

	r := runner.New(b, m,
		runner.WithSiteIDs(opts.SiteIDs...),
		runner.WithWakewordIDs(opts.WakewordIDs...),
		runner.WithLogger(opts.Logger),
	)

	return &Dialogue{manager: m, router: r}
}

// Run subscribes to the dialogue topics and serves the session engine until
// ctx is cancelled.
func (d *Dialogue) Run(ctx context.Context) error {
	if err := d.router.Start(ctx); err != nil {
		return err
	}
	d.manager.Run(ctx)
	return nil
}
