// Package mqtt adapts an MQTT broker connection to the bus.Bus interface.
// Hermes deployments run all components against a shared broker; this
// adapter is the production transport for the dialogue manager.
package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/msgpo/rhasspy-dialogue-hermes-1/bus"
	"github.com/msgpo/rhasspy-dialogue-hermes-1/logging"
)

// Options configures the broker connection.
type Options struct {
	// BrokerURL is the broker address, e.g. "tcp://localhost:1883".
	BrokerURL string
	// ClientID identifies this client to the broker.
	ClientID string
	// Username and Password are optional broker credentials.
	Username string
	Password string
	// ConnectTimeout bounds the initial connect.
	ConnectTimeout time.Duration
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Client is a bus.Bus backed by a paho MQTT connection. Reconnection is
// delegated to paho's auto-reconnect; subscriptions are re-established
// through the OnConnect hook so a broker restart does not silence the
// dialogue manager.
type Client struct {
	client pahomqtt.Client
	logger logging.Logger

	mu   sync.Mutex
	subs map[string]bus.Handler
}

var _ bus.Bus = (*Client)(nil)

// Connect dials the broker and returns a connected client.
func Connect(brokerURL string, optFns ...func(o *Options)) (*Client, error) {
	opts := Options{
		BrokerURL:      brokerURL,
		ClientID:       "rhasspy-dialogue",
		ConnectTimeout: 30 * time.Second,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Client{logger: opts.Logger, subs: make(map[string]bus.Handler)}

	pahoOpts := pahomqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(opts.ConnectTimeout).
		SetOnConnectHandler(func(pahomqtt.Client) {
			c.logger.Info("connected to broker", "broker", opts.BrokerURL)
			c.resubscribe()
		}).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			c.logger.Warn("broker connection lost", "error", err)
		})
	if opts.Username != "" {
		pahoOpts.SetUsername(opts.Username)
		pahoOpts.SetPassword(opts.Password)
	}

	c.client = pahomqtt.NewClient(pahoOpts)
	token := c.client.Connect()
	if !token.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("timed out connecting to %s", opts.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.BrokerURL, err)
	}
	return c, nil
}

// Publish sends payload on a concrete topic at QoS 0.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	c.logger.Debug("published", "topic", topic, "bytes", len(payload))
	return nil
}

// Subscribe registers a handler for an MQTT topic filter at QoS 0. The
// subscription is recorded so it survives reconnects.
func (c *Client) Subscribe(filter string, h bus.Handler) error {
	c.mu.Lock()
	c.subs[filter] = h
	c.mu.Unlock()

	if err := c.subscribe(filter, h); err != nil {
		return err
	}
	c.logger.Debug("subscribed", "filter", filter)
	return nil
}

func (c *Client) subscribe(filter string, h bus.Handler) error {
	token := c.client.Subscribe(filter, 0, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		h(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", filter, err)
	}
	return nil
}

// resubscribe replays recorded subscriptions after a (re)connect.
func (c *Client) resubscribe() {
	c.mu.Lock()
	subs := make(map[string]bus.Handler, len(c.subs))
	for filter, h := range c.subs {
		subs[filter] = h
	}
	c.mu.Unlock()

	for filter, h := range subs {
		if err := c.subscribe(filter, h); err != nil {
			c.logger.Error("failed to restore subscription", "filter", filter, "error", err)
		}
	}
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (c *Client) Close() error {
	c.client.Disconnect(250)
	return nil
}
