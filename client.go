package xoxa

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prilive-com/xoxa/events"
	"github.com/prilive-com/xoxa/internal/validate"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/xm"
)

// DisconnectedEvent carries the optional reason passed to Disconnect.
type DisconnectedEvent struct {
	Reason string
}

// StateEvent reports a transport lifecycle transition for diagnostics.
type StateEvent struct {
	Channel xm.Channel
	State   xm.TransportState
}

// Client is the single entry point for sending: it owns the transport
// registry, validates and routes outbound messages, drives the retry loop,
// and republishes transport lifecycle signals on its event buses.
//
// Register all transports before Connect; registration after Connect is not
// supported. The client stays reusable after Disconnect: listeners are kept
// and a subsequent Connect brings the transports back up.
type Client struct {
	config  Config
	logger  *slog.Logger
	backoff Backoff
	sleeper Sleeper

	// retryFilter, when set, can stop retries for selected error kinds.
	// The default (nil) retries every transport failure, matching the
	// provider-agnostic contract: the orchestrator counts failures, it does
	// not judge them.
	retryFilter func(error) bool

	mu         sync.RWMutex
	transports map[xm.Channel]transport.Transport
	order      []xm.Channel

	connected    events.Bus[struct{}]
	disconnected events.Bus[DisconnectedEvent]
	errs         events.Bus[error]
	messages     events.Bus[xm.InboundMessage]
	states       events.Bus[StateEvent]
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithSleeper sets a custom sleeper for retry timing (useful for testing).
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleeper = s }
}

// WithRetryFilter installs a predicate consulted before each retry: return
// false to stop retrying that error. This is an extension hook; by default
// every transport failure is retried until the budget is exhausted.
func WithRetryFilter(fn func(error) bool) Option {
	return func(c *Client) { c.retryFilter = fn }
}

// New creates a Client. AppID is required; every other field falls back to
// DefaultConfig values.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.AppID == "" {
		return nil, xm.NewValidationError("appId", "is required")
	}

	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = def.BackoffMax
	}

	c := &Client{
		config:     cfg,
		backoff:    Backoff{Base: cfg.BackoffBase, Max: cfg.BackoffMax},
		transports: make(map[xm.Channel]transport.Transport),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		if cfg.Debug {
			c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		} else {
			c.logger = slog.Default()
		}
	}
	if c.sleeper == nil {
		c.sleeper = realSleeper{}
	}
	return c, nil
}

// RegisterTransport stores t keyed by its declared channel. The last
// registration for a channel wins.
func (c *Client) RegisterTransport(t transport.Transport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := t.Channel()
	if _, exists := c.transports[ch]; !exists {
		c.order = append(c.order, ch)
	}
	c.transports[ch] = t
}

// Connect sequentially connects every registered transport in registration
// order, wires each transport's inbound callback onto the message bus, and
// emits a connected event. If any transport fails the error propagates and
// no connected event is emitted; partial state is observable per transport
// via TransportState.
func (c *Client) Connect() error {
	opts := transport.Options{
		Timeout:     c.config.Timeout,
		UserAgent:   c.config.UserAgent,
		Logger:      c.logger,
		GlobalRPS:   c.config.GlobalRPS,
		GlobalBurst: c.config.GlobalBurst,
		Breaker:     c.config.Breaker,
	}

	for _, t := range c.snapshot() {
		if err := t.Connect(opts); err != nil {
			c.states.Publish(StateEvent{Channel: t.Channel(), State: t.State()})
			return err
		}
		t.OnMessage(func(msg xm.InboundMessage) {
			c.messages.Publish(msg)
		})
		c.states.Publish(StateEvent{Channel: t.Channel(), State: t.State()})
	}

	c.connected.Publish(struct{}{})
	return nil
}

// Disconnect sequentially disconnects every transport, then emits a
// disconnected event with the given reason. Listener registrations are
// preserved; the client remains usable for a subsequent Connect.
func (c *Client) Disconnect(reason string) error {
	var firstErr error
	for _, t := range c.snapshot() {
		if err := t.Disconnect(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.states.Publish(StateEvent{Channel: t.Channel(), State: t.State()})
	}
	c.disconnected.Publish(DisconnectedEvent{Reason: reason})
	return firstErr
}

func (c *Client) snapshot() []transport.Transport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]transport.Transport, 0, len(c.order))
	for _, ch := range c.order {
		out = append(out, c.transports[ch])
	}
	return out
}

// SendOption overrides per-send settings.
type SendOption func(*sendOptions)

type sendOptions struct {
	timeout time.Duration
	retries *int
}

// WithTimeout sets the per-send deadline, overriding the client default.
func WithTimeout(d time.Duration) SendOption {
	return func(o *sendOptions) { o.timeout = d }
}

// WithRetries sets the retry budget for this send only.
func WithRetries(n int) SendOption {
	return func(o *sendOptions) { o.retries = &n }
}

// Send validates and routes one outbound message and returns its canonical
// receipt.
//
// Validation failures and an unregistered channel fail immediately with no
// network call and no retry. Every transport failure is retried up to the
// budget with jittered exponential backoff; when the budget is exhausted
// the last error is published on the error bus and returned verbatim.
// CreatedAt is assigned exactly once: every attempt of one Send carries the
// same value.
func (c *Client) Send(ctx context.Context, msg xm.OutboundMessage, opts ...SendOption) (*xm.DeliveryReceipt, error) {
	if err := validate.Outbound(&msg); err != nil {
		return nil, err
	}

	c.mu.RLock()
	t, ok := c.transports[msg.Channel]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for channel %q", xm.ErrNoTransport, msg.Channel)
	}

	var so sendOptions
	for _, opt := range opts {
		opt(&so)
	}
	timeout := so.timeout
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	retries := c.config.MaxRetries
	if so.retries != nil {
		retries = *so.retries
	}
	if retries < 0 {
		retries = 0
	}

	cfg := transport.SendConfig{
		Timeout:   timeout,
		UserAgent: c.config.UserAgent,
		Headers:   c.sendHeaders(&msg),
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	attempt := 0
	for {
		c.logger.Debug("send attempt", "channel", msg.Channel, "attempt", attempt+1)
		receipt, err := t.Send(ctx, msg, cfg)
		if err == nil {
			return receipt, nil
		}

		attempt++
		if attempt > retries || !c.shouldRetry(err) {
			c.errs.Publish(err)
			return nil, err
		}

		delay := c.backoff.Compute(attempt)
		c.logger.Warn("send retry",
			"channel", msg.Channel,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		if sleepErr := c.sleeper.Sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
}

func (c *Client) shouldRetry(err error) bool {
	if c.retryFilter == nil {
		return true
	}
	return c.retryFilter(err)
}

// sendHeaders builds the per-send resolved headers: client identification,
// app id, and the idempotency hint when the message carries a dedupe key.
func (c *Client) sendHeaders(msg *xm.OutboundMessage) map[string]string {
	headers := map[string]string{
		"User-Agent":    c.config.UserAgent,
		"X-Xoxa-App-Id": c.config.AppID,
	}
	if msg.DedupeKey != "" {
		headers["Idempotency-Key"] = msg.DedupeKey
	}
	return headers
}

// OnMessage subscribes to inbound messages observed by any transport.
func (c *Client) OnMessage(fn func(xm.InboundMessage)) events.Unsubscribe {
	return c.messages.Subscribe(fn)
}

// OnConnected subscribes to successful Connect completions.
func (c *Client) OnConnected(fn func()) events.Unsubscribe {
	return c.connected.Subscribe(func(struct{}) { fn() })
}

// OnDisconnected subscribes to Disconnect completions.
func (c *Client) OnDisconnected(fn func(reason string)) events.Unsubscribe {
	return c.disconnected.Subscribe(func(e DisconnectedEvent) { fn(e.Reason) })
}

// OnError subscribes to terminal send failures.
func (c *Client) OnError(fn func(error)) events.Unsubscribe {
	return c.errs.Subscribe(fn)
}

// OnStateChange subscribes to transport lifecycle transitions.
func (c *Client) OnStateChange(fn func(StateEvent)) events.Unsubscribe {
	return c.states.Subscribe(fn)
}

// ClearListeners drops every registration on every event bus. Listeners are
// never cleared implicitly, not even by Disconnect.
func (c *Client) ClearListeners() {
	c.connected.Clear()
	c.disconnected.Clear()
	c.errs.Clear()
	c.messages.Clear()
	c.states.Clear()
}

// TransportState returns the channel's transport state, or xm.StateUnknown
// if no transport is registered for that channel.
func (c *Client) TransportState(ch xm.Channel) xm.TransportState {
	c.mu.RLock()
	t, ok := c.transports[ch]
	c.mu.RUnlock()
	if !ok {
		return xm.StateUnknown
	}
	return t.State()
}

// Channels returns the registered channels in registration order.
func (c *Client) Channels() []xm.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]xm.Channel, len(c.order))
	copy(out, c.order)
	return out
}
