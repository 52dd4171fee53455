// Package httpapi implements the generic canonical-message transport: it
// POSTs the outbound message unchanged to a caller-supplied backend and
// synchronously echoes the acknowledged message to the registered inbound
// handler. Useful for routing through an in-house gateway that speaks the
// canonical shape.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prilive-com/xoxa/internal/httpclient"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/xm"
)

// sendPath is the canonical-message endpoint on the backend.
const sendPath = "/v1/messages/send"

// Config holds the backend endpoint.
type Config struct {
	// BaseURL is the backend root; messages are POSTed to
	// {BaseURL}/v1/messages/send.
	BaseURL string

	// Headers are sent with every request (merged under the per-send
	// resolved headers).
	Headers map[string]string
}

// Transport routes canonical messages to an HTTP backend.
type Transport struct {
	cfg    Config
	state  *transport.Tracker
	logger *slog.Logger

	mu    sync.Mutex
	http  *httpclient.Client
	onMsg func(xm.InboundMessage)
}

// New creates an HTTP-backend transport. Call Connect before sending.
func New(cfg Config) *Transport {
	return &Transport{cfg: cfg, state: transport.NewTracker()}
}

// Channel returns xm.ChannelHTTP.
func (t *Transport) Channel() xm.Channel { return xm.ChannelHTTP }

// State returns the transport's lifecycle state.
func (t *Transport) State() xm.TransportState { return t.state.Get() }

// Connect builds the JSON-call primitive. Idempotent; no network I/O.
func (t *Transport) Connect(opts transport.Options) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Get() == xm.StateConnected {
		return nil
	}
	t.state.Set(xm.StateConnecting)

	if t.cfg.BaseURL == "" {
		t.state.Set(xm.StateError)
		return xm.NewValidationError("httpapi", "baseUrl is required")
	}

	t.logger = opts.Logger
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.http = httpclient.New(httpclient.Config{
		Timeout:     opts.Timeout,
		UserAgent:   opts.UserAgent,
		GlobalRPS:   opts.GlobalRPS,
		GlobalBurst: opts.GlobalBurst,
		Breaker:     opts.Breaker,
	})
	t.state.Set(xm.StateConnected)
	return nil
}

// Disconnect clears the inbound callback and discards the HTTP primitive.
// Idempotent.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.Set(xm.StateClosing)
	t.onMsg = nil
	if t.http != nil {
		t.http.Close()
		t.http = nil
	}
	t.state.Set(xm.StateClosed)
	return nil
}

// OnMessage registers the single inbound handler, replacing any previous one.
func (t *Transport) OnMessage(fn func(xm.InboundMessage)) func() {
	t.mu.Lock()
	t.onMsg = fn
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		t.onMsg = nil
		t.mu.Unlock()
	}
}

// sendResponse is the backend acknowledgment.
type sendResponse struct {
	ID        string    `json:"id"`
	Status    xm.Status `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// Send POSTs the canonical message and, when the backend acknowledges,
// synchronously invokes the inbound handler with an echo of the message
// before returning the receipt.
func (t *Transport) Send(ctx context.Context, msg xm.OutboundMessage, cfg transport.SendConfig) (*xm.DeliveryReceipt, error) {
	if err := t.state.EnsureConnected(xm.ChannelHTTP); err != nil {
		return nil, err
	}

	base := cfg.BaseURL
	if base == "" {
		base = t.cfg.BaseURL
	}
	endpoint := strings.TrimRight(base, "/") + sendPath

	headers := make(map[string]string, len(t.cfg.Headers)+len(cfg.Headers))
	for k, v := range t.cfg.Headers {
		headers[k] = v
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	t.mu.Lock()
	hc := t.http
	t.mu.Unlock()
	if hc == nil {
		return nil, &xm.NetworkError{Op: "send http", Err: xm.ErrNotConnected}
	}

	raw, err := hc.PostJSON(ctx, endpoint, msg, headers)
	if err != nil {
		return nil, err
	}

	var resp sendResponse
	_ = json.Unmarshal(raw, &resp)

	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	if resp.Status == "" {
		resp.Status = xm.StatusUnknown
	}
	if resp.Timestamp.IsZero() {
		resp.Timestamp = time.Now()
	}

	t.mu.Lock()
	onMsg := t.onMsg
	t.mu.Unlock()
	if onMsg != nil {
		from := msg.From
		if from == "" {
			from = "system@xoxa"
		}
		onMsg(xm.InboundMessage{
			Channel:    xm.ChannelHTTP,
			ID:         resp.ID,
			From:       from,
			To:         msg.To,
			Body:       msg.Body,
			Subject:    msg.Subject,
			Metadata:   msg.Metadata,
			ReceivedAt: time.Now(),
		})
	}

	return &xm.DeliveryReceipt{
		Channel:           xm.ChannelHTTP,
		MessageID:         resp.ID,
		ProviderMessageID: resp.ID,
		Status:            resp.Status,
		Detail:            resp.Detail,
		Timestamp:         resp.Timestamp,
		Raw:               json.RawMessage(raw),
	}, nil
}
