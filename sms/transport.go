// Package sms implements the form-encoded SMS transport (Twilio-style wire
// contract: Basic auth, Accounts/{sid}/Messages.json).
package sms

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prilive-com/xoxa/internal/httpclient"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/xm"
)

// Transport sends SMS messages through a Twilio-compatible REST API.
type Transport struct {
	cfg    Config
	state  *transport.Tracker
	logger *slog.Logger

	mu    sync.Mutex
	http  *httpclient.Client
	onMsg func(xm.InboundMessage)
}

// New creates an SMS transport. Call Connect before sending.
func New(cfg Config) *Transport {
	return &Transport{cfg: cfg, state: transport.NewTracker()}
}

// Channel returns xm.ChannelSMS.
func (t *Transport) Channel() xm.Channel { return xm.ChannelSMS }

// State returns the transport's lifecycle state.
func (t *Transport) State() xm.TransportState { return t.state.Get() }

// Connect builds the form-call primitive. Idempotent; no network I/O.
func (t *Transport) Connect(opts transport.Options) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Get() == xm.StateConnected {
		return nil
	}
	t.state.Set(xm.StateConnecting)

	if t.cfg.AccountSID == "" || t.cfg.AuthToken.IsEmpty() {
		t.state.Set(xm.StateError)
		return xm.NewValidationError("sms", "accountSid and authToken are required")
	}

	t.logger = opts.Logger
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.http = httpclient.New(httpclient.Config{
		Timeout:     opts.Timeout,
		UserAgent:   opts.UserAgent,
		Secrets:     []xm.Secret{t.cfg.AuthToken},
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

// sendResponse is the provider acknowledgment for one message.
type sendResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// Send issues one form-encoded POST and maps the acknowledgment into a
// canonical receipt.
func (t *Transport) Send(ctx context.Context, msg xm.OutboundMessage, cfg transport.SendConfig) (*xm.DeliveryReceipt, error) {
	if err := t.state.EnsureConnected(xm.ChannelSMS); err != nil {
		return nil, err
	}

	from := msg.From
	if from == "" {
		from = t.cfg.From
	}
	if from == "" {
		return nil, xm.NewValidationError("from", "cannot be empty")
	}
	if msg.To == "" {
		return nil, xm.NewValidationError("to", "cannot be empty")
	}
	if msg.Body == "" && !msg.HasMedia() {
		return nil, xm.NewValidationError("body", "message requires a body or at least one media attachment")
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", msg.To)
	if msg.Body != "" {
		form.Set("Body", msg.Body)
	}
	for _, m := range msg.Media {
		form.Add("MediaUrl", m.URL)
	}

	base := cfg.BaseURL
	if base == "" {
		base = t.cfg.baseURL()
	}
	endpoint := strings.TrimRight(base, "/") + "/Accounts/" + t.cfg.AccountSID + "/Messages.json"

	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	auth := base64.StdEncoding.EncodeToString([]byte(t.cfg.AccountSID + ":" + t.cfg.AuthToken.Value()))
	headers["Authorization"] = "Basic " + auth

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	t.mu.Lock()
	hc := t.http
	t.mu.Unlock()
	if hc == nil {
		return nil, &xm.NetworkError{Op: "send sms", Err: xm.ErrNotConnected}
	}

	raw, err := hc.PostForm(ctx, endpoint, form, headers)
	if err != nil {
		return nil, err
	}

	var resp sendResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &xm.NetworkError{Op: "decode sms response", Err: err}
	}

	return &xm.DeliveryReceipt{
		Channel:           xm.ChannelSMS,
		MessageID:         resp.SID,
		ProviderMessageID: resp.SID,
		Status:            mapStatus(resp.Status),
		Timestamp:         time.Now(),
		Raw:               json.RawMessage(raw),
	}, nil
}

// mapStatus translates the provider status vocabulary into the canonical one.
func mapStatus(s string) xm.Status {
	switch s {
	case "queued":
		return xm.StatusQueued
	case "accepted", "sending", "sent":
		return xm.StatusSent
	case "delivered":
		return xm.StatusDelivered
	case "failed", "undelivered":
		return xm.StatusFailed
	default:
		return xm.StatusUnknown
	}
}
