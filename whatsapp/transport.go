// Package whatsapp implements the JSON transport for WhatsApp-Cloud-style
// APIs (Bearer auth, {phoneNumberId}/messages).
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prilive-com/xoxa/internal/httpclient"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/xm"
)

// Transport sends WhatsApp messages through a Cloud-API-compatible endpoint.
type Transport struct {
	cfg    Config
	state  *transport.Tracker
	logger *slog.Logger

	mu    sync.Mutex
	http  *httpclient.Client
	onMsg func(xm.InboundMessage)
}

// New creates a WhatsApp transport. Call Connect before sending.
func New(cfg Config) *Transport {
	return &Transport{cfg: cfg, state: transport.NewTracker()}
}

// Channel returns xm.ChannelWhatsApp.
func (t *Transport) Channel() xm.Channel { return xm.ChannelWhatsApp }

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

	if t.cfg.PhoneNumberID == "" || t.cfg.AccessToken.IsEmpty() {
		t.state.Set(xm.StateError)
		return xm.NewValidationError("whatsapp", "phoneNumberId and accessToken are required")
	}

	t.logger = opts.Logger
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.http = httpclient.New(httpclient.Config{
		Timeout:     opts.Timeout,
		UserAgent:   opts.UserAgent,
		Secrets:     []xm.Secret{t.cfg.AccessToken},
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

// sendResponse is the Cloud API acknowledgment envelope.
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// Send issues one JSON POST and maps the acknowledgment into a canonical
// receipt. The Cloud API acknowledges acceptance, not final delivery, so a
// 2xx response always yields a queued receipt.
func (t *Transport) Send(ctx context.Context, msg xm.OutboundMessage, cfg transport.SendConfig) (*xm.DeliveryReceipt, error) {
	if err := t.state.EnsureConnected(xm.ChannelWhatsApp); err != nil {
		return nil, err
	}

	base := cfg.BaseURL
	if base == "" {
		base = t.cfg.baseURL()
	}
	endpoint := strings.TrimRight(base, "/") + "/" + t.cfg.PhoneNumberID + "/messages"

	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	headers["Authorization"] = "Bearer " + t.cfg.AccessToken.Value()

	payload := buildPayload(&msg)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	t.mu.Lock()
	hc := t.http
	t.mu.Unlock()
	if hc == nil {
		return nil, &xm.NetworkError{Op: "send whatsapp", Err: xm.ErrNotConnected}
	}

	raw, err := hc.PostJSON(ctx, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}

	var resp sendResponse
	_ = json.Unmarshal(raw, &resp)

	id := ""
	if len(resp.Messages) > 0 {
		id = resp.Messages[0].ID
	}
	if id == "" {
		// Malformed or empty acknowledgment: synthesize a timestamp-derived id.
		id = fmt.Sprintf("wa_%d", time.Now().UnixMilli())
	}

	return &xm.DeliveryReceipt{
		Channel:           xm.ChannelWhatsApp,
		MessageID:         id,
		ProviderMessageID: id,
		Status:            xm.StatusQueued,
		Timestamp:         time.Now(),
		Raw:               json.RawMessage(raw),
	}, nil
}
