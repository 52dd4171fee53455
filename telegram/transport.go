// Package telegram implements the JSON transport for Telegram-style bot
// APIs (per-token endpoint path, method-per-media-kind dispatch).
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prilive-com/xoxa/internal/httpclient"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/xm"
)

// Transport sends messages through a Bot-API-compatible endpoint.
type Transport struct {
	cfg    Config
	state  *transport.Tracker
	logger *slog.Logger

	mu    sync.Mutex
	http  *httpclient.Client
	onMsg func(xm.InboundMessage)
}

// New creates a bot-messaging transport. Call Connect before sending.
func New(cfg Config) *Transport {
	return &Transport{cfg: cfg, state: transport.NewTracker()}
}

// Channel returns xm.ChannelTelegram.
func (t *Transport) Channel() xm.Channel { return xm.ChannelTelegram }

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

	if t.cfg.BotToken.IsEmpty() {
		t.state.Set(xm.StateError)
		return xm.NewValidationError("telegram", "botToken is required")
	}

	t.logger = opts.Logger
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.http = httpclient.New(httpclient.Config{
		Timeout:     opts.Timeout,
		UserAgent:   opts.UserAgent,
		Secrets:     []xm.Secret{t.cfg.BotToken},
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

// sendResponse is the Bot API envelope.
type sendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	Result      struct {
		MessageID int64 `json:"message_id"`
		Date      int64 `json:"date"`
	} `json:"result"`
}

// Send issues one JSON POST to bot{token}/{method} and maps the envelope
// into a canonical receipt. Success is the boolean ok field: a 2xx response
// with ok=false becomes a failed receipt carrying the provider description,
// not an error.
func (t *Transport) Send(ctx context.Context, msg xm.OutboundMessage, cfg transport.SendConfig) (*xm.DeliveryReceipt, error) {
	if err := t.state.EnsureConnected(xm.ChannelTelegram); err != nil {
		return nil, err
	}

	method, payload, err := buildPayload(&msg)
	if err != nil {
		return nil, err
	}

	base := cfg.BaseURL
	if base == "" {
		base = t.cfg.baseURL()
	}
	endpoint := strings.TrimRight(base, "/") + "/bot" + t.cfg.BotToken.Value() + "/" + method

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	t.mu.Lock()
	hc := t.http
	t.mu.Unlock()
	if hc == nil {
		return nil, &xm.NetworkError{Op: "send telegram", Err: xm.ErrNotConnected}
	}

	raw, err := hc.PostJSON(ctx, endpoint, payload, cfg.Headers)
	if err != nil {
		return nil, err
	}

	var resp sendResponse
	_ = json.Unmarshal(raw, &resp)

	id := strconv.FormatInt(resp.Result.MessageID, 10)
	if resp.Result.MessageID == 0 {
		id = fmt.Sprintf("tg_%d", time.Now().UnixMilli())
	}

	receipt := &xm.DeliveryReceipt{
		Channel:           xm.ChannelTelegram,
		MessageID:         id,
		ProviderMessageID: id,
		Status:            xm.StatusSent,
		Timestamp:         time.Now(),
		Raw:               json.RawMessage(raw),
	}
	if !resp.OK {
		receipt.Status = xm.StatusFailed
		receipt.Detail = resp.Description
	}
	return receipt, nil
}
