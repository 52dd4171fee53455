// Package transport defines the contract implemented by every channel
// adapter, plus the connection-state bookkeeping they share.
package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/prilive-com/xoxa/xm"
)

// Transport adapts the wire protocol of one channel.
//
// A transport exclusively owns its connection state and its underlying HTTP
// primitive, created during Connect and discarded on Disconnect. There is no
// automatic reconnect: after Disconnect a caller must Connect again.
type Transport interface {
	// Channel returns the channel this transport serves.
	Channel() xm.Channel

	// Connect transitions idle → connecting → connected and constructs the
	// transport's HTTP primitive with the effective timeout. It is
	// idempotent and performs no network I/O.
	Connect(opts Options) error

	// Disconnect transitions → closing → closed and clears any registered
	// inbound-message callback. Idempotent.
	Disconnect() error

	// Send builds the provider payload, issues exactly one HTTP call, and
	// maps the result into a canonical receipt. Called outside the connected
	// state it fails with a Network-kind error and performs no I/O.
	Send(ctx context.Context, msg xm.OutboundMessage, cfg SendConfig) (*xm.DeliveryReceipt, error)

	// OnMessage registers at most one active inbound handler; registering a
	// new handler replaces the previous one. The returned function clears
	// the registration.
	OnMessage(fn func(xm.InboundMessage)) func()

	// State is a read-only diagnostic.
	State() xm.TransportState
}

// Options carries the client-level settings a transport needs at Connect
// time. Credentials stay in each transport's own config struct.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger

	// GlobalRPS/GlobalBurst enable an outbound request limiter inside the
	// HTTP primitive. Zero disables it.
	GlobalRPS   float64
	GlobalBurst int

	// Breaker enables a circuit breaker inside the HTTP primitive.
	// Nil disables it.
	Breaker *BreakerSettings
}

// SendConfig is the per-send resolved configuration, computed fresh by the
// orchestrator for every call and never shared across calls.
type SendConfig struct {
	Timeout   time.Duration
	Headers   map[string]string
	UserAgent string

	// BaseURL optionally overrides the transport's configured endpoint.
	BaseURL string
}

// BreakerSettings configures the optional circuit breaker guarding a
// transport's HTTP primitive.
type BreakerSettings struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	// If 0, internal counts never reset in closed state.
	Interval time.Duration

	// Timeout is the duration of the open state before transitioning to half-open.
	Timeout time.Duration

	// ReadyToTrip determines if the breaker should trip based on failure counts.
	// If nil, uses the default (50% failure rate after 3 requests).
	ReadyToTrip func(counts gobreaker.Counts) bool
}

// DefaultBreakerSettings returns production-ready defaults.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.5
		},
	}
}
