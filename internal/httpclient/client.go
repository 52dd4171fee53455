// Package httpclient implements the HTTP/form call primitive used by every
// transport: one request per call, a bounded response read, and a typed
// mapping of failures into the error taxonomy.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/prilive-com/xoxa/internal/scrub"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/xm"
)

const defaultMaxResponseSize = 10 << 20 // 10MB

// Config holds the primitive's settings. A transport builds one Client at
// Connect time and discards it on Disconnect.
type Config struct {
	Timeout         time.Duration
	UserAgent       string
	MaxResponseSize int64

	// Secrets are redacted from any error string the primitive produces.
	Secrets []xm.Secret

	// GlobalRPS/GlobalBurst enable an outbound limiter. Zero disables it.
	GlobalRPS   float64
	GlobalBurst int

	// Breaker enables a circuit breaker around the request. Nil disables it.
	Breaker *transport.BreakerSettings
}

// Client performs exactly one HTTP request per call.
type Client struct {
	http    *http.Client
	cfg     Config
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New creates a Client with the given configuration.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxResponseSize <= 0 {
		cfg.MaxResponseSize = defaultMaxResponseSize
	}

	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				ForceAttemptHTTP2:   true,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
	}

	if cfg.GlobalRPS > 0 {
		burst := cfg.GlobalBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.GlobalRPS), burst)
	}

	if cfg.Breaker != nil {
		settings := *cfg.Breaker
		if settings.ReadyToTrip == nil {
			settings.ReadyToTrip = transport.DefaultBreakerSettings().ReadyToTrip
		}
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:         "xoxa-http",
			MaxRequests:  settings.MaxRequests,
			Interval:     settings.Interval,
			Timeout:      settings.Timeout,
			ReadyToTrip:  settings.ReadyToTrip,
			IsSuccessful: isBreakerSuccess,
		})
	}

	return c
}

// Close releases idle connections.
func (c *Client) Close() {
	if t, ok := c.http.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}

// PostJSON marshals payload as JSON, POSTs it, and returns the raw response
// body on 2xx. Failures map onto the taxonomy: Timeout on deadline, HTTP on
// non-2xx (with status, provider code, and body), Network on anything else.
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload any, headers map[string]string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &xm.NetworkError{Op: "encode request", Err: err}
	}
	return c.post(ctx, rawURL, "application/json", bytes.NewReader(data), headers)
}

// PostForm URL-encodes form, POSTs it, and returns the raw response body on
// 2xx, with the same failure mapping as PostJSON.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) ([]byte, error) {
	body := strings.NewReader(form.Encode())
	return c.post(ctx, rawURL, "application/x-www-form-urlencoded", body, headers)
}

func (c *Client) post(ctx context.Context, rawURL, contentType string, body io.Reader, headers map[string]string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.classify("rate wait", err)
		}
	}

	run := func() ([]byte, error) {
		return c.doOnce(ctx, rawURL, contentType, body, headers)
	}
	if c.breaker != nil {
		resp, err := c.breaker.Execute(run)
		if err != nil && (errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)) {
			return nil, &xm.NetworkError{Op: "post", Err: err}
		}
		return resp, err
	}
	return run()
}

func (c *Client) doOnce(ctx context.Context, rawURL, contentType string, body io.Reader, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, &xm.NetworkError{Op: "build request", Err: scrub.SecretsFromError(err, c.cfg.Secrets...)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classify("post", err)
	}
	defer resp.Body.Close()

	// Read one byte past the limit to detect overflow without a false positive.
	limited := io.LimitReader(resp.Body, c.cfg.MaxResponseSize+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, c.classify("read response", err)
	}
	if int64(len(raw)) > c.cfg.MaxResponseSize {
		return nil, &xm.NetworkError{Op: "read response", Err: xm.ErrResponseTooLarge}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, raw)
	}

	return raw, nil
}

// isBreakerSuccess decides what counts as a service failure for the
// circuit breaker. Provider 4xx responses are client-side issues and
// caller cancellation is not a service failure; 5xx, network errors, and
// connection timeouts trip the breaker.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var httpErr *xm.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= 400 && httpErr.Status < 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return false
}

// classify maps a transport-level failure onto the taxonomy, scrubbing
// credentials from the message first.
func (c *Client) classify(op string, err error) error {
	err = scrub.SecretsFromError(err, c.cfg.Secrets...)

	if errors.Is(err, context.DeadlineExceeded) {
		return &xm.TimeoutError{Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &xm.TimeoutError{Op: op, Err: err}
	}
	return &xm.NetworkError{Op: op, Err: err}
}

// newHTTPError extracts the provider-supplied error code and message from a
// non-2xx body. Provider envelopes differ: Twilio-style bodies carry
// top-level code/message, Meta-style bodies nest them under "error", and
// bot APIs use error_code/description.
func newHTTPError(status int, body []byte) *xm.HTTPError {
	var probe struct {
		Code        json.Number `json:"code"`
		Message     string      `json:"message"`
		ErrorCode   json.Number `json:"error_code"`
		Description string      `json:"description"`
		Error       struct {
			Code    json.Number `json:"code"`
			Message string      `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &probe)

	he := &xm.HTTPError{Status: status, Body: body}
	switch {
	case probe.Error.Code != "" || probe.Error.Message != "":
		he.Code = probe.Error.Code.String()
		he.Message = probe.Error.Message
	case probe.Code != "" || probe.Message != "":
		he.Code = probe.Code.String()
		he.Message = probe.Message
	case probe.ErrorCode != "" || probe.Description != "":
		he.Code = probe.ErrorCode.String()
		he.Message = probe.Description
	}
	return he
}
