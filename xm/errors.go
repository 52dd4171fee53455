package xm

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	// ErrNotConnected is wrapped by the Network-kind error a transport
	// returns when Send is called outside the connected state.
	ErrNotConnected = errors.New("xoxa: transport not connected")

	// ErrNoTransport is wrapped by the error returned when no transport is
	// registered for a message's channel.
	ErrNoTransport = errors.New("xoxa: no transport registered")

	// ErrResponseTooLarge is returned when a provider response exceeds the
	// configured size limit.
	ErrResponseTooLarge = errors.New("xoxa: response too large")
)

// Kind classifies a failure. Every error crossing the transport boundary
// resolves into exactly one kind; the orchestrator only counts and retries,
// it never reclassifies.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindTimeout
	KindHTTP
	KindValidation
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindValidation:
		return "validation"
	case KindUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// NetworkError is a transport-level I/O failure (DNS, connection refusal,
// broken connection) or any failure that is not more specifically typed.
type NetworkError struct {
	Op  string // operation that failed, e.g. "send", "post whatsapp"
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xoxa: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("xoxa: %s: network error", e.Op)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means a request exceeded its deadline.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xoxa: %s: timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("xoxa: %s: timed out", e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx provider response.
// Use errors.As() to extract details.
type HTTPError struct {
	Status int

	// Code is the provider-supplied error code, when the response body
	// carried one (e.g. Twilio's numeric code, Meta's error.code).
	Code string

	// Message is the provider-supplied human-readable error, when present.
	Message string

	// Body is the raw response body, retained for diagnostics.
	Body []byte
}

func (e *HTTPError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("xoxa: HTTP %d (code=%s): %s", e.Status, e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("xoxa: HTTP %d (code=%s)", e.Status, e.Code)
	case e.Message != "":
		return fmt.Sprintf("xoxa: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("xoxa: HTTP %d", e.Status)
}

// ValidationError means an outbound message failed shape or field checks
// before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("xoxa: validation: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UnsupportedFeatureError means a channel was asked to represent something
// its provider cannot express.
type UnsupportedFeatureError struct {
	Channel Channel
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("xoxa: channel %q does not support %s", e.Channel, e.Feature)
}

// KindOf resolves an error into its taxonomy kind. Errors that carry no
// explicit type classify as network failures, the catch-all for anything
// that went wrong at or below the transport boundary.
func KindOf(err error) Kind {
	var (
		netErr     *NetworkError
		timeoutErr *TimeoutError
		httpErr    *HTTPError
		valErr     *ValidationError
		unsupErr   *UnsupportedFeatureError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &valErr):
		return KindValidation
	case errors.As(err, &unsupErr):
		return KindUnsupported
	case errors.As(err, &netErr):
		return KindNetwork
	}
	return KindNetwork
}
