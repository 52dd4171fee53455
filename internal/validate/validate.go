// Package validate checks outbound messages before any network call.
package validate

import (
	"fmt"

	"github.com/prilive-com/xoxa/xm"
)

// Outbound verifies the canonical message shape: a known channel, a
// recipient, a body or at least one media attachment, and a url on every
// attachment. Failures are Validation-kind errors.
func Outbound(msg *xm.OutboundMessage) error {
	if !msg.Channel.Known() {
		return xm.NewValidationError("channel", fmt.Sprintf("unsupported channel %q", msg.Channel))
	}
	if msg.To == "" {
		return xm.NewValidationError("to", "cannot be empty")
	}
	if msg.Body == "" && msg.TemplateName == "" && len(msg.Media) == 0 {
		return xm.NewValidationError("body", "message requires a body or at least one media attachment")
	}
	for i, m := range msg.Media {
		if m.URL == "" {
			return xm.NewValidationError(fmt.Sprintf("media[%d].url", i), "cannot be empty")
		}
	}
	return nil
}

// Required validates that a string field is not empty.
func Required(field, value string) error {
	if value == "" {
		return xm.NewValidationError(field, "is required")
	}
	return nil
}

// Positive validates that a value is positive.
func Positive(field string, value int) error {
	if value <= 0 {
		return xm.NewValidationError(field, fmt.Sprintf("must be positive, got %d", value))
	}
	return nil
}
