package xm

import (
	"encoding/json"
	"time"
)

// Status is the canonical delivery status vocabulary.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusUnknown   Status = "unknown"
)

// DeliveryReceipt is the canonical response produced exactly once per
// successful transport call.
type DeliveryReceipt struct {
	Channel Channel `json:"channel"`

	// MessageID is the system- or provider-assigned identifier.
	MessageID         string `json:"messageId"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`

	Status Status `json:"status"`

	// Detail carries a human-readable failure reason when Status is failed.
	Detail string `json:"detail,omitempty"`

	Timestamp time.Time `json:"timestamp"`

	// Raw retains the provider payload for diagnostics.
	Raw json.RawMessage `json:"raw,omitempty"`
}
