package xm

import "time"

// MediaKind classifies a media attachment.
type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaAudio    MediaKind = "audio"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// MediaAttachment is one remote media item attached to a message.
type MediaAttachment struct {
	Kind     MediaKind `json:"kind"`
	URL      string    `json:"url"`
	Filename string    `json:"filename,omitempty"`
	Caption  string    `json:"caption,omitempty"`
	MIMEType string    `json:"mimeType,omitempty"`
}

// OutboundMessage is the canonical request shape shared by every channel.
//
// Channel-specific variants are folded into one struct discriminated by
// Channel plus the presence of variant fields: a WhatsApp template message
// carries TemplateName (and optionally LanguageCode and Components) instead
// of free body text. Transports read only the fields their wire format can
// represent.
type OutboundMessage struct {
	Channel Channel `json:"channel"`

	// To is the recipient identifier. Semantics are channel-dependent:
	// E.164 phone number for SMS and WhatsApp, chat id or handle for
	// Telegram-style bots.
	To   string `json:"to"`
	From string `json:"from,omitempty"`

	Body  string            `json:"body,omitempty"`
	Media []MediaAttachment `json:"media,omitempty"`

	// Subject is best effort; most providers ignore it.
	Subject  string         `json:"subject,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`

	// DedupeKey is forwarded as an Idempotency-Key header hint. It does not
	// suppress concurrent duplicate sends on the client side.
	DedupeKey string `json:"dedupeKey,omitempty"`

	// CreatedAt is assigned exactly once by the orchestrator if unset and is
	// stable across retry attempts.
	CreatedAt time.Time `json:"createdAt,omitzero"`

	// WhatsApp template variant.
	TemplateName string              `json:"templateName,omitempty"`
	LanguageCode string              `json:"languageCode,omitempty"`
	Components   []TemplateComponent `json:"components,omitempty"`

	// PreviewURL enables link previews for WhatsApp text messages.
	PreviewURL bool `json:"previewUrl,omitempty"`
}

// TemplateComponent is one structured component of a WhatsApp template.
type TemplateComponent struct {
	Type       string              `json:"type"`
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

// TemplateParameter is a single template component parameter.
type TemplateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// HasMedia reports whether the message carries at least one attachment.
func (m *OutboundMessage) HasMedia() bool { return len(m.Media) > 0 }

// InboundMessage is a message observed by a transport. It exists only as an
// event payload; nothing persists it.
type InboundMessage struct {
	Channel    Channel           `json:"channel,omitempty"`
	ID         string            `json:"id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Body       string            `json:"body,omitempty"`
	Media      []MediaAttachment `json:"media,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
	ReceivedAt time.Time         `json:"receivedAt"`
}
