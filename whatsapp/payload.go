package whatsapp

import (
	"strings"

	"github.com/prilive-com/xoxa/xm"
)

// messagingProduct is the fixed marker every Cloud API payload carries.
const messagingProduct = "whatsapp"

// defaultLanguageCode is used when a template message names no language.
const defaultLanguageCode = "en_US"

// buildPayload chooses the wire shape for one outbound message. Precedence:
// media, then template, then plain text. Pure function of the message.
func buildPayload(msg *xm.OutboundMessage) map[string]any {
	p := map[string]any{
		"messaging_product": messagingProduct,
		"to":                normalizeRecipient(msg.To),
	}

	switch {
	case msg.HasMedia():
		m := msg.Media[0]
		kind := string(m.Kind)
		media := map[string]any{"link": m.URL}
		if caption := firstNonEmpty(m.Caption, msg.Body); caption != "" {
			media["caption"] = caption
		}
		if m.Filename != "" {
			media["filename"] = m.Filename
		}
		p["type"] = kind
		p[kind] = media

	case msg.TemplateName != "":
		lang := msg.LanguageCode
		if lang == "" {
			lang = defaultLanguageCode
		}
		tmpl := map[string]any{
			"name":     msg.TemplateName,
			"language": map[string]any{"code": lang},
		}
		if len(msg.Components) > 0 {
			tmpl["components"] = msg.Components
		}
		p["type"] = "template"
		p["template"] = tmpl

	default:
		text := map[string]any{"body": msg.Body}
		if msg.PreviewURL {
			text["preview_url"] = true
		}
		p["type"] = "text"
		p["text"] = text
	}

	return p
}

// normalizeRecipient strips everything but digits before transmission.
func normalizeRecipient(to string) string {
	var b strings.Builder
	b.Grow(len(to))
	for _, r := range to {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
