package telegram

import "github.com/prilive-com/xoxa/xm"

// mediaMethod pairs a Bot API method with the payload key carrying the
// media URL.
type mediaMethod struct {
	method string
	field  string
}

// methodForKind is the fixed lookup table selecting the send method per
// attachment kind.
var methodForKind = map[xm.MediaKind]mediaMethod{
	xm.MediaImage:    {method: "sendPhoto", field: "photo"},
	xm.MediaAudio:    {method: "sendAudio", field: "audio"},
	xm.MediaVideo:    {method: "sendVideo", field: "video"},
	xm.MediaDocument: {method: "sendDocument", field: "document"},
}

// buildPayload selects the Bot API method and request body for one outbound
// message. Only the first attachment is sent even when more are supplied.
// Pure function of the message.
func buildPayload(msg *xm.OutboundMessage) (method string, payload map[string]any, err error) {
	if !msg.HasMedia() {
		return "sendMessage", map[string]any{
			"chat_id": msg.To,
			"text":    msg.Body,
		}, nil
	}

	m := msg.Media[0]
	mm, ok := methodForKind[m.Kind]
	if !ok {
		return "", nil, &xm.UnsupportedFeatureError{
			Channel: xm.ChannelTelegram,
			Feature: "media kind " + string(m.Kind),
		}
	}

	payload = map[string]any{
		"chat_id": msg.To,
		mm.field:  m.URL,
	}
	if caption := firstNonEmpty(m.Caption, msg.Body); caption != "" {
		payload["caption"] = caption
	}
	return mm.method, payload, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
