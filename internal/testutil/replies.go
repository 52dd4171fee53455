package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ReplyJSON writes a JSON response with the given status code.
func ReplyJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ReplySMS writes a Twilio-style create-message response.
func ReplySMS(w http.ResponseWriter, sid, status string) {
	ReplyJSON(w, http.StatusCreated, map[string]any{
		"sid":    sid,
		"status": status,
	})
}

// ReplySMSError writes a Twilio-style error envelope.
func ReplySMSError(w http.ResponseWriter, status, code int, message string) {
	ReplyJSON(w, status, map[string]any{
		"code":    code,
		"message": message,
		"status":  status,
	})
}

// ReplyWhatsApp writes a Graph-style send response carrying a message id.
func ReplyWhatsApp(w http.ResponseWriter, id string) {
	ReplyJSON(w, http.StatusOK, map[string]any{
		"messaging_product": "whatsapp",
		"messages":          []map[string]any{{"id": id}},
	})
}

// ReplyWhatsAppEmpty writes a Graph-style send response with no message ids.
func ReplyWhatsAppEmpty(w http.ResponseWriter) {
	ReplyJSON(w, http.StatusOK, map[string]any{
		"messaging_product": "whatsapp",
		"messages":          []map[string]any{},
	})
}

// ReplyWhatsAppError writes a Graph-style nested error envelope.
func ReplyWhatsAppError(w http.ResponseWriter, status, code int, message string) {
	ReplyJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// ReplyTelegram writes a Bot API success envelope with a message id.
func ReplyTelegram(w http.ResponseWriter, messageID int) {
	ReplyJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"result": map[string]any{
			"message_id": messageID,
		},
	})
}

// ReplyTelegramEmpty writes an ok envelope with an empty result object.
func ReplyTelegramEmpty(w http.ResponseWriter) {
	ReplyJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"result": map[string]any{},
	})
}

// ReplyTelegramNotOK writes a 200 envelope with ok=false and a description.
func ReplyTelegramNotOK(w http.ResponseWriter, description string) {
	ReplyJSON(w, http.StatusOK, map[string]any{
		"ok":          false,
		"description": description,
	})
}

// ReplyTelegramError writes a Bot API error envelope with a non-2xx status.
func ReplyTelegramError(w http.ResponseWriter, status, code int, description string) {
	ReplyJSON(w, status, map[string]any{
		"ok":          false,
		"error_code":  code,
		"description": description,
	})
}

// ReplyDispatchAck writes a canonical dispatch acknowledgement. An empty
// timestamp is omitted from the body.
func ReplyDispatchAck(w http.ResponseWriter, id, status, timestamp string) {
	body := map[string]any{
		"id":     id,
		"status": status,
	}
	if timestamp != "" {
		body["timestamp"] = timestamp
	}
	ReplyJSON(w, http.StatusOK, body)
}

// ReplyText writes a plain-text response, useful for non-JSON error bodies.
func ReplyText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}
