package testutil

import "github.com/prilive-com/xoxa/xm"

// Test credentials. None of these are real.
const (
	TestAccountSID = "AC00000000000000000000000000000000"
	TestAuthToken  = "test-auth-token-secret"
	TestWAToken    = "test-wa-access-token"
	TestWAPhoneID  = "15551230000"
	TestBotToken   = "123456:ABC-test-bot-token"
	TestAppID      = "demo-app"
)

// TextMessage returns a minimal valid text message for the given channel.
func TextMessage(ch xm.Channel, to, body string) xm.OutboundMessage {
	return xm.OutboundMessage{
		Channel: ch,
		To:      to,
		Body:    body,
	}
}

// MediaMessage returns a message carrying a single media attachment.
func MediaMessage(ch xm.Channel, to string, kind xm.MediaKind, url string) xm.OutboundMessage {
	return xm.OutboundMessage{
		Channel: ch,
		To:      to,
		Media:   []xm.MediaAttachment{{Kind: kind, URL: url}},
	}
}
