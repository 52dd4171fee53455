// Package xoxa provides a unified multi-channel message-dispatch client.
//
// Callers submit one canonical outbound-message shape; the client routes it
// to a channel-specific transport (SMS, WhatsApp, Telegram-style bot APIs),
// normalizes the provider's wire format, and returns a canonical delivery
// receipt. Application code never special-cases a provider's authentication
// scheme, payload shape, or status vocabulary.
//
// # Quick Start
//
//	client, err := xoxa.New(xoxa.Config{AppID: "my-app"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.RegisterTransport(sms.New(sms.Config{
//	    AccountSID: sid,
//	    AuthToken:  xm.Secret(token),
//	}))
//	if err := client.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect("shutdown")
//
//	receipt, err := client.Send(ctx, xm.OutboundMessage{
//	    Channel: xm.ChannelSMS,
//	    From:    "+15550001111",
//	    To:      "+15552223333",
//	    Body:    "hello",
//	})
//
// # Shared Types
//
// Canonical shapes live in the xm subpackage:
//
//	import "github.com/prilive-com/xoxa/xm"
//	var msg xm.OutboundMessage
//	var receipt xm.DeliveryReceipt
//
// # Features
//
//   - One transport per channel, registered before Connect
//   - Retry with exponential backoff and crypto jitter
//   - Idempotency-Key forwarding from the message's dedupe key
//   - Typed in-process lifecycle events (connected, disconnected, error,
//     message, state)
//   - Credential auto-redaction in logs and errors
//   - Optional circuit breaker (sony/gobreaker) and request limiter at the
//     HTTP layer, disabled by default
//   - Structured logging with slog
package xoxa
