package xm

import "fmt"

// Channel identifies one supported messaging provider family.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"

	// ChannelHTTP is the generic canonical-message transport that POSTs the
	// outbound message as-is to a caller-supplied backend.
	ChannelHTTP Channel = "http"
)

// Known reports whether c is a channel this library can route.
func (c Channel) Known() bool {
	switch c {
	case ChannelSMS, ChannelWhatsApp, ChannelTelegram, ChannelHTTP:
		return true
	}
	return false
}

// ParseChannel converts a string into a Channel.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if !c.Known() {
		return "", fmt.Errorf("xoxa: unknown channel %q", s)
	}
	return c, nil
}
