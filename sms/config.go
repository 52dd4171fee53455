package sms

import "github.com/prilive-com/xoxa/xm"

// DefaultBaseURL is the Twilio-compatible REST endpoint.
const DefaultBaseURL = "https://api.twilio.com/2010-04-01"

// Config holds the SMS provider credentials and endpoint.
type Config struct {
	// AccountSID identifies the provider account. Together with AuthToken it
	// forms the Basic authentication pair.
	AccountSID string
	AuthToken  xm.Secret

	// BaseURL overrides DefaultBaseURL (useful for testing).
	BaseURL string

	// From is the default sender number, used when a message carries none.
	From string
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}
