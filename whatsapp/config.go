package whatsapp

import "github.com/prilive-com/xoxa/xm"

// DefaultBaseURL is the Graph-API-compatible endpoint.
const DefaultBaseURL = "https://graph.facebook.com/v22.0"

// Config holds the WhatsApp Cloud credentials and endpoint.
type Config struct {
	// PhoneNumberID is the sending number's provider identifier; it forms
	// the request path {phoneNumberId}/messages.
	PhoneNumberID string

	// AccessToken is sent as a Bearer authorization.
	AccessToken xm.Secret

	// BaseURL overrides DefaultBaseURL (useful for testing).
	BaseURL string
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}
