package telegram

import "github.com/prilive-com/xoxa/xm"

// DefaultBaseURL is the Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Config holds the bot credentials and endpoint.
type Config struct {
	// BotToken authenticates the bot; it is part of the request path
	// bot{token}/{method}, so it is scrubbed from any error string.
	BotToken xm.Secret

	// BotUsername is informational only.
	BotUsername string

	// BaseURL overrides DefaultBaseURL (useful for testing).
	BaseURL string
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}
