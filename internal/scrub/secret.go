// Package scrub provides security helpers for removing sensitive data from errors.
package scrub

import (
	"strings"

	"github.com/prilive-com/xoxa/xm"
)

// SecretsFromError removes credential values from an error message.
// Go's http.Client.Do() includes the request URL in error strings, and some
// providers (Telegram-style bot APIs) carry the credential in the URL path.
// Preserves the error chain for errors.Is/As via Unwrap().
func SecretsFromError(err error, secrets ...xm.Secret) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	scrubbed := msg
	for _, s := range secrets {
		if v := s.Value(); v != "" {
			scrubbed = strings.ReplaceAll(scrubbed, v, "[REDACTED]")
		}
	}
	if scrubbed == msg {
		return err
	}
	return &scrubbedError{msg: scrubbed, err: err}
}

// String removes credential values from an arbitrary string.
func String(s string, secrets ...xm.Secret) string {
	for _, sec := range secrets {
		if v := sec.Value(); v != "" {
			s = strings.ReplaceAll(s, v, "[REDACTED]")
		}
	}
	return s
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }
