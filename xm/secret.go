package xm

import "log/slog"

// Secret wraps a provider credential (auth token, access token, bot token)
// to prevent accidental logging.
// Implements fmt.Stringer, fmt.GoStringer, slog.LogValuer, and encoding.TextMarshaler.
type Secret string

// Value returns the actual credential value.
// Only use this when building a request to the provider.
func (s Secret) Value() string { return string(s) }

// String returns a redacted placeholder (fmt.Stringer).
func (s Secret) String() string { return "[REDACTED]" }

// GoString returns redacted for %#v (fmt.GoStringer).
func (s Secret) GoString() string { return `xm.Secret("[REDACTED]")` }

// LogValue returns a redacted value for slog (slog.LogValuer).
func (s Secret) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

// MarshalText returns redacted bytes (encoding.TextMarshaler).
// Prevents accidental JSON/YAML serialization of the credential.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// IsEmpty returns true if the secret is empty.
func (s Secret) IsEmpty() bool {
	return s == ""
}
