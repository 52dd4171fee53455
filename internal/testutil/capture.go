package testutil

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Capture represents a captured HTTP request with timestamp.
type Capture struct {
	Method      string
	Path        string
	Query       map[string][]string
	Headers     http.Header
	Body        []byte
	ContentType string
	Timestamp   time.Time
}

// AssertPath verifies the request path.
func (c *Capture) AssertPath(t *testing.T, expected string) {
	t.Helper()
	assert.Equal(t, expected, c.Path, "unexpected path")
}

// AssertContentType verifies the Content-Type header contains expected value.
func (c *Capture) AssertContentType(t *testing.T, expected string) {
	t.Helper()
	assert.Contains(t, c.ContentType, expected, "unexpected content-type")
}

// AssertHeader verifies a specific header value.
func (c *Capture) AssertHeader(t *testing.T, key, expected string) {
	t.Helper()
	assert.Equal(t, expected, c.Headers.Get(key), "unexpected header: "+key)
}

// AssertHeaderExists verifies a header exists (with any value).
func (c *Capture) AssertHeaderExists(t *testing.T, key string) {
	t.Helper()
	assert.NotEmpty(t, c.Headers.Get(key), "header should exist: "+key)
}

// AssertHeaderAbsent verifies a header was not sent.
func (c *Capture) AssertHeaderAbsent(t *testing.T, key string) {
	t.Helper()
	assert.Empty(t, c.Headers.Get(key), "header should be absent: "+key)
}

// AssertJSONField verifies a field in the JSON body.
func (c *Capture) AssertJSONField(t *testing.T, field string, expected any) {
	t.Helper()
	body := c.BodyMap(t)
	assert.Equal(t, expected, body[field], "unexpected value for field: "+field)
}

// AssertJSONFieldAbsent verifies a field does NOT exist in the JSON body.
func (c *Capture) AssertJSONFieldAbsent(t *testing.T, field string) {
	t.Helper()
	body := c.BodyMap(t)
	assert.NotContains(t, body, field, "field should be absent: "+field)
}

// BodyJSON decodes the body as JSON into target.
func (c *Capture) BodyJSON(t *testing.T, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(c.Body, target), "failed to decode JSON body")
}

// BodyMap returns the body as a map.
func (c *Capture) BodyMap(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(c.Body, &m), "failed to decode JSON body")
	return m
}

// BodyForm parses the body as a URL-encoded form.
func (c *Capture) BodyForm(t *testing.T) url.Values {
	t.Helper()
	values, err := url.ParseQuery(string(c.Body))
	require.NoError(t, err, "failed to parse form body")
	return values
}

// AssertFormField verifies a single-valued form field.
func (c *Capture) AssertFormField(t *testing.T, field, expected string) {
	t.Helper()
	assert.Equal(t, expected, c.BodyForm(t).Get(field), "unexpected value for form field: "+field)
}

// BodyString returns the body as a string.
func (c *Capture) BodyString() string {
	return string(c.Body)
}
