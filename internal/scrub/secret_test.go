package scrub_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/xoxa/internal/scrub"
	"github.com/prilive-com/xoxa/xm"
)

func TestSecretsFromError(t *testing.T) {
	err := errors.New(`post "https://api.example.org/bot123456:SECRET/sendMessage": connection refused`)

	scrubbed := scrub.SecretsFromError(err, xm.Secret("123456:SECRET"))

	require.Error(t, scrubbed)
	assert.NotContains(t, scrubbed.Error(), "123456:SECRET")
	assert.Contains(t, scrubbed.Error(), "[REDACTED]")
	assert.Contains(t, scrubbed.Error(), "connection refused")
}

func TestSecretsFromErrorPreservesChain(t *testing.T) {
	sentinel := errors.New("underlying failure")
	err := fmt.Errorf("post with token SECRET: %w", sentinel)

	scrubbed := scrub.SecretsFromError(err, xm.Secret("SECRET"))

	assert.ErrorIs(t, scrubbed, sentinel)
}

func TestSecretsFromErrorNoMatchReturnsOriginal(t *testing.T) {
	err := errors.New("plain failure")
	assert.Same(t, err, scrub.SecretsFromError(err, xm.Secret("SECRET")))
}

func TestSecretsFromErrorNil(t *testing.T) {
	assert.NoError(t, scrub.SecretsFromError(nil, xm.Secret("SECRET")))
}

func TestSecretsFromErrorEmptySecret(t *testing.T) {
	err := errors.New("failure")
	assert.Same(t, err, scrub.SecretsFromError(err, xm.Secret("")))
}

func TestString(t *testing.T) {
	got := scrub.String("Authorization: Bearer TOKEN1 then TOKEN2",
		xm.Secret("TOKEN1"), xm.Secret("TOKEN2"))

	assert.Equal(t, "Authorization: Bearer [REDACTED] then [REDACTED]", got)
}
