package xoxa_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/xoxa"
)

func TestDefaultConfig(t *testing.T) {
	cfg := xoxa.DefaultConfig()

	assert.Equal(t, "xoxa-go/0.1.0", cfg.UserAgent)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.BackoffBase)
	assert.Equal(t, 5*time.Second, cfg.BackoffMax)
	assert.Zero(t, cfg.GlobalRPS)
	assert.Nil(t, cfg.Breaker)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := xoxa.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("XOXA_APP_ID", "billing-svc")
	t.Setenv("XOXA_USER_AGENT", "billing/2.0")
	t.Setenv("XOXA_TIMEOUT", "30s")
	t.Setenv("XOXA_MAX_RETRIES", "5")
	t.Setenv("XOXA_BACKOFF_BASE", "100ms")
	t.Setenv("XOXA_BACKOFF_MAX", "2s")
	t.Setenv("XOXA_DEBUG", "true")

	cfg, err := xoxa.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "billing-svc", cfg.AppID)
	assert.Equal(t, "billing/2.0", cfg.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.BackoffBase)
	assert.Equal(t, 2*time.Second, cfg.BackoffMax)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("XOXA_TIMEOUT", "not-a-duration")
	t.Setenv("XOXA_MAX_RETRIES", "many")

	cfg, err := xoxa.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}
