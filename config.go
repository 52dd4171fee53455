package xoxa

import (
	"os"
	"strconv"
	"time"

	"github.com/prilive-com/xoxa/transport"
)

// Config holds client-level settings. Provider credentials do not live
// here; they belong to each transport's own config.
type Config struct {
	// AppID identifies the calling application; it is sent as the
	// X-Xoxa-App-Id header on every request.
	AppID string

	// UserAgent overrides the default client identification header.
	UserAgent string

	// Timeout is the default per-send deadline when a send option supplies
	// none.
	Timeout time.Duration

	// MaxRetries is the default retry budget per send. Total attempts are
	// MaxRetries+1.
	MaxRetries int

	// Backoff delay bounds between retry attempts.
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// Debug lowers the default logger to debug level, logging every send
	// attempt. Ignored when WithLogger supplies a logger.
	Debug bool

	// GlobalRPS/GlobalBurst enable an outbound request limiter inside each
	// transport's HTTP primitive. Zero disables it.
	GlobalRPS   float64
	GlobalBurst int

	// Breaker enables a circuit breaker inside each transport's HTTP
	// primitive. Nil disables it. This guards the wire, not the retry loop:
	// the orchestrator still retries every failure up to the budget.
	Breaker *transport.BreakerSettings
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:   defaultUserAgent,
		Timeout:     15 * time.Second,
		MaxRetries:  3,
		BackoffBase: 250 * time.Millisecond,
		BackoffMax:  5 * time.Second,
	}
}

const defaultUserAgent = "xoxa-go/0.1.0"

// LoadConfig loads non-credential settings from environment variables,
// falling back to DefaultConfig values.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	cfg.AppID = getEnv("XOXA_APP_ID", "")

	if ua := getEnv("XOXA_USER_AGENT", ""); ua != "" {
		cfg.UserAgent = ua
	}

	if d, err := time.ParseDuration(getEnv("XOXA_TIMEOUT", "15s")); err == nil {
		cfg.Timeout = d
	}

	if i, err := strconv.Atoi(getEnv("XOXA_MAX_RETRIES", "3")); err == nil {
		cfg.MaxRetries = i
	}

	if d, err := time.ParseDuration(getEnv("XOXA_BACKOFF_BASE", "250ms")); err == nil {
		cfg.BackoffBase = d
	}

	if d, err := time.ParseDuration(getEnv("XOXA_BACKOFF_MAX", "5s")); err == nil {
		cfg.BackoffMax = d
	}

	if b, err := strconv.ParseBool(getEnv("XOXA_DEBUG", "false")); err == nil {
		cfg.Debug = b
	}

	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
