package xoxa

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Backoff computes the delay before a retry attempt: exponential doubling
// from Base, capped at Max, jittered by a uniform multiplier in
// [0.75, 1.25], and never below Base. Pure up to jitter; no side effects.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Compute returns the delay for the given 1-based attempt number.
// Attempts below 1 are treated as attempt 1.
func (b Backoff) Compute(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := b.Base
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	max := b.Max
	if max < base {
		max = base
	}

	// Doubling saturates at the cap well before the shift could overflow.
	raw := base
	for i := 1; i < attempt && raw < max; i++ {
		raw *= 2
	}
	if raw > max {
		raw = max
	}

	jittered := raw + jitter(raw)
	if jittered < base {
		jittered = base
	}
	return jittered
}

// jitter draws a uniform offset in [-d/4, +d/4).
func jitter(d time.Duration) time.Duration {
	half := int64(d) / 2
	if half <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(half))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64() - half/2)
}
