package xoxa

import (
	"context"
	"time"
)

// Sleeper abstracts time-based waiting for testing.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// realSleeper uses actual time.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
