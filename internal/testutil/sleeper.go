package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeSleeper records sleep calls without actually sleeping.
// It is safe for concurrent use.
type FakeSleeper struct {
	mu    sync.Mutex
	calls []time.Duration

	// Err, if set, is returned from Sleep to simulate cancellation.
	Err error
}

// Sleep records the requested duration and returns immediately.
func (f *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	f.calls = append(f.calls, d)
	f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	return ctx.Err()
}

// Calls returns a copy of all recorded sleep durations.
func (f *FakeSleeper) Calls() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of recorded sleeps.
func (f *FakeSleeper) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// CallAt returns the duration of the i-th recorded sleep.
func (f *FakeSleeper) CallAt(i int) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.calls) {
		return 0
	}
	return f.calls[i]
}

// LastCall returns the most recent recorded sleep duration.
func (f *FakeSleeper) LastCall() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return 0
	}
	return f.calls[len(f.calls)-1]
}

// Reset clears all recorded calls.
func (f *FakeSleeper) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
