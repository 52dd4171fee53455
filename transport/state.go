package transport

import (
	"fmt"
	"sync"

	"github.com/prilive-com/xoxa/xm"
)

// Tracker is the connection-state machine shared by all transports:
// idle → connecting → connected → closing → closed, with error reachable
// on unrecoverable connect failure. The owning transport is the only
// writer; everything else reads.
type Tracker struct {
	mu    sync.RWMutex
	state xm.TransportState
}

// NewTracker returns a Tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{state: xm.StateIdle}
}

// Get returns the current state.
func (t *Tracker) Get() xm.TransportState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Set moves to state s.
func (t *Tracker) Set(s xm.TransportState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Connected reports whether the transport is currently connected.
func (t *Tracker) Connected() bool {
	return t.Get() == xm.StateConnected
}

// EnsureConnected returns the Network-kind error mandated for Send calls
// outside the connected state, or nil.
func (t *Tracker) EnsureConnected(ch xm.Channel) error {
	if st := t.Get(); st != xm.StateConnected {
		return &xm.NetworkError{
			Op:  fmt.Sprintf("send %s", ch),
			Err: fmt.Errorf("%w (state %s)", xm.ErrNotConnected, st),
		}
	}
	return nil
}
