// Package events provides a small in-process, synchronous typed
// publish/subscribe bus.
package events

import "sync"

// Unsubscribe removes the registration that produced it. Calling it more
// than once is a no-op.
type Unsubscribe func()

// Bus dispatches values of type T to subscribers in registration order.
//
// Publish iterates a snapshot of the subscriber list, so a subscriber added
// or removed during dispatch does not affect the current emission. Dispatch
// is synchronous: a subscriber that panics propagates to the caller of
// Publish; the bus does not swallow or isolate subscriber failures.
//
// The zero value is ready to use.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   []subscription[T]
	nextID uint64
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a handle that removes exactly this
// registration. Registering the same function twice yields two independent
// registrations with independent handles.
func (b *Bus[T]) Subscribe(fn func(T)) Unsubscribe {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	return func() { b.remove(id) }
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers v to every current subscriber, in registration order.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	snapshot := make([]subscription[T], len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.fn(v)
	}
}

// Clear drops all registrations.
func (b *Bus[T]) Clear() {
	b.mu.Lock()
	b.subs = nil
	b.mu.Unlock()
}

// Len returns the number of active registrations.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
