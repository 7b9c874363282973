//go:build linux
// +build linux

package tio

import "time"

// Poll is the facade applications drive directly: it owns the
// selector, hands out Registry handles that sources register
// through, and runs epoll_wait on demand via Wait.
//
// A Poll is not safe for concurrent Wait calls from more than one
// goroutine — exactly one goroutine should own the wait loop, the
// same convention the original event loop followed. Registering and
// deregistering sources from other goroutines while that loop blocks
// is safe and is the reason Waker exists.
type Poll struct {
	sel *selector
}

// New creates a Poll backed by a fresh epoll instance.
func New() (*Poll, error) {
	sel, err := newSelector()
	if err != nil {
		return nil, err
	}
	return &Poll{sel: sel}, nil
}

// Registry returns the handle sources register through. The same
// Registry can be shared across goroutines and cloned via TryClone.
func (p *Poll) Registry() *Registry {
	return &Registry{sel: p.sel}
}

// Wait blocks until batch has at least one event, timeout elapses, or
// the call returns early due to a signal (handled transparently). A
// negative timeout blocks indefinitely; zero polls without blocking.
// batch is cleared and refilled in place; iterate it with Each or At.
func (p *Poll) Wait(batch *EventBatch, timeout time.Duration) error {
	return p.sel.wait(batch, timeoutToMillis(timeout))
}

// timeoutToMillis converts a Wait timeout to the millisecond argument
// epoll_wait expects, preserving "block forever" for any negative
// duration instead of truncating it to some finite value.
func timeoutToMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := d.Milliseconds()
	if ms > int64(int(^uint(0)>>1)) {
		ms = int64(int(^uint(0) >> 1))
	}
	return int(ms)
}

// Close releases the underlying epoll descriptor. It does not close
// any source registered on it; callers own their sources' lifetimes
// independently of the Poll they were registered with.
func (p *Poll) Close() error {
	return p.sel.close()
}
