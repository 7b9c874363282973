//go:build linux
// +build linux

package tio

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Event reports one readiness notification: the Token the caller
// registered the source under, and which interests fired.
type Event struct {
	token Token
	flags uint32
}

// Token returns the token the originating source was registered with.
func (e Event) Token() Token {
	return e.token
}

// IsReadable reports data (or a listener's pending connection)
// available to read.
func (e Event) IsReadable() bool {
	return e.flags&(unix.EPOLLIN|unix.EPOLLPRI) != 0
}

// IsWritable reports the source ready to accept a write.
func (e Event) IsWritable() bool {
	return e.flags&unix.EPOLLOUT != 0
}

// IsPriority reports urgent/out-of-band data available.
func (e Event) IsPriority() bool {
	return e.flags&unix.EPOLLPRI != 0
}

// IsReadClosed reports the peer having closed its write half (or the
// full connection): EPOLLRDHUP or EPOLLHUP is set, whether or not the
// event also carries readability. A caller should keep reading until
// it observes a zero-byte result.
func (e Event) IsReadClosed() bool {
	return e.flags&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0
}

// IsWriteClosed reports the local write half no longer usable.
func (e Event) IsWriteClosed() bool {
	return e.flags&(unix.EPOLLHUP|unix.EPOLLERR) != 0
}

// IsError reports an error condition; callers should retrieve and
// clear it (e.g. via SO_ERROR) rather than treat the source as ready.
func (e Event) IsError() bool {
	return e.flags&unix.EPOLLERR != 0
}

// String renders the event for logs and test failures.
func (e Event) String() string {
	return fmt.Sprintf("event{token=%d flags=%#x}", uint64(e.token), e.flags)
}

// defaultEventBatchSize is the capacity EventBatch reserves up front
// unless the caller asks for a different size.
const defaultEventBatchSize = 128

// EventBatch is a reusable buffer that Poll.Wait fills with the
// events observed by one epoll_wait call. Reusing a batch across
// calls avoids an allocation per poll iteration.
type EventBatch struct {
	raw []unix.EpollEvent
	len int
}

// NewEventBatch allocates a batch with room for capacity events. A
// non-positive capacity falls back to defaultEventBatchSize.
func NewEventBatch(capacity int) *EventBatch {
	if capacity <= 0 {
		capacity = defaultEventBatchSize
	}
	return &EventBatch{raw: make([]unix.EpollEvent, capacity)}
}

// Capacity returns the maximum number of events the batch can hold.
func (b *EventBatch) Capacity() int {
	return len(b.raw)
}

// Len returns the number of events currently held, i.e. the count
// returned by the most recent Wait.
func (b *EventBatch) Len() int {
	return b.len
}

// IsEmpty reports whether the batch holds no events.
func (b *EventBatch) IsEmpty() bool {
	return b.len == 0
}

// Clear empties the batch without shrinking its backing storage.
func (b *EventBatch) Clear() {
	b.len = 0
}

// At returns the i'th event of the current batch. It panics if i is
// out of [0, Len()).
func (b *EventBatch) At(i int) Event {
	if i < 0 || i >= b.len {
		panic("tio: EventBatch index out of range")
	}
	raw := b.raw[i]
	return Event{token: unpackToken(raw), flags: raw.Events}
}

// Each calls fn once per event in the current batch, in the order
// the kernel returned them.
func (b *EventBatch) Each(fn func(Event)) {
	for i := 0; i < b.len; i++ {
		fn(b.At(i))
	}
}

// setLen records how many of the batch's raw slots are valid. It is
// called by selector.wait after epoll_wait returns.
func (b *EventBatch) setLen(n int) {
	b.len = n
}

// rawSlice exposes the full backing array so selector.wait can pass
// it to EpollWait without a per-call allocation.
func (b *EventBatch) rawSlice() []unix.EpollEvent {
	return b.raw
}

// packToken stores a Token into the 8 bytes of epoll_data_t. x/sys/unix
// splits that union into two int32 fields (Fd, Pad); a full uint64
// token needs both halves, not just Fd.
func packToken(events uint32, tok Token) unix.EpollEvent {
	return unix.EpollEvent{
		Events: events,
		Fd:     int32(uint32(tok)),
		Pad:    int32(uint32(tok >> 32)),
	}
}

// unpackToken recovers the Token packToken stored in ev.
func unpackToken(ev unix.EpollEvent) Token {
	lo := uint64(uint32(ev.Fd))
	hi := uint64(uint32(ev.Pad))
	return Token(lo | hi<<32)
}
