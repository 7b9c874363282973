//go:build linux
// +build linux

package tio

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Interest is an immutable bitset over the readiness kinds a caller
// wishes to observe for a registered source.
type Interest uint8

const (
	// Readable requests readability and remote-half-close events.
	Readable Interest = 1 << iota
	// Writable requests writability events.
	Writable
	// Priority requests out-of-band/priority data events.
	Priority
)

// Or returns the union of i and other.
func (i Interest) Or(other Interest) Interest {
	return i | other
}

// Remove returns i with every bit set in other cleared.
func (i Interest) Remove(other Interest) Interest {
	return i &^ other
}

// IsEmpty reports whether no bit is set.
func (i Interest) IsEmpty() bool {
	return i == 0
}

// IsReadable reports whether the Readable bit is set.
func (i Interest) IsReadable() bool {
	return i&Readable != 0
}

// IsWritable reports whether the Writable bit is set.
func (i Interest) IsWritable() bool {
	return i&Writable != 0
}

// IsPriority reports whether the Priority bit is set.
func (i Interest) IsPriority() bool {
	return i&Priority != 0
}

// String renders the set bits, e.g. "interest(READABLE|WRITABLE)".
func (i Interest) String() string {
	if i.IsEmpty() {
		return "interest(NONE)"
	}
	var parts []string
	if i.IsReadable() {
		parts = append(parts, "READABLE")
	}
	if i.IsWritable() {
		parts = append(parts, "WRITABLE")
	}
	if i.IsPriority() {
		parts = append(parts, "PRIORITY")
	}
	return "interest(" + strings.Join(parts, "|") + ")"
}

// toEpoll translates the interest set to epoll flags. Edge-triggered
// mode is always requested; Readable additionally requests
// EPOLLRDHUP so a peer's half-close is visible as Event.IsReadClosed.
func (i Interest) toEpoll() uint32 {
	flags := uint32(unix.EPOLLET)
	if i.IsReadable() {
		flags |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if i.IsWritable() {
		flags |= unix.EPOLLOUT
	}
	if i.IsPriority() {
		flags |= unix.EPOLLPRI
	}
	return flags
}
