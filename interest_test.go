//go:build linux
// +build linux

package tio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestInterestOr(t *testing.T) {
	i := Readable.Or(Writable)
	assert.True(t, i.IsReadable())
	assert.True(t, i.IsWritable())
	assert.False(t, i.IsPriority())
}

func TestInterestOrIdempotent(t *testing.T) {
	i := Readable.Or(Readable)
	assert.Equal(t, Readable, i)
}

func TestInterestRemove(t *testing.T) {
	i := Readable.Or(Writable).Remove(Writable)
	assert.True(t, i.IsReadable())
	assert.False(t, i.IsWritable())
}

func TestInterestEmpty(t *testing.T) {
	var i Interest
	assert.True(t, i.IsEmpty())
	assert.False(t, i.IsReadable())
}

func TestInterestToEpollAlwaysEdgeTriggered(t *testing.T) {
	flags := Readable.toEpoll()
	assert.NotZero(t, flags&unix.EPOLLET)
}

func TestInterestToEpollReadableAddsRDHUP(t *testing.T) {
	flags := Readable.toEpoll()
	assert.NotZero(t, flags&unix.EPOLLIN)
	assert.NotZero(t, flags&unix.EPOLLRDHUP)
}

func TestInterestToEpollWritable(t *testing.T) {
	flags := Writable.toEpoll()
	assert.NotZero(t, flags&unix.EPOLLOUT)
	assert.Zero(t, flags&unix.EPOLLIN)
}

func TestInterestToEpollPriority(t *testing.T) {
	flags := Priority.toEpoll()
	assert.NotZero(t, flags&unix.EPOLLPRI)
}

func TestInterestString(t *testing.T) {
	assert.Equal(t, "interest(NONE)", Interest(0).String())
	assert.Equal(t, "interest(READABLE|WRITABLE)", Readable.Or(Writable).String())
}
