//go:build linux
// +build linux

package tio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFdGuardReleaseDoesNotClose(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	g := newFdGuard(fds[0])

	released := g.release()
	assert.Equal(t, fds[0], released)
	assert.True(t, g.empty())

	// released fd is still open; close it ourselves to avoid a leak.
	require.NoError(t, unix.Close(released))
	require.NoError(t, unix.Close(fds[1]))
}

func TestFdGuardCloseIsIdempotent(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	g := newFdGuard(fds[0])

	require.NoError(t, g.close())
	assert.True(t, g.empty())
	require.NoError(t, g.close())

	require.NoError(t, unix.Close(fds[1]))
}

func TestFdGuardResetClosesPrevious(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	var other [2]int
	require.NoError(t, unix.Pipe2(other[:], unix.O_CLOEXEC))

	g := newFdGuard(fds[0])
	g.reset(other[0])
	assert.Equal(t, other[0], g.rawFd())
	_, err := unix.FcntlInt(uintptr(fds[0]), unix.F_GETFD, 0)
	assert.ErrorIs(t, err, unix.EBADF)

	require.NoError(t, g.close())
	require.NoError(t, unix.Close(fds[1]))
	require.NoError(t, unix.Close(other[1]))
}

func TestFdGuardEmptySentinel(t *testing.T) {
	g := newFdGuard(-1)
	assert.True(t, g.empty())
}
