package tio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLastOSErrorNil(t *testing.T) {
	assert.Nil(t, LastOSError(nil))
}

func TestLastOSErrorPredicates(t *testing.T) {
	err := LastOSError(unix.EAGAIN)
	require.NotNil(t, err)
	assert.True(t, err.IsWouldBlock())
	assert.False(t, err.IsInterrupted())
}

func TestErrorUnwrapsToErrno(t *testing.T) {
	err := LastOSError(unix.ECONNRESET)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, unix.ECONNRESET))
	assert.True(t, err.IsConnectionReset())
}

func TestErrorNonErrnoFoldsToEIO(t *testing.T) {
	err := LastOSError(errors.New("boom"))
	require.NotNil(t, err)
	assert.Equal(t, unix.EIO, err.Errno())
}

func TestCloseErrorsAggregates(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")
	var errs CloseErrors = []error{e1, e2}
	msg := errs.Error()
	assert.Contains(t, msg, "first")
	assert.Contains(t, msg, "second")
}

func TestJoinCloseErrorsNilWhenAllNil(t *testing.T) {
	assert.NoError(t, joinCloseErrors(nil, nil))
}

func TestJoinCloseErrorsSingle(t *testing.T) {
	err := errors.New("boom")
	got := joinCloseErrors(nil, err)
	assert.Same(t, err, got)
}

func TestJoinCloseErrorsMultiple(t *testing.T) {
	err := joinCloseErrors(errors.New("a"), errors.New("b"))
	require.Error(t, err)
	_, ok := err.(CloseErrors)
	assert.True(t, ok)
}
