package tio

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Error wraps a platform error number with named predicates for the
// error kinds consumers actually branch on. It always wraps a
// syscall.Errno (via golang.org/x/sys/unix); LastOSError folds any
// other error to EIO rather than carrying it.
type Error struct {
	errno unix.Errno
}

// NewError wraps a raw errno value.
func NewError(errno unix.Errno) *Error {
	return &Error{errno: errno}
}

// LastOSError wraps an error returned by a unix.* call. A nil err
// returns nil; an err that is not a unix.Errno is folded to EIO so
// callers always get a usable *Error.
func LastOSError(err error) *Error {
	if err == nil {
		return nil
	}
	errno, ok := err.(unix.Errno)
	if !ok {
		errno = unix.EIO
	}
	return &Error{errno: errno}
}

// Errno returns the wrapped platform error number.
func (e *Error) Errno() unix.Errno {
	return e.errno
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.errno.Error()
}

// Message returns the platform strerror string for the wrapped errno.
func (e *Error) Message() string {
	return e.errno.Error()
}

// Unwrap lets errors.Is/As and os.NewSyscallError see through to the
// underlying syscall.Errno.
func (e *Error) Unwrap() error {
	return e.errno
}

// IsWouldBlock reports whether the operation would have blocked.
func (e *Error) IsWouldBlock() bool {
	return e.errno == unix.EAGAIN || e.errno == unix.EWOULDBLOCK
}

// IsInterrupted reports whether the call was interrupted by a signal.
func (e *Error) IsInterrupted() bool {
	return e.errno == unix.EINTR
}

// IsConnectionRefused reports a refused connection attempt.
func (e *Error) IsConnectionRefused() bool {
	return e.errno == unix.ECONNREFUSED
}

// IsConnectionReset reports a peer reset.
func (e *Error) IsConnectionReset() bool {
	return e.errno == unix.ECONNRESET
}

// IsConnectionAborted reports a locally aborted connection.
func (e *Error) IsConnectionAborted() bool {
	return e.errno == unix.ECONNABORTED
}

// IsNotConnected reports use of an unconnected socket.
func (e *Error) IsNotConnected() bool {
	return e.errno == unix.ENOTCONN
}

// IsAddrInUse reports a bind to an address already in use.
func (e *Error) IsAddrInUse() bool {
	return e.errno == unix.EADDRINUSE
}

// IsBrokenPipe reports a write to a peer that has gone away.
func (e *Error) IsBrokenPipe() bool {
	return e.errno == unix.EPIPE
}

// IsAlreadyExists reports a duplicate-registration conflict.
func (e *Error) IsAlreadyExists() bool {
	return e.errno == unix.EEXIST
}

// IsInProgress reports a non-blocking connect that has not completed.
func (e *Error) IsInProgress() bool {
	return e.errno == unix.EINPROGRESS
}

// ErrAlreadyExists is returned by Registry.RegisterFd (and so by every
// Source's Register) when the descriptor is already present in the
// registration table.
var ErrAlreadyExists = NewError(unix.EEXIST)

// ErrNotFound is returned by Registry.ReregisterFd/DeregisterFd (and so
// by every Source's Reregister/Deregister) when the descriptor has no
// entry in the registration table.
var ErrNotFound = NewError(unix.ENOENT)

// CloseErrors aggregates failures encountered while tearing down an
// owning wrapper that has more than one teardown step (e.g. a Waker
// deregistering then closing its eventfd).
type CloseErrors []error

// Error implements the error interface.
func (m CloseErrors) Error() string {
	var b strings.Builder
	b.WriteString("tio: multiple close errors:")
	for _, err := range m {
		b.WriteString("\n- " + err.Error())
	}
	return b.String()
}
