//go:build linux
// +build linux

package tio

import (
	"os"

	"golang.org/x/sys/unix"
)

// PipeSender is the write half of an anonymous pipe created by
// MakePipe.
type PipeSender struct {
	fd fdGuard
}

// PipeReceiver is the read half of an anonymous pipe created by
// MakePipe.
type PipeReceiver struct {
	fd fdGuard
}

// MakePipe creates a non-blocking pipe in one syscall via pipe2,
// rather than pipe followed by a pair of fcntl calls.
func MakePipe() (*PipeReceiver, *PipeSender, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, nil, os.NewSyscallError("pipe2", err)
	}
	return &PipeReceiver{fd: newFdGuard(fds[0])}, &PipeSender{fd: newFdGuard(fds[1])}, nil
}

// Write writes b to the pipe.
func (s *PipeSender) Write(b []byte) (int, error) {
	n, err := unix.Write(s.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Register adds the write end to reg under tok.
func (s *PipeSender) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(s.fd.rawFd(), tok, interest)
}

// Reregister replaces the write end's interest.
func (s *PipeSender) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(s.fd.rawFd(), tok, interest)
}

// Deregister removes the write end from reg.
func (s *PipeSender) Deregister(reg *Registry) error {
	return reg.DeregisterFd(s.fd.rawFd())
}

// Close closes the write end. Closing it causes the read end's next
// Read to return 0, nil once buffered data is drained.
func (s *PipeSender) Close() error {
	return s.fd.close()
}

// Read reads from the pipe. A zero-length, nil-error result means the
// write end has been closed and the pipe is drained.
func (r *PipeReceiver) Read(b []byte) (int, error) {
	n, err := unix.Read(r.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Register adds the read end to reg under tok.
func (r *PipeReceiver) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(r.fd.rawFd(), tok, interest)
}

// Reregister replaces the read end's interest.
func (r *PipeReceiver) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(r.fd.rawFd(), tok, interest)
}

// Deregister removes the read end from reg.
func (r *PipeReceiver) Deregister(reg *Registry) error {
	return reg.DeregisterFd(r.fd.rawFd())
}

// Close closes the read end.
func (r *PipeReceiver) Close() error {
	return r.fd.close()
}
