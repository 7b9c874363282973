//go:build linux
// +build linux

package tio

import (
	"os"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/fzft/tio/log"
)

// Waker lets another goroutine interrupt a blocked Poll.Wait from the
// outside. It is backed by an eventfd registered Readable on the
// target registry: Wake writes to the eventfd, which the kernel
// reports as a normal readability event carrying the token Waker was
// created with; the waiting goroutine then calls Drain to reset it.
//
// Multiple Wake calls that land before the next Drain coalesce into a
// single readability event, the same behavior as the eventfd it
// wraps.
type Waker struct {
	fd fdGuard
}

// NewWaker creates an eventfd and registers it Readable on reg under
// tok. The returned Waker owns the eventfd; closing it also
// deregisters it from reg.
func NewWaker(reg *Registry, tok Token) (*Waker, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("eventfd", err)
	}
	if err := reg.RegisterFd(fd, tok, Readable); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return &Waker{fd: newFdGuard(fd)}, nil
}

// Wake interrupts a goroutine blocked in Poll.Wait on the registry
// this Waker was registered with. Wake is safe to call from any
// goroutine, including concurrently with itself and with Drain.
func (w *Waker) Wake() error {
	one := uint64(1)
	_, err := unix.Write(w.fd.rawFd(), (*(*[8]byte)(unsafe.Pointer(&one)))[:])
	if err != nil {
		// EAGAIN means the eventfd counter is already saturated,
		// i.e. a wake is already pending; that satisfies the caller
		// just as well as this write would have.
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil
		}
		log.Logger.Debug("waker write failed", zap.Error(err))
		return os.NewSyscallError("write", err)
	}
	return nil
}

// Drain resets the eventfd after observing its readability event so
// the next Wake produces a fresh event rather than being coalesced
// into one already consumed. Best-effort cleanup: any error, not just
// would-block, is swallowed and only logged, matching
// eventfd_waker::drain discarding whatever read() reports.
func (w *Waker) Drain() error {
	var buf uint64
	_, err := unix.Read(w.fd.rawFd(), (*(*[8]byte)(unsafe.Pointer(&buf)))[:])
	if err != nil {
		log.Logger.Debug("waker drain failed", zap.Error(err))
	}
	return nil
}

// Close deregisters the eventfd from reg and closes it.
func (w *Waker) Close(reg *Registry) error {
	derr := reg.DeregisterFd(w.fd.rawFd())
	cerr := w.fd.close()
	return joinCloseErrors(derr, cerr)
}
