//go:build linux
// +build linux

package tio

import (
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/fzft/tio/log"
)

// selector owns one epoll instance. epoll_ctl and epoll_wait are both
// safe to call concurrently from different goroutines on the same
// epoll fd, so selector needs no mutex of its own: one goroutine can
// block in Wait while others Register/Reregister/Deregister.
type selector struct {
	epollFd fdGuard
}

func newSelector() (*selector, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		log.Logger.Error("epoll_create1 failed", zap.Error(err))
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	return &selector{epollFd: newFdGuard(fd)}, nil
}

// register adds fd to the interest list under tok. EEXIST from the
// kernel (fd already present) is surfaced as ErrAlreadyExists.
func (s *selector) register(fd int, tok Token, interest Interest) error {
	ev := packToken(interest.toEpoll(), tok)
	err := unix.EpollCtl(s.epollFd.rawFd(), unix.EPOLL_CTL_ADD, fd, &ev)
	if err == unix.EEXIST {
		return ErrAlreadyExists
	}
	return os.NewSyscallError("epoll_ctl add", err)
}

// reregister replaces the interest fd was registered with. ENOENT
// (fd not present) is surfaced as ErrNotFound.
func (s *selector) reregister(fd int, tok Token, interest Interest) error {
	ev := packToken(interest.toEpoll(), tok)
	err := unix.EpollCtl(s.epollFd.rawFd(), unix.EPOLL_CTL_MOD, fd, &ev)
	if err == unix.ENOENT {
		return ErrNotFound
	}
	return os.NewSyscallError("epoll_ctl mod", err)
}

// deregister removes fd from the interest list.
func (s *selector) deregister(fd int) error {
	err := unix.EpollCtl(s.epollFd.rawFd(), unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT {
		return ErrNotFound
	}
	return os.NewSyscallError("epoll_ctl del", err)
}

// wait blocks until at least one registered fd is ready, timeoutMs
// elapses (-1 blocks indefinitely, 0 polls without blocking), or the
// call is interrupted. It retries transparently on EINTR, matching
// the original's selector::do_poll.
func (s *selector) wait(batch *EventBatch, timeoutMs int) error {
	for {
		n, err := unix.EpollWait(s.epollFd.rawFd(), batch.rawSlice(), timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			batch.setLen(0)
			return os.NewSyscallError("epoll_wait", err)
		}
		batch.setLen(n)
		return nil
	}
}

// duplicate returns a new descriptor referring to the same epoll
// instance, for Registry.TryClone.
func (s *selector) duplicate() (int, error) {
	fd, err := unix.Dup(s.epollFd.rawFd())
	if err != nil {
		return -1, os.NewSyscallError("dup", err)
	}
	return fd, nil
}

func (s *selector) close() error {
	return s.epollFd.close()
}
