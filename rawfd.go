//go:build linux
// +build linux

package tio

// RawFD adapts a bare kernel descriptor obtained from outside tio
// (e.g. a signal fd, a timerfd, a descriptor handed over by another
// process) into a Source, without tio taking ownership of it. Close
// the underlying descriptor yourself; RawFD.Deregister only removes
// it from the registration table.
type RawFD int

// Register adds fd to reg under tok.
func (fd RawFD) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(int(fd), tok, interest)
}

// Reregister replaces the interest fd was registered with.
func (fd RawFD) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(int(fd), tok, interest)
}

// Deregister removes fd from reg.
func (fd RawFD) Deregister(reg *Registry) error {
	return reg.DeregisterFd(int(fd))
}
