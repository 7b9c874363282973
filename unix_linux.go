//go:build linux
// +build linux

package tio

import (
	"os"

	"golang.org/x/sys/unix"
)

// UnixListener is a non-blocking, edge-triggered Unix-domain stream
// listener, the SOCK_STREAM counterpart to TCPListener over AF_UNIX.
type UnixListener struct {
	fd fdGuard
}

// BindUnix creates, binds and listens on addr.
func BindUnix(addr UnixAddr, backlog int) (*UnixListener, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	g := newFdGuard(fd)
	if err := unix.Bind(fd, addr.asSockaddr()); err != nil {
		g.close()
		return nil, os.NewSyscallError("bind", err)
	}
	if backlog <= 0 {
		backlog = unix.SOMAXCONN
	}
	if err := unix.Listen(fd, backlog); err != nil {
		g.close()
		return nil, os.NewSyscallError("listen", err)
	}
	return &UnixListener{fd: g}, nil
}

// Accept accepts one pending connection.
func (l *UnixListener) Accept() (*UnixStream, UnixAddr, error) {
	fd, sa, err := unix.Accept4(l.fd.rawFd(), unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return nil, UnixAddr{}, LastOSError(err)
	}
	peer, _ := sa.(*unix.SockaddrUnix)
	return &UnixStream{fd: newFdGuard(fd)}, unixAddrFromRaw(peer), nil
}

// LocalAddr returns the address the listener is bound to.
func (l *UnixListener) LocalAddr() (UnixAddr, error) {
	sa, err := unix.Getsockname(l.fd.rawFd())
	if err != nil {
		return UnixAddr{}, os.NewSyscallError("getsockname", err)
	}
	su, _ := sa.(*unix.SockaddrUnix)
	return unixAddrFromRaw(su), nil
}

// Register adds the listener to reg under tok.
func (l *UnixListener) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(l.fd.rawFd(), tok, interest)
}

// Reregister replaces the listener's interest.
func (l *UnixListener) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(l.fd.rawFd(), tok, interest)
}

// Deregister removes the listener from reg.
func (l *UnixListener) Deregister(reg *Registry) error {
	return reg.DeregisterFd(l.fd.rawFd())
}

// Close closes the listener, unlinking is the caller's responsibility.
func (l *UnixListener) Close() error {
	return l.fd.close()
}

// UnixStream is a non-blocking, edge-triggered Unix-domain stream
// connection.
type UnixStream struct {
	fd fdGuard
}

// DialUnix connects to addr.
func DialUnix(addr UnixAddr) (*UnixStream, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	g := newFdGuard(fd)
	err = unix.Connect(fd, addr.asSockaddr())
	if err != nil && err != unix.EINPROGRESS {
		g.close()
		return nil, os.NewSyscallError("connect", err)
	}
	return &UnixStream{fd: g}, nil
}

// UnixStreamPair returns a connected pair of UnixStreams, the
// SOCK_STREAM socketpair equivalent of MakePipe.
func UnixStreamPair() (*UnixStream, *UnixStream, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err)
	}
	return &UnixStream{fd: newFdGuard(fds[0])}, &UnixStream{fd: newFdGuard(fds[1])}, nil
}

// Read reads into b.
func (s *UnixStream) Read(b []byte) (int, error) {
	n, err := unix.Read(s.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Write writes b, sent with MSG_NOSIGNAL to match TCPStream.Write.
func (s *UnixStream) Write(b []byte) (int, error) {
	n, err := unix.SendmsgN(s.fd.rawFd(), b, nil, nil, unix.MSG_NOSIGNAL)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// TakeError clears and returns the socket's pending SO_ERROR.
func (s *UnixStream) TakeError() error {
	return takeSocketError(s.fd.rawFd())
}

// Register adds the stream to reg under tok.
func (s *UnixStream) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(s.fd.rawFd(), tok, interest)
}

// Reregister replaces the stream's interest.
func (s *UnixStream) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(s.fd.rawFd(), tok, interest)
}

// Deregister removes the stream from reg.
func (s *UnixStream) Deregister(reg *Registry) error {
	return reg.DeregisterFd(s.fd.rawFd())
}

// Close closes the connection.
func (s *UnixStream) Close() error {
	return s.fd.close()
}

// UnixDatagram is a non-blocking, edge-triggered Unix-domain
// datagram socket, the AF_UNIX counterpart to UDPSocket.
type UnixDatagram struct {
	fd fdGuard
}

// BindUnixDatagram creates and binds a datagram socket to addr.
func BindUnixDatagram(addr UnixAddr) (*UnixDatagram, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	g := newFdGuard(fd)
	if err := unix.Bind(fd, addr.asSockaddr()); err != nil {
		g.close()
		return nil, os.NewSyscallError("bind", err)
	}
	return &UnixDatagram{fd: g}, nil
}

// UnixDatagramPair returns a connected pair of UnixDatagrams.
func UnixDatagramPair() (*UnixDatagram, *UnixDatagram, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err)
	}
	return &UnixDatagram{fd: newFdGuard(fds[0])}, &UnixDatagram{fd: newFdGuard(fds[1])}, nil
}

// SendTo sends b to addr.
func (d *UnixDatagram) SendTo(b []byte, addr UnixAddr) (int, error) {
	err := unix.Sendto(d.fd.rawFd(), b, 0, addr.asSockaddr())
	if err != nil {
		return 0, LastOSError(err)
	}
	return len(b), nil
}

// RecvFrom receives into b, returning the sender's address.
func (d *UnixDatagram) RecvFrom(b []byte) (int, UnixAddr, error) {
	n, sa, err := unix.Recvfrom(d.fd.rawFd(), b, 0)
	if err != nil {
		return 0, UnixAddr{}, LastOSError(err)
	}
	su, _ := sa.(*unix.SockaddrUnix)
	return n, unixAddrFromRaw(su), nil
}

// Send sends b to a connected peer.
func (d *UnixDatagram) Send(b []byte) (int, error) {
	n, err := unix.Write(d.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Recv receives from a connected peer.
func (d *UnixDatagram) Recv(b []byte) (int, error) {
	n, err := unix.Read(d.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Register adds the socket to reg under tok.
func (d *UnixDatagram) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(d.fd.rawFd(), tok, interest)
}

// Reregister replaces the socket's interest.
func (d *UnixDatagram) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(d.fd.rawFd(), tok, interest)
}

// Deregister removes the socket from reg.
func (d *UnixDatagram) Deregister(reg *Registry) error {
	return reg.DeregisterFd(d.fd.rawFd())
}

// Close closes the socket.
func (d *UnixDatagram) Close() error {
	return d.fd.close()
}
