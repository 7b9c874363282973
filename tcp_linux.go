//go:build linux
// +build linux

package tio

import (
	"os"

	"golang.org/x/sys/unix"
)

// TCPListener is a non-blocking, edge-triggered TCP listening socket.
// Like every owning wrapper in this package, its zero value is not
// usable; create one with BindTCP.
type TCPListener struct {
	fd fdGuard
}

// BindTCP creates, binds and listens on addr. SO_REUSEADDR is set
// before bind, matching tcp_listener::bind's default; the socket and
// every connection it accepts are created SOCK_NONBLOCK|SOCK_CLOEXEC
// so there is no separate fcntl step afterward.
func BindTCP(addr SocketAddr, backlog int) (*TCPListener, error) {
	fd, err := unix.Socket(addr.Family(), unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	g := newFdGuard(fd)

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		g.close()
		return nil, os.NewSyscallError("setsockopt(SO_REUSEADDR)", err)
	}
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
	return &TCPListener{fd: g}, nil
}

// Accept accepts one pending connection. It returns an *Error
// satisfying IsWouldBlock when there is nothing to accept yet, the
// edge-triggered signal to keep accepting until that happens.
func (l *TCPListener) Accept() (*TCPStream, SocketAddr, error) {
	fd, sa, err := unix.Accept4(l.fd.rawFd(), unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return nil, SocketAddr{}, LastOSError(err)
	}
	peer, err := socketAddrFromRaw(sa)
	if err != nil {
		unix.Close(fd)
		return nil, SocketAddr{}, err
	}
	return &TCPStream{fd: newFdGuard(fd)}, peer, nil
}

// LocalAddr returns the address the listener is bound to.
func (l *TCPListener) LocalAddr() (SocketAddr, error) {
	return getsockname(l.fd.rawFd())
}

// SetTTL sets the socket's IP_TTL.
func (l *TCPListener) SetTTL(ttl int) error {
	return setTTL(l.fd.rawFd(), ttl)
}

// TTL returns the socket's IP_TTL.
func (l *TCPListener) TTL() (int, error) {
	return getTTL(l.fd.rawFd())
}

// TakeError clears and returns the socket's pending SO_ERROR, or nil
// if there is none.
func (l *TCPListener) TakeError() error {
	return takeSocketError(l.fd.rawFd())
}

// Register adds the listener to reg under tok.
func (l *TCPListener) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(l.fd.rawFd(), tok, interest)
}

// Reregister replaces the listener's interest.
func (l *TCPListener) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(l.fd.rawFd(), tok, interest)
}

// Deregister removes the listener from reg.
func (l *TCPListener) Deregister(reg *Registry) error {
	return reg.DeregisterFd(l.fd.rawFd())
}

// Close closes the listening socket.
func (l *TCPListener) Close() error {
	return l.fd.close()
}

// TCPStream is a non-blocking, edge-triggered TCP connection.
type TCPStream struct {
	fd fdGuard
}

// DialTCP starts a non-blocking connect to addr. The connect is very
// likely still in progress when DialTCP returns; wait for the stream
// to become Writable (registering it with Writable interest), then
// call TakeError to discover whether it actually succeeded.
func DialTCP(addr SocketAddr) (*TCPStream, error) {
	fd, err := unix.Socket(addr.Family(), unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	g := newFdGuard(fd)
	err = unix.Connect(fd, addr.asSockaddr())
	if err != nil && err != unix.EINPROGRESS {
		g.close()
		return nil, os.NewSyscallError("connect", err)
	}
	return &TCPStream{fd: g}, nil
}

// Read reads into b. A zero-length, nil-error result means the peer
// has shut down its write half; an *Error satisfying IsWouldBlock
// means the edge has been fully drained for now.
func (s *TCPStream) Read(b []byte) (int, error) {
	n, err := unix.Read(s.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Write writes b, returning a short count on a partial write rather
// than looping internally — callers drive their own write buffering,
// as the original's write_vectored/write do. Sent with MSG_NOSIGNAL,
// matching tcp_stream::write's use of send() over write().
func (s *TCPStream) Write(b []byte) (int, error) {
	n, err := unix.SendmsgN(s.fd.rawFd(), b, nil, nil, unix.MSG_NOSIGNAL)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Peek reads without consuming, via MSG_PEEK.
func (s *TCPStream) Peek(b []byte) (int, error) {
	n, _, err := unix.Recvfrom(s.fd.rawFd(), b, unix.MSG_PEEK)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Shutdown shuts down how, one of unix.SHUT_RD, SHUT_WR, SHUT_RDWR.
func (s *TCPStream) Shutdown(how int) error {
	return os.NewSyscallError("shutdown", unix.Shutdown(s.fd.rawFd(), how))
}

// SetNoDelay toggles TCP_NODELAY.
func (s *TCPStream) SetNoDelay(v bool) error {
	n := 0
	if v {
		n = 1
	}
	return os.NewSyscallError("setsockopt(TCP_NODELAY)",
		unix.SetsockoptInt(s.fd.rawFd(), unix.IPPROTO_TCP, unix.TCP_NODELAY, n))
}

// NoDelay reports whether TCP_NODELAY is set.
func (s *TCPStream) NoDelay() (bool, error) {
	v, err := unix.GetsockoptInt(s.fd.rawFd(), unix.IPPROTO_TCP, unix.TCP_NODELAY)
	if err != nil {
		return false, os.NewSyscallError("getsockopt(TCP_NODELAY)", err)
	}
	return v != 0, nil
}

// PeerAddr returns the address of the connected peer.
func (s *TCPStream) PeerAddr() (SocketAddr, error) {
	sa, err := unix.Getpeername(s.fd.rawFd())
	if err != nil {
		return SocketAddr{}, os.NewSyscallError("getpeername", err)
	}
	return socketAddrFromRaw(sa)
}

// LocalAddr returns the local address of the connection.
func (s *TCPStream) LocalAddr() (SocketAddr, error) {
	return getsockname(s.fd.rawFd())
}

// SetTTL sets the socket's IP_TTL.
func (s *TCPStream) SetTTL(ttl int) error {
	return setTTL(s.fd.rawFd(), ttl)
}

// TTL returns the socket's IP_TTL.
func (s *TCPStream) TTL() (int, error) {
	return getTTL(s.fd.rawFd())
}

// TakeError clears and returns the socket's pending SO_ERROR. Used
// after a non-blocking connect becomes writable to learn whether it
// actually succeeded.
func (s *TCPStream) TakeError() error {
	return takeSocketError(s.fd.rawFd())
}

// Register adds the stream to reg under tok.
func (s *TCPStream) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(s.fd.rawFd(), tok, interest)
}

// Reregister replaces the stream's interest.
func (s *TCPStream) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(s.fd.rawFd(), tok, interest)
}

// Deregister removes the stream from reg.
func (s *TCPStream) Deregister(reg *Registry) error {
	return reg.DeregisterFd(s.fd.rawFd())
}

// Close closes the connection.
func (s *TCPStream) Close() error {
	return s.fd.close()
}

func getsockname(fd int) (SocketAddr, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return SocketAddr{}, os.NewSyscallError("getsockname", err)
	}
	return socketAddrFromRaw(sa)
}

func setTTL(fd, ttl int) error {
	return os.NewSyscallError("setsockopt(IP_TTL)",
		unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_TTL, ttl))
}

func getTTL(fd int) (int, error) {
	ttl, err := unix.GetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_TTL)
	if err != nil {
		return 0, os.NewSyscallError("getsockopt(IP_TTL)", err)
	}
	return ttl, nil
}

func takeSocketError(fd int) error {
	errno, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return os.NewSyscallError("getsockopt(SO_ERROR)", err)
	}
	if errno == 0 {
		return nil
	}
	return NewError(unix.Errno(errno))
}
