//go:build linux
// +build linux

package tio

import (
	"os"

	"golang.org/x/sys/unix"
)

// UDPSocket is a non-blocking, edge-triggered UDP socket. It may be
// used unconnected (via SendTo/RecvFrom) or connected (via Connect,
// then Send/Recv), exactly like the C++ udp_socket it is grounded on.
type UDPSocket struct {
	fd fdGuard
}

// BindUDP creates and binds a UDP socket to addr.
func BindUDP(addr SocketAddr) (*UDPSocket, error) {
	fd, err := unix.Socket(addr.Family(), unix.SOCK_DGRAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	g := newFdGuard(fd)
	if err := unix.Bind(fd, addr.asSockaddr()); err != nil {
		g.close()
		return nil, os.NewSyscallError("bind", err)
	}
	return &UDPSocket{fd: g}, nil
}

// SendTo sends b to addr.
func (u *UDPSocket) SendTo(b []byte, addr SocketAddr) (int, error) {
	err := unix.Sendto(u.fd.rawFd(), b, unix.MSG_NOSIGNAL, addr.asSockaddr())
	if err != nil {
		return 0, LastOSError(err)
	}
	return len(b), nil
}

// RecvFrom receives into b, returning the sender's address.
func (u *UDPSocket) RecvFrom(b []byte) (int, SocketAddr, error) {
	n, sa, err := unix.Recvfrom(u.fd.rawFd(), b, 0)
	if err != nil {
		return 0, SocketAddr{}, LastOSError(err)
	}
	addr, err := socketAddrFromRaw(sa)
	if err != nil {
		return n, SocketAddr{}, err
	}
	return n, addr, nil
}

// Peek reads without consuming, returning the sender's address.
func (u *UDPSocket) Peek(b []byte) (int, SocketAddr, error) {
	n, sa, err := unix.Recvfrom(u.fd.rawFd(), b, unix.MSG_PEEK)
	if err != nil {
		return 0, SocketAddr{}, LastOSError(err)
	}
	addr, err := socketAddrFromRaw(sa)
	if err != nil {
		return n, SocketAddr{}, err
	}
	return n, addr, nil
}

// Connect fixes the socket's peer so Send/Recv can be used instead of
// SendTo/RecvFrom.
func (u *UDPSocket) Connect(addr SocketAddr) error {
	return os.NewSyscallError("connect", unix.Connect(u.fd.rawFd(), addr.asSockaddr()))
}

// Send sends b to the connected peer.
func (u *UDPSocket) Send(b []byte) (int, error) {
	n, err := unix.Write(u.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// Recv receives from the connected peer.
func (u *UDPSocket) Recv(b []byte) (int, error) {
	n, err := unix.Read(u.fd.rawFd(), b)
	if err != nil {
		return 0, LastOSError(err)
	}
	return n, nil
}

// LocalAddr returns the address the socket is bound to.
func (u *UDPSocket) LocalAddr() (SocketAddr, error) {
	return getsockname(u.fd.rawFd())
}

// PeerAddr returns the connected peer's address, if any.
func (u *UDPSocket) PeerAddr() (SocketAddr, error) {
	sa, err := unix.Getpeername(u.fd.rawFd())
	if err != nil {
		return SocketAddr{}, os.NewSyscallError("getpeername", err)
	}
	return socketAddrFromRaw(sa)
}

// SetBroadcast toggles SO_BROADCAST.
func (u *UDPSocket) SetBroadcast(v bool) error {
	return os.NewSyscallError("setsockopt(SO_BROADCAST)",
		unix.SetsockoptInt(u.fd.rawFd(), unix.SOL_SOCKET, unix.SO_BROADCAST, boolToInt(v)))
}

// Broadcast reports whether SO_BROADCAST is set.
func (u *UDPSocket) Broadcast() (bool, error) {
	v, err := unix.GetsockoptInt(u.fd.rawFd(), unix.SOL_SOCKET, unix.SO_BROADCAST)
	if err != nil {
		return false, os.NewSyscallError("getsockopt(SO_BROADCAST)", err)
	}
	return v != 0, nil
}

// SetTTL sets the socket's IP_TTL.
func (u *UDPSocket) SetTTL(ttl int) error {
	return setTTL(u.fd.rawFd(), ttl)
}

// TTL returns the socket's IP_TTL.
func (u *UDPSocket) TTL() (int, error) {
	return getTTL(u.fd.rawFd())
}

// JoinMulticastV4 joins the multicast group addr on iface's address.
func (u *UDPSocket) JoinMulticastV4(group, iface [4]byte) error {
	mreq := &unix.IPMreq{Multiaddr: group, Interface: iface}
	return os.NewSyscallError("setsockopt(IP_ADD_MEMBERSHIP)",
		unix.SetsockoptIPMreq(u.fd.rawFd(), unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, mreq))
}

// LeaveMulticastV4 leaves the multicast group addr on iface's address.
func (u *UDPSocket) LeaveMulticastV4(group, iface [4]byte) error {
	mreq := &unix.IPMreq{Multiaddr: group, Interface: iface}
	return os.NewSyscallError("setsockopt(IP_DROP_MEMBERSHIP)",
		unix.SetsockoptIPMreq(u.fd.rawFd(), unix.IPPROTO_IP, unix.IP_DROP_MEMBERSHIP, mreq))
}

// SetMulticastTTLV4 sets IP_MULTICAST_TTL.
func (u *UDPSocket) SetMulticastTTLV4(ttl int) error {
	return os.NewSyscallError("setsockopt(IP_MULTICAST_TTL)",
		unix.SetsockoptInt(u.fd.rawFd(), unix.IPPROTO_IP, unix.IP_MULTICAST_TTL, ttl))
}

// MulticastTTLV4 returns IP_MULTICAST_TTL.
func (u *UDPSocket) MulticastTTLV4() (int, error) {
	v, err := unix.GetsockoptInt(u.fd.rawFd(), unix.IPPROTO_IP, unix.IP_MULTICAST_TTL)
	if err != nil {
		return 0, os.NewSyscallError("getsockopt(IP_MULTICAST_TTL)", err)
	}
	return v, nil
}

// SetMulticastLoopV4 toggles IP_MULTICAST_LOOP.
func (u *UDPSocket) SetMulticastLoopV4(v bool) error {
	return os.NewSyscallError("setsockopt(IP_MULTICAST_LOOP)",
		unix.SetsockoptInt(u.fd.rawFd(), unix.IPPROTO_IP, unix.IP_MULTICAST_LOOP, boolToInt(v)))
}

// MulticastLoopV4 reports IP_MULTICAST_LOOP.
func (u *UDPSocket) MulticastLoopV4() (bool, error) {
	v, err := unix.GetsockoptInt(u.fd.rawFd(), unix.IPPROTO_IP, unix.IP_MULTICAST_LOOP)
	if err != nil {
		return false, os.NewSyscallError("getsockopt(IP_MULTICAST_LOOP)", err)
	}
	return v != 0, nil
}

// TakeError clears and returns the socket's pending SO_ERROR.
func (u *UDPSocket) TakeError() error {
	return takeSocketError(u.fd.rawFd())
}

// Register adds the socket to reg under tok.
func (u *UDPSocket) Register(reg *Registry, tok Token, interest Interest) error {
	return reg.RegisterFd(u.fd.rawFd(), tok, interest)
}

// Reregister replaces the socket's interest.
func (u *UDPSocket) Reregister(reg *Registry, tok Token, interest Interest) error {
	return reg.ReregisterFd(u.fd.rawFd(), tok, interest)
}

// Deregister removes the socket from reg.
func (u *UDPSocket) Deregister(reg *Registry) error {
	return reg.DeregisterFd(u.fd.rawFd())
}

// Close closes the socket.
func (u *UDPSocket) Close() error {
	return u.fd.close()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
