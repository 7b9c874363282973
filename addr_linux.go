//go:build linux
// +build linux

package tio

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// SocketAddr is an IPv4 or IPv6 endpoint, the address type every TCP
// and UDP operation in this package accepts and returns. It mirrors
// net.TCPAddr/net.UDPAddr closely on purpose, but stays a concrete
// tio type so Accept/RecvFrom can hand back an address without
// allocating a net.Addr interface value per call.
type SocketAddr struct {
	ip   net.IP
	port int
	v6   bool
}

// IPv4 builds an IPv4 SocketAddr.
func IPv4(ip net.IP, port int) SocketAddr {
	return SocketAddr{ip: ip.To4(), port: port}
}

// IPv4Loopback returns 127.0.0.1:port.
func IPv4Loopback(port int) SocketAddr {
	return IPv4(net.IPv4(127, 0, 0, 1), port)
}

// IPv4Any returns 0.0.0.0:port.
func IPv4Any(port int) SocketAddr {
	return IPv4(net.IPv4zero, port)
}

// IPv6 builds an IPv6 SocketAddr.
func IPv6(ip net.IP, port int) SocketAddr {
	return SocketAddr{ip: ip.To16(), port: port, v6: true}
}

// IPv6Loopback returns [::1]:port.
func IPv6Loopback(port int) SocketAddr {
	return IPv6(net.IPv6loopback, port)
}

// IPv6Any returns [::]:port.
func IPv6Any(port int) SocketAddr {
	return IPv6(net.IPv6unspecified, port)
}

// IsIPv4 reports the v4/v6 tag of the address.
func (a SocketAddr) IsIPv4() bool { return !a.v6 }

// IsIPv6 reports the v4/v6 tag of the address.
func (a SocketAddr) IsIPv6() bool { return a.v6 }

// Family returns unix.AF_INET or unix.AF_INET6.
func (a SocketAddr) Family() int {
	if a.v6 {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

// IP returns the address's IP.
func (a SocketAddr) IP() net.IP { return a.ip }

// Port returns the address's port.
func (a SocketAddr) Port() int { return a.port }

// String renders the address the way net.TCPAddr does.
func (a SocketAddr) String() string {
	if a.v6 {
		return fmt.Sprintf("[%s]:%d", a.ip, a.port)
	}
	return fmt.Sprintf("%s:%d", a.ip, a.port)
}

// asSockaddr converts to the unix.Sockaddr epoll/socket calls expect.
func (a SocketAddr) asSockaddr() unix.Sockaddr {
	if a.v6 {
		sa := &unix.SockaddrInet6{Port: a.port}
		copy(sa.Addr[:], a.ip.To16())
		return sa
	}
	sa := &unix.SockaddrInet4{Port: a.port}
	copy(sa.Addr[:], a.ip.To4())
	return sa
}

// socketAddrFromRaw converts a unix.Sockaddr returned by accept4,
// getsockname or recvfrom into a SocketAddr.
func socketAddrFromRaw(sa unix.Sockaddr) (SocketAddr, error) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		ip := make(net.IP, 4)
		copy(ip, sa.Addr[:])
		return IPv4(ip, sa.Port), nil
	case *unix.SockaddrInet6:
		ip := make(net.IP, 16)
		copy(ip, sa.Addr[:])
		return IPv6(ip, sa.Port), nil
	default:
		return SocketAddr{}, fmt.Errorf("tio: unsupported sockaddr type %T", sa)
	}
}

// UnixAddr is the address of a Unix-domain socket: either a filesystem
// path or, on Linux, an abstract name; an empty, unbound socket's
// address is unnamed. This mirrors sockaddr_un's three cases exactly.
type UnixAddr struct {
	raw      *unix.SockaddrUnix
	abstract bool
}

// UnixAddrFromPathname builds a path-based UnixAddr.
func UnixAddrFromPathname(path string) UnixAddr {
	return UnixAddr{raw: &unix.SockaddrUnix{Name: path}}
}

// UnixAddrAbstract builds a Linux abstract-namespace UnixAddr. name
// must not contain a leading NUL; tio adds it.
func UnixAddrAbstract(name string) UnixAddr {
	return UnixAddr{raw: &unix.SockaddrUnix{Name: "\x00" + name}, abstract: true}
}

// unixAddrFromRaw wraps a SockaddrUnix obtained from accept4 or
// getsockname, which may be unnamed (an unbound or anonymous socket).
// x/sys/unix rewrites a leading NUL in sun_path as '@', so an unnamed
// address arrives as "@" and an abstract one as "@name".
func unixAddrFromRaw(sa *unix.SockaddrUnix) UnixAddr {
	if sa == nil || sa.Name == "" || sa.Name == "@" {
		return UnixAddr{}
	}
	return UnixAddr{raw: sa, abstract: sa.Name[0] == 0 || sa.Name[0] == '@'}
}

// IsUnnamed reports an empty address, the case sockaddr_un reports
// via a length not exceeding offsetof(sockaddr_un, sun_path).
func (a UnixAddr) IsUnnamed() bool {
	return a.raw == nil || a.raw.Name == ""
}

// IsAbstract reports a Linux abstract-namespace address.
func (a UnixAddr) IsAbstract() bool {
	return a.abstract
}

// AsPathname returns the filesystem path and true for a path-based
// address, or "", false for an unnamed or abstract one.
func (a UnixAddr) AsPathname() (string, bool) {
	if a.raw == nil || a.abstract || a.raw.Name == "" {
		return "", false
	}
	return a.raw.Name, true
}

// String renders the address for logs.
func (a UnixAddr) String() string {
	switch {
	case a.IsUnnamed():
		return "(unnamed)"
	case a.abstract:
		return "@" + a.raw.Name[1:]
	default:
		return a.raw.Name
	}
}

func (a UnixAddr) asSockaddr() *unix.SockaddrUnix {
	return a.raw
}
