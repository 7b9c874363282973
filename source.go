//go:build linux
// +build linux

package tio

// Source is implemented by anything that can be driven by a Registry:
// raw descriptors (RawFD) and every owning wrapper (TCPListener,
// TCPStream, UDPSocket, UnixListener, UnixStream, UnixDatagram,
// PipeSender, PipeReceiver). Register/Reregister/Deregister exist so
// a Poll caller never has to reach for the underlying fd directly.
type Source interface {
	// Register adds the source to reg's registration table under tok,
	// observing interest. It fails with ErrAlreadyExists if the
	// source's descriptor is already registered anywhere on reg.
	Register(reg *Registry, tok Token, interest Interest) error

	// Reregister replaces the interest the source was previously
	// registered with. It fails with ErrNotFound if the source was
	// never registered on reg.
	Reregister(reg *Registry, tok Token, interest Interest) error

	// Deregister removes the source from reg's registration table.
	// It fails with ErrNotFound if the source was never registered.
	Deregister(reg *Registry) error
}
