package tio

import "golang.org/x/sys/unix"

// fdGuard is a move-only owning handle for a kernel descriptor. A
// negative fd means empty. Go has no destructors, so "move-only" is
// enforced by convention: the struct holding an fdGuard documents
// itself as non-copyable, and ownership transfer happens through
// release/reset rather than struct assignment.
type fdGuard struct {
	fd int
}

func newFdGuard(fd int) fdGuard {
	return fdGuard{fd: fd}
}

// rawFd returns the descriptor without transferring ownership.
func (g *fdGuard) rawFd() int {
	return g.fd
}

// release yields the descriptor and empties the guard without closing.
func (g *fdGuard) release() int {
	fd := g.fd
	g.fd = -1
	return fd
}

// reset replaces the descriptor, closing the previous one if present.
func (g *fdGuard) reset(fd int) {
	g.close()
	g.fd = fd
}

// close closes the descriptor if non-empty and empties the guard. It
// is safe to call more than once.
func (g *fdGuard) close() error {
	if g.fd < 0 {
		return nil
	}
	fd := g.fd
	g.fd = -1
	if err := unix.Close(fd); err != nil {
		return LastOSError(err)
	}
	return nil
}

func (g *fdGuard) empty() bool {
	return g.fd < 0
}

func joinCloseErrors(errs ...error) error {
	var out CloseErrors
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
