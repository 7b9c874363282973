//go:build linux
// +build linux

package tio

// Registry is a non-owning handle to a Poll's selector. Sources take
// a *Registry rather than a *Poll so that registering a source never
// requires blocking on whatever goroutine is inside Poll.Wait.
//
// A Registry is safe for concurrent use, including concurrently with
// the Poll it came from running Wait.
type Registry struct {
	sel *selector
}

// RegisterFd adds fd to the registration table under tok, observing
// interest. Most callers register through a Source's Register method
// rather than calling this directly.
func (r *Registry) RegisterFd(fd int, tok Token, interest Interest) error {
	return r.sel.register(fd, tok, interest)
}

// ReregisterFd replaces the interest fd was registered with.
func (r *Registry) ReregisterFd(fd int, tok Token, interest Interest) error {
	return r.sel.reregister(fd, tok, interest)
}

// DeregisterFd removes fd from the registration table.
func (r *Registry) DeregisterFd(fd int) error {
	return r.sel.deregister(fd)
}

// TryClone returns a new Registry backed by a duplicated selector
// descriptor, sharing the same kernel-side registration table as r.
// Unlike a Registry from Poll.Registry, the clone's selector owns that
// duplicated descriptor. Registry has no Close method, so tio never
// closes the duplicate.
func (r *Registry) TryClone() (*Registry, error) {
	fd, err := r.sel.duplicate()
	if err != nil {
		return nil, err
	}
	return &Registry{sel: &selector{epollFd: newFdGuard(fd)}}, nil
}
