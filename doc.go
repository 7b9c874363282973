// Package tio is a non-blocking, edge-triggered I/O multiplexing
// library for Linux: a thin wrapper over epoll (Selector/Registry),
// a Poll facade that drives the wait loop, a cross-thread Waker, and
// owning wrappers over TCP, UDP, Unix-domain and pipe descriptors
// that register directly against a Registry.
//
// Every descriptor tio creates is non-blocking and edge-triggered.
// An edge-triggered readiness notification fires once per transition
// from not-ready to ready; callers must keep calling Read, Write or
// Accept until they see an *Error satisfying IsWouldBlock, or a later
// event for the same token can be lost.
package tio
