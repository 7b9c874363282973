//go:build !linux
// +build !linux

// Package tio has no implementation on this platform. There is
// deliberately no runtime fallback: Selector, Registry, Poll, Waker
// and every owning wrapper live only in the //go:build linux files,
// so code that imports tio on a non-Linux GOOS fails to compile
// instead of building successfully and panicking the first time it
// runs.
package tio
