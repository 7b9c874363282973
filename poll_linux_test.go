//go:build linux
// +build linux

package tio

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	tokenListener Token = 1
	tokenWaker    Token = 2
	tokenConn     Token = 3
)

func waitForToken(t *testing.T, poll *Poll, want Token, timeout time.Duration) Event {
	t.Helper()
	deadline := time.Now().Add(timeout)
	batch := NewEventBatch(8)
	for time.Now().Before(deadline) {
		require.NoError(t, poll.Wait(batch, 50*time.Millisecond))
		for i := 0; i < batch.Len(); i++ {
			ev := batch.At(i)
			if ev.Token() == want {
				return ev
			}
		}
	}
	t.Fatalf("timed out waiting for token %v", want)
	return Event{}
}

func TestTCPEchoOverPoll(t *testing.T) {
	poll, err := New()
	require.NoError(t, err)
	defer poll.Close()
	reg := poll.Registry()

	ln, err := BindTCP(IPv4Loopback(0), 0)
	require.NoError(t, err)
	defer ln.Close()
	require.NoError(t, ln.Register(reg, tokenListener, Readable))

	addr, err := ln.LocalAddr()
	require.NoError(t, err)

	client, err := DialTCP(addr)
	require.NoError(t, err)
	defer client.Close()

	waitForToken(t, poll, tokenListener, 2*time.Second)
	server, _, err := ln.Accept()
	require.NoError(t, err)
	defer server.Close()
	require.NoError(t, server.Register(reg, tokenConn, Readable))

	msg := []byte("ping")
	n, err := client.Write(msg)
	require.NoError(t, err)
	require.Equal(t, len(msg), n)

	waitForToken(t, poll, tokenConn, 2*time.Second)
	buf := make([]byte, 16)
	n, err = server.Read(buf)
	require.NoError(t, err)
	require.Equal(t, msg, buf[:n])

	n, err = server.Write(buf[:n])
	require.NoError(t, err)
	require.Equal(t, len(msg), n)

	time.Sleep(10 * time.Millisecond)
	n, err = client.Read(buf)
	require.NoError(t, err)
	require.Equal(t, msg, buf[:n])
}

func TestTCPAcceptWouldBlockWhenNoPendingConnection(t *testing.T) {
	ln, err := BindTCP(IPv4Loopback(0), 0)
	require.NoError(t, err)
	defer ln.Close()

	_, _, err = ln.Accept()
	require.Error(t, err)
	tioErr, ok := err.(*Error)
	require.True(t, ok)
	require.True(t, tioErr.IsWouldBlock())
}

func TestUDPRoundTrip(t *testing.T) {
	a, err := BindUDP(IPv4Loopback(0))
	require.NoError(t, err)
	defer a.Close()
	b, err := BindUDP(IPv4Loopback(0))
	require.NoError(t, err)
	defer b.Close()

	addrA, err := a.LocalAddr()
	require.NoError(t, err)
	addrB, err := b.LocalAddr()
	require.NoError(t, err)

	_, err = a.SendTo([]byte("hi"), addrB)
	require.NoError(t, err)

	deadline := time.Now().Add(time.Second)
	buf := make([]byte, 16)
	var n int
	var from SocketAddr
	for time.Now().Before(deadline) {
		n, from, err = b.RecvFrom(buf)
		if err == nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, err)
	require.Equal(t, "hi", string(buf[:n]))
	require.Equal(t, addrA.Port(), from.Port())

	_, err = b.SendTo([]byte("back"), addrA)
	require.NoError(t, err)
}

func TestPipeEOFAfterSenderClose(t *testing.T) {
	r, w, err := MakePipe()
	require.NoError(t, err)

	msg := []byte("last words")
	n, err := w.Write(msg)
	require.NoError(t, err)
	require.Equal(t, len(msg), n)
	require.NoError(t, w.Close())

	buf := make([]byte, 32)
	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, msg, buf[:n])

	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.NoError(t, r.Close())
}

func TestPipeReadWouldBlockWhenEmpty(t *testing.T) {
	r, w, err := MakePipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	buf := make([]byte, 8)
	_, err = r.Read(buf)
	require.Error(t, err)
	tioErr, ok := err.(*Error)
	require.True(t, ok)
	require.True(t, tioErr.IsWouldBlock())
}

func TestWakerInterruptsBlockedWait(t *testing.T) {
	poll, err := New()
	require.NoError(t, err)
	defer poll.Close()
	reg := poll.Registry()

	waker, err := NewWaker(reg, tokenWaker)
	require.NoError(t, err)
	defer waker.Close(reg)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, waker.Wake())
	}()

	ev := waitForToken(t, poll, tokenWaker, 2*time.Second)
	require.True(t, ev.IsReadable())
	require.NoError(t, waker.Drain())
	wg.Wait()
}

func TestWakerCoalescesConcurrentWakes(t *testing.T) {
	poll, err := New()
	require.NoError(t, err)
	defer poll.Close()
	reg := poll.Registry()

	waker, err := NewWaker(reg, tokenWaker)
	require.NoError(t, err)
	defer waker.Close(reg)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, waker.Wake())
		}()
	}
	wg.Wait()

	batch := NewEventBatch(8)
	require.NoError(t, poll.Wait(batch, time.Second))
	count := 0
	for i := 0; i < batch.Len(); i++ {
		if batch.At(i).Token() == tokenWaker {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.NoError(t, waker.Drain())
}

func TestReregisterChangesObservedInterest(t *testing.T) {
	poll, err := New()
	require.NoError(t, err)
	defer poll.Close()
	reg := poll.Registry()

	r, w, err := MakePipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	require.NoError(t, r.Register(reg, tokenConn, Readable))

	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	waitForToken(t, poll, tokenConn, time.Second)

	buf := make([]byte, 8)
	_, err = r.Read(buf)
	require.NoError(t, err)

	require.NoError(t, r.Reregister(reg, tokenConn, Readable.Or(Writable)))

	_, err = w.Write([]byte("y"))
	require.NoError(t, err)
	ev := waitForToken(t, poll, tokenConn, time.Second)
	require.True(t, ev.IsReadable())
}

func TestDeregisterSilencesFurtherEvents(t *testing.T) {
	poll, err := New()
	require.NoError(t, err)
	defer poll.Close()
	reg := poll.Registry()

	r, w, err := MakePipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	require.NoError(t, r.Register(reg, tokenConn, Readable))
	require.NoError(t, r.Deregister(reg))

	_, err = w.Write([]byte("z"))
	require.NoError(t, err)

	batch := NewEventBatch(8)
	require.NoError(t, poll.Wait(batch, 100*time.Millisecond))
	for i := 0; i < batch.Len(); i++ {
		require.NotEqual(t, tokenConn, batch.At(i).Token())
	}
}
