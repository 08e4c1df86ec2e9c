//go:build unix

// File: dispatcher/dispatcher_test.go
// Author: momentics <momentics@gmail.com>

package dispatcher_test

import (
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/sockdispatch/dispatcher"
)

// newSocketPair returns a connected pair of stream-socket file descriptors,
// closed automatically at test cleanup.
func newSocketPair(t *testing.T) (a, b int) {
	t.Helper()
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	if err := syscall.SetNonblock(fds[0], true); err != nil {
		t.Fatalf("setnonblock: %v", err)
	}
	if err := syscall.SetNonblock(fds[1], true); err != nil {
		t.Fatalf("setnonblock: %v", err)
	}
	t.Cleanup(func() {
		syscall.Close(fds[0])
		syscall.Close(fds[1])
	})
	return fds[0], fds[1]
}

func newTestDispatcher(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	cfg := dispatcher.DefaultConfig()
	cfg.PollTimeout = 10 * time.Millisecond
	d, err := dispatcher.New(cfg)
	if err != nil {
		t.Fatalf("dispatcher.New: %v", err)
	}
	t.Cleanup(d.Stop)
	return d
}

// Scenario A: a registered socket's Readable handler echoes what it reads
// back to the peer.
func TestEchoReadback(t *testing.T) {
	d := newTestDispatcher(t)
	server, client := newSocketPair(t)

	handler := dispatcher.HandlerFuncs{
		ReadableFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) bool {
			buf := make([]byte, 64)
			n, err := unix.Read(int(socket), buf)
			if n <= 0 || err != nil {
				return false
			}
			unix.Write(int(socket), buf[:n])
			return false
		},
	}
	d.AddSocket(dispatcher.Handle(server), handler, 0)

	if _, err := unix.Write(client, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	buf := make([]byte, 64)
	for time.Now().Before(deadline) {
		n, err := unix.Read(client, buf)
		if err == unix.EAGAIN {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(buf[:n]) != "ping" {
			t.Fatalf("expected echo of 'ping', got %q", buf[:n])
		}
		return
	}
	t.Fatal("timed out waiting for echo")
}

// Scenario B: an idle socket's Timeout handler fires exactly once.
func TestIdleTimeoutFiresOnce(t *testing.T) {
	d := newTestDispatcher(t)
	server, _ := newSocketPair(t)

	var fired atomic.Int32
	handler := dispatcher.HandlerFuncs{
		TimeoutFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) {
			fired.Add(1)
			d.CloseSocket(socket)
		},
	}
	d.AddSocket(dispatcher.Handle(server), handler, 30*time.Millisecond)

	time.Sleep(300 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Fatalf("expected Timeout to fire exactly once, fired %d times", got)
	}
}

// Scenario C: closing the peer surfaces either as a zero-byte read, which
// the handler must treat as EOF, or as an Exception (epoll reports the
// hangup together with read readiness, and Except takes priority).
func TestPeerCloseSurfacesAsReadableEOFOrException(t *testing.T) {
	d := newTestDispatcher(t)
	server, client := newSocketPair(t)

	closed := make(chan struct{})
	var once sync.Once
	handler := dispatcher.HandlerFuncs{
		ReadableFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) bool {
			buf := make([]byte, 16)
			n, _ := unix.Read(int(socket), buf)
			if n == 0 {
				d.CloseSocket(socket)
				once.Do(func() { close(closed) })
			}
			return false
		},
		ExceptionFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) {
			d.CloseSocket(socket)
			once.Do(func() { close(closed) })
		},
	}
	d.AddSocket(dispatcher.Handle(server), handler, 0)

	syscall.Close(client)

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never observed peer close")
	}
}

// Scenario D: a handler adding a brand-new socket from inside its own
// Readable callback must not deadlock the dispatcher.
func TestAddSocketDuringHandler(t *testing.T) {
	d := newTestDispatcher(t)
	server1, client1 := newSocketPair(t)
	server2, client2 := newSocketPair(t)

	var second atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)

	secondHandler := dispatcher.HandlerFuncs{
		ReadableFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) bool {
			buf := make([]byte, 16)
			unix.Read(int(socket), buf)
			if second.CompareAndSwap(false, true) {
				wg.Done()
			}
			return false
		},
	}

	firstHandler := dispatcher.HandlerFuncs{
		ReadableFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) bool {
			buf := make([]byte, 16)
			unix.Read(int(socket), buf)
			d.AddSocket(dispatcher.Handle(server2), secondHandler, 0)
			return false
		},
	}
	d.AddSocket(dispatcher.Handle(server1), firstHandler, 0)

	unix.Write(client1, []byte("x"))
	time.Sleep(50 * time.Millisecond)
	unix.Write(client2, []byte("y"))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("socket added from within a handler was never serviced")
	}
}

// Scenario E: a flood of add/remove commands posted in a tight loop must be
// absorbed without the producer blocking and without dropping entries.
func TestCommandFlood(t *testing.T) {
	d := newTestDispatcher(t)

	const n = 2000
	handles := make([]dispatcher.Handle, 0, n)
	for i := 0; i < n; i++ {
		server, _ := newSocketPair(t)
		h := dispatcher.Handle(server)
		handles = append(handles, h)
		d.AddSocket(h, dispatcher.HandlerFuncs{}, 0)
	}
	for _, h := range handles {
		d.RemoveSocket(h)
	}

	time.Sleep(200 * time.Millisecond)

	stats := d.Stats()
	if v, ok := stats["dispatcher.sockets.active"].(int64); ok && v != 0 {
		t.Fatalf("expected 0 active sockets after flood, got %d", v)
	}
}

// Scenario F: a slow handler stalls only its own worker; a second socket on
// a different worker keeps making progress concurrently.
func TestSlowHandlerDoesNotStallOthers(t *testing.T) {
	cfg := dispatcher.DefaultConfig()
	cfg.PollTimeout = 10 * time.Millisecond
	cfg.WorkerCount = 2
	d, err := dispatcher.New(cfg)
	if err != nil {
		t.Fatalf("dispatcher.New: %v", err)
	}
	defer d.Stop()

	slowServer, slowClient := newSocketPair(t)
	fastServer, fastClient := newSocketPair(t)

	var fastDone atomic.Bool
	slowHandler := dispatcher.HandlerFuncs{
		ReadableFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) bool {
			buf := make([]byte, 16)
			unix.Read(int(socket), buf)
			time.Sleep(time.Second)
			return false
		},
	}
	fastHandler := dispatcher.HandlerFuncs{
		ReadableFunc: func(d *dispatcher.Dispatcher, socket dispatcher.Handle) bool {
			buf := make([]byte, 16)
			unix.Read(int(socket), buf)
			fastDone.Store(true)
			return false
		},
	}

	d.AddSocket(dispatcher.Handle(slowServer), slowHandler, 0)
	d.AddSocket(dispatcher.Handle(fastServer), fastHandler, 0)

	unix.Write(slowClient, []byte("slow"))
	time.Sleep(50 * time.Millisecond)
	unix.Write(fastClient, []byte("fast"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if fastDone.Load() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("fast socket was stalled behind the slow handler")
}
