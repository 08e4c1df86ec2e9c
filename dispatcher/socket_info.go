// File: dispatcher/socket_info.go
// Author: momentics <momentics@gmail.com>
//
// Per-socket bookkeeping record. handler and timeout are immutable after
// construction. activity is touched only by the readiness-loop goroutine
// (the worker never reads or writes it), so it needs no synchronization of
// its own. wantRead and closed cross goroutine boundaries and are therefore
// atomic.

package dispatcher

import (
	"sync/atomic"
	"time"
)

// SocketInfo is the dispatcher's private bookkeeping record for one
// registered socket. At most one outstanding handler task exists for a
// given SocketInfo at any moment: the readiness loop enforces this by
// flipping wantRead to false the instant it posts a task, and only a worker
// flips it back to true, after the handler returns.
type SocketInfo struct {
	Handler Handler
	Timeout time.Duration

	activity time.Time // readiness-loop-owned; never touched by a worker

	wantRead atomic.Bool
	closed   atomic.Bool // set once CloseSocket has shut down the handle
}

func newSocketInfo(h Handler, timeout time.Duration, now time.Time) *SocketInfo {
	info := &SocketInfo{
		Handler:  h,
		Timeout:  timeout,
		activity: now,
	}
	info.wantRead.Store(true)
	return info
}

// WantRead reports whether this socket is currently eligible for the next
// multiplexed wait. False means a handler task is in flight or just
// completed.
func (si *SocketInfo) WantRead() bool {
	return si.wantRead.Load()
}

// idle reports whether more than timeout has elapsed since the last
// activity update. A zero timeout never times out.
func (si *SocketInfo) idle(now time.Time) bool {
	return si.Timeout > 0 && now.Sub(si.activity) > si.Timeout
}
