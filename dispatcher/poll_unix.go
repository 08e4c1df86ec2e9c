//go:build unix

// File: dispatcher/poll_unix.go
// Author: momentics <momentics@gmail.com>

package dispatcher

import (
	"time"

	"golang.org/x/sys/unix"
)

// pollReadable does a short, single-fd poll(2) to decide whether a worker
// should keep draining a chatty socket without waiting for the readiness
// loop to report it again. Unlike reactor.Wait, a negative timeout never
// blocks: any timeout <= 0 means return immediately (non-blocking poll).
func pollReadable(h Handle, timeout time.Duration) bool {
	msec := 0
	if timeout > 0 {
		msec = int(timeout / time.Millisecond)
	}

	fds := []unix.PollFd{{Fd: int32(h), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, msec)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n <= 0 {
			return false
		}
		return fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
	}
}
