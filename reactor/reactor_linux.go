//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory.

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

type epollReactor struct {
	epfd int
}

// New constructs the platform-specific Reactor for Linux.
func New() (Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollReactor{epfd: epfd}, nil
}

func toEpollEvents(flags Flag) uint32 {
	var ev uint32
	if flags&Read != 0 {
		ev |= unix.EPOLLIN
	}
	if flags&Write != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func (r *epollReactor) Register(fd uintptr, flags Flag) error {
	ev := &unix.EpollEvent{
		Events: toEpollEvents(flags),
		Fd:     int32(fd),
	}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, int(fd), ev)
}

func (r *epollReactor) SetInterest(fd uintptr, flags Flag) error {
	ev := &unix.EpollEvent{
		Events: toEpollEvents(flags),
		Fd:     int32(fd),
	}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, int(fd), ev)
}

func (r *epollReactor) Unregister(fd uintptr) error {
	err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, int(fd), nil)
	if err == unix.ENOENT {
		return nil
	}
	return err
}

func (r *epollReactor) Wait(events []Event, timeout time.Duration) (int, error) {
	raw := make([]unix.EpollEvent, len(events))

	msec := -1
	switch {
	case timeout < 0:
		msec = -1
	case timeout == 0:
		msec = 0
	default:
		msec = int(timeout / time.Millisecond)
	}

	n, err := unix.EpollWait(r.epfd, raw, msec)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	for i := 0; i < n; i++ {
		var flags Flag
		if raw[i].Events&unix.EPOLLIN != 0 {
			flags |= Read
		}
		if raw[i].Events&unix.EPOLLOUT != 0 {
			flags |= Write
		}
		if raw[i].Events&(unix.EPOLLERR|unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
			flags |= Except
		}
		events[i] = Event{Fd: uintptr(raw[i].Fd), Flags: flags}
	}

	return n, nil
}

func (r *epollReactor) Close() error {
	return unix.Close(r.epfd)
}
