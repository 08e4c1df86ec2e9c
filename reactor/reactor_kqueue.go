//go:build darwin || dragonfly || freebsd || netbsd || openbsd
// +build darwin dragonfly freebsd netbsd openbsd

// File: reactor/reactor_kqueue.go
// Author: momentics <momentics@gmail.com>
//
// BSD/Darwin kqueue(2)-based reactor implementation and factory.

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

type kqueueReactor struct {
	kq int
}

// New constructs the platform-specific Reactor for kqueue platforms.
func New() (Reactor, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &kqueueReactor{kq: kq}, nil
}

func (r *kqueueReactor) changeList(fd uintptr, flags Flag, enable bool) []unix.Kevent_t {
	var action uint16 = unix.EV_ADD | unix.EV_ENABLE
	if !enable {
		action = unix.EV_ADD | unix.EV_DISABLE
	}

	changes := make([]unix.Kevent_t, 0, 2)
	changes = append(changes, unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_READ,
		Flags:  action,
	})
	if flags&Write != 0 {
		changes = append(changes, unix.Kevent_t{
			Ident:  uint64(fd),
			Filter: unix.EVFILT_WRITE,
			Flags:  action,
		})
	}
	return changes
}

func (r *kqueueReactor) Register(fd uintptr, flags Flag) error {
	changes := r.changeList(fd, flags, flags&Read != 0)
	_, err := unix.Kevent(r.kq, changes, nil, nil)
	return err
}

func (r *kqueueReactor) SetInterest(fd uintptr, flags Flag) error {
	changes := r.changeList(fd, flags, flags&Read != 0)
	_, err := unix.Kevent(r.kq, changes, nil, nil)
	return err
}

// Unregister deletes both filters for fd, one kevent(2) call per filter so
// that an EVFILT_WRITE never registered by Register/SetInterest (CmdAdd only
// ever asks for Read) can't make a batched ENOENT abort the EVFILT_READ
// delete ahead of it in the changelist.
func (r *kqueueReactor) Unregister(fd uintptr) error {
	if err := r.deleteFilter(fd, unix.EVFILT_READ); err != nil {
		return err
	}
	return r.deleteFilter(fd, unix.EVFILT_WRITE)
}

func (r *kqueueReactor) deleteFilter(fd uintptr, filter int16) error {
	changes := []unix.Kevent_t{{Ident: uint64(fd), Filter: filter, Flags: unix.EV_DELETE}}
	_, err := unix.Kevent(r.kq, changes, nil, nil)
	if err == unix.ENOENT {
		return nil
	}
	return err
}

func (r *kqueueReactor) Wait(events []Event, timeout time.Duration) (int, error) {
	raw := make([]unix.Kevent_t, len(events))

	var ts *unix.Timespec
	switch {
	case timeout < 0:
		ts = nil
	case timeout == 0:
		ts = &unix.Timespec{}
	default:
		t := unix.NsecToTimespec(int64(timeout))
		ts = &t
	}

	n, err := unix.Kevent(r.kq, nil, raw, ts)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	for i := 0; i < n; i++ {
		var flags Flag
		switch raw[i].Filter {
		case unix.EVFILT_READ:
			flags |= Read
		case unix.EVFILT_WRITE:
			flags |= Write
		}
		if raw[i].Flags&unix.EV_EOF != 0 || raw[i].Flags&unix.EV_ERROR != 0 {
			flags |= Except
		}
		events[i] = Event{Fd: uintptr(raw[i].Ident), Flags: flags}
	}

	return n, nil
}

func (r *kqueueReactor) Close() error {
	return unix.Close(r.kq)
}
