// File: dispatcher/fd.go
// Author: momentics <momentics@gmail.com>
//
// Handle resolution from common socket-ish types. Grounded on the same
// technique used by the netpoll reference package: try the simple Fd()
// accessors first, then fall back to SyscallConn for *net.TCPConn and
// friends.

package dispatcher

import (
	"errors"
	"syscall"
)

// ErrUnsupportedSocket is returned by Fd when v exposes no usable descriptor.
var ErrUnsupportedSocket = errors.New("dispatcher: value exposes no file descriptor")

// Handle is an opaque reference to a registered OS stream socket. Equality
// and hashing are by underlying OS handle, which is exactly what a raw file
// descriptor already gives for free as a map key.
type Handle uintptr

// Fd extracts the underlying file descriptor from v, accepting anything
// that implements Fd() uintptr, Fd() int, or SyscallConn() (syscall.RawConn,
// error) — which covers *os.File, *net.TCPConn, *net.UnixConn, and similar.
func Fd(v interface{}) (Handle, error) {
	if fl, ok := v.(interface{ Fd() uintptr }); ok {
		return Handle(fl.Fd()), nil
	}

	if fl, ok := v.(interface{ Fd() int }); ok {
		return Handle(fl.Fd()), nil
	}

	if sc, ok := v.(interface {
		SyscallConn() (syscall.RawConn, error)
	}); ok {
		rc, err := sc.SyscallConn()
		if err != nil {
			return 0, err
		}

		var fd uintptr
		err = rc.Control(func(f uintptr) {
			fd = f
		})
		if err != nil {
			return 0, err
		}

		return Handle(fd), nil
	}

	return 0, ErrUnsupportedSocket
}
