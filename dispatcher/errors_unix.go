//go:build unix

// File: dispatcher/errors_unix.go
// Author: momentics <momentics@gmail.com>

package dispatcher

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isPeerDisconnected reports whether err reflects the peer having gone away,
// as opposed to some other network-layer failure. Recognized specifically so
// the readiness loop can log it at debug rather than error level.
func isPeerDisconnected(err error) bool {
	switch {
	case errors.Is(err, unix.ECONNRESET),
		errors.Is(err, unix.EPIPE),
		errors.Is(err, unix.ENOTCONN),
		errors.Is(err, unix.ECONNABORTED):
		return true
	default:
		return false
	}
}
