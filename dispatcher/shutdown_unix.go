//go:build unix

// File: dispatcher/shutdown_unix.go
// Author: momentics <momentics@gmail.com>

package dispatcher

import "golang.org/x/sys/unix"

// shutdownHandle issues a directional (both-ways) shutdown on the OS
// handle, as CloseSocket's command handling requires. Errors are not
// actionable here — the handle may already be gone — so they are swallowed
// after a best-effort attempt, matching RemoveSocket/CloseSocket's
// idempotent-on-a-missing-entry contract.
func shutdownHandle(h Handle) {
	_ = unix.Shutdown(int(h), unix.SHUT_RDWR)
}
