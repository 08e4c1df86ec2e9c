//go:build !unix

// File: dispatcher/shutdown_other.go
// Author: momentics <momentics@gmail.com>

package dispatcher

// shutdownHandle is a no-op on platforms with no reactor implementation
// either (see reactor.New's stub).
func shutdownHandle(h Handle) {}
