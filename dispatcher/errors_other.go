//go:build !unix

// File: dispatcher/errors_other.go
// Author: momentics <momentics@gmail.com>

package dispatcher

// isPeerDisconnected always reports false on platforms without the unix
// errno set; such platforms have no reactor implementation either (see
// reactor.New's stub), so no Dispatcher ever reaches this path.
func isPeerDisconnected(err error) bool {
	return false
}
