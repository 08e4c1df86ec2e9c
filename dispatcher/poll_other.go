//go:build !unix

// File: dispatcher/poll_other.go
// Author: momentics <momentics@gmail.com>

package dispatcher

import "time"

// pollReadable has no portable implementation outside unix; workers fall
// back to one Readable invocation per task on unsupported platforms (the
// reactor itself already errors at construction there, so no Dispatcher
// ever reaches this path).
func pollReadable(h Handle, timeout time.Duration) bool {
	return false
}
