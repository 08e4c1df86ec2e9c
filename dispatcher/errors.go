// File: dispatcher/errors.go
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy for the dispatcher (PeerDisconnected / NetworkFailure /
// HandlerFailure / ConfigurationFailure). No error ever escapes the
// readiness thread or a worker thread: the first three are not types, they
// only decide what gets logged and at what level (see isPeerDisconnected).
// ConfigurationError is the one error type, returned by New.

package dispatcher

import "fmt"

// ConfigurationError is fatal and only ever returned by New.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dispatcher: invalid configuration: %s", e.Reason)
}
