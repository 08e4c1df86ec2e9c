// File: dispatcher/handler.go
// Author: momentics <momentics@gmail.com>
//
// Handler is the capability a user implements to receive readable/timeout/
// exception notifications for a registered socket. Generalized from the
// single-method api.Handler of the teaching library to the three-operation
// contract a socket dispatcher needs.

package dispatcher

import "log"

// Handler receives readiness notifications for one registered socket. Any
// unhandled panic inside a handler is caught and logged at the worker
// boundary; it never propagates into the dispatcher. The socket is not
// automatically removed on handler failure — the handler decides, by
// calling RemoveSocket or CloseSocket.
type Handler interface {
	// Readable is invoked when the socket is read-ready. Returning true
	// tells the worker more data may be immediately available; it will
	// drain up to a bounded burst before yielding back to the readiness
	// loop. The handler may synchronously read and may call the
	// dispatcher's Add/Remove/Close operations.
	Readable(d *Dispatcher, socket Handle) bool

	// Timeout is invoked when the socket's idle timer elapses without a
	// readiness event.
	Timeout(d *Dispatcher, socket Handle)

	// Exception is invoked when the multiplexed wait reports an error
	// condition on the socket.
	Exception(d *Dispatcher, socket Handle)
}

// HandlerFuncs adapts plain functions to the Handler interface. Any nil
// field is a no-op for that operation.
type HandlerFuncs struct {
	ReadableFunc  func(d *Dispatcher, socket Handle) bool
	TimeoutFunc   func(d *Dispatcher, socket Handle)
	ExceptionFunc func(d *Dispatcher, socket Handle)
}

func (f HandlerFuncs) Readable(d *Dispatcher, socket Handle) bool {
	if f.ReadableFunc == nil {
		return false
	}
	return f.ReadableFunc(d, socket)
}

func (f HandlerFuncs) Timeout(d *Dispatcher, socket Handle) {
	if f.TimeoutFunc != nil {
		f.TimeoutFunc(d, socket)
	}
}

func (f HandlerFuncs) Exception(d *Dispatcher, socket Handle) {
	if f.ExceptionFunc != nil {
		f.ExceptionFunc(d, socket)
	}
}

// RecoveryMiddleware wraps next so that a panic inside any of its three
// operations is recovered and logged instead of crashing the worker.
// The dispatcher's worker loop already recovers around every handler
// invocation; this exists for embedders composing handlers outside that
// boundary (e.g. in tests), mirroring the teaching library's
// RecoveryMiddleware for its single-method Handler.
func RecoveryMiddleware(next Handler, logger *log.Logger) Handler {
	return HandlerFuncs{
		ReadableFunc: func(d *Dispatcher, socket Handle) (expectMore bool) {
			defer func() {
				if r := recover(); r != nil {
					logger.Printf("dispatcher: recovered panic in Readable: %v", r)
					expectMore = false
				}
			}()
			return next.Readable(d, socket)
		},
		TimeoutFunc: func(d *Dispatcher, socket Handle) {
			defer func() {
				if r := recover(); r != nil {
					logger.Printf("dispatcher: recovered panic in Timeout: %v", r)
				}
			}()
			next.Timeout(d, socket)
		},
		ExceptionFunc: func(d *Dispatcher, socket Handle) {
			defer func() {
				if r := recover(); r != nil {
					logger.Printf("dispatcher: recovered panic in Exception: %v", r)
				}
			}()
			next.Exception(d, socket)
		},
	}
}

// LoggingMiddleware wraps next, logging entry/exit of each operation at the
// given logger, in the manner of the teaching library's LoggingMiddleware.
func LoggingMiddleware(next Handler, logger *log.Logger) Handler {
	return HandlerFuncs{
		ReadableFunc: func(d *Dispatcher, socket Handle) bool {
			logger.Printf("dispatcher: readable socket=%d", socket)
			more := next.Readable(d, socket)
			logger.Printf("dispatcher: readable socket=%d expectMore=%v", socket, more)
			return more
		},
		TimeoutFunc: func(d *Dispatcher, socket Handle) {
			logger.Printf("dispatcher: timeout socket=%d", socket)
			next.Timeout(d, socket)
		},
		ExceptionFunc: func(d *Dispatcher, socket Handle) {
			logger.Printf("dispatcher: exception socket=%d", socket)
			next.Exception(d, socket)
		},
	}
}
