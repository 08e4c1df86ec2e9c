// File: dispatcher/handler_test.go
// Author: momentics <momentics@gmail.com>

package dispatcher

import (
	"bytes"
	"log"
	"testing"
)

func TestHandlerFuncsNilIsNoOp(t *testing.T) {
	var h HandlerFuncs
	if h.Readable(nil, 0) {
		t.Fatal("nil ReadableFunc should report false")
	}
	h.Timeout(nil, 0)
	h.Exception(nil, 0)
}

func TestRecoveryMiddlewareCatchesPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	panicky := HandlerFuncs{
		ReadableFunc: func(d *Dispatcher, socket Handle) bool {
			panic("boom")
		},
	}
	wrapped := RecoveryMiddleware(panicky, logger)

	more := wrapped.Readable(nil, 1)
	if more {
		t.Fatal("expected false after recovered panic")
	}
	if buf.Len() == 0 {
		t.Fatal("expected the panic to be logged")
	}
}

func TestLoggingMiddlewareLogsBothCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	inner := HandlerFuncs{
		ReadableFunc: func(d *Dispatcher, socket Handle) bool { return true },
	}
	wrapped := LoggingMiddleware(inner, logger)

	if !wrapped.Readable(nil, 1) {
		t.Fatal("expected inner Readable result to pass through")
	}
	if got := bytes.Count(buf.Bytes(), []byte("\n")); got != 2 {
		t.Fatalf("expected entry and exit log lines, got %d: %q", got, buf.String())
	}
}
