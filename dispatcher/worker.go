// File: dispatcher/worker.go
// Author: momentics <momentics@gmail.com>
//
// The worker pool (component F): a fixed number of goroutines pulling
// Tasks off the worker queue and invoking the Handler contract, so that a
// slow handler stalls only its own worker, never the readiness loop.

package dispatcher

import "time"

func (d *Dispatcher) runWorker() {
	defer d.wg.Done()

	for {
		v, ok := d.workerQ.dequeueBlocking()
		if !ok || d.stopped.Load() {
			return
		}
		task := v.(Task)

		switch task.Kind {
		case TaskReadable:
			d.runReadable(task)
		case TaskTimeout:
			d.invokeSafely(task.Handle, task.Info, func() {
				task.Info.Handler.Timeout(d, task.Handle)
			})
			d.republish(task.Info)
		case TaskException:
			d.invokeSafely(task.Handle, task.Info, func() {
				task.Info.Handler.Exception(d, task.Handle)
			})
			d.republish(task.Info)
		}
	}
}

// runReadable invokes Readable, then keeps invoking it, up to
// maxReadsPerWorker calls in all, as long as the handler keeps asking for
// more and a short poll of the socket confirms more is immediately
// available. This coalesces bursts of data from a single chatty peer
// without round-tripping through the readiness loop, while the cap keeps
// one peer from starving the rest of this worker's queue.
func (d *Dispatcher) runReadable(task Task) {
	reads := 1
	cap := int(d.maxReadsPerWorker.Load())
	pollTimeout := time.Duration(d.pollTimeout.Load())

	var expectMore bool
	d.invokeSafely(task.Handle, task.Info, func() {
		expectMore = task.Info.Handler.Readable(d, task.Handle)
	})

	for expectMore && reads < cap && pollReadable(task.Handle, pollTimeout) {
		reads++
		d.invokeSafely(task.Handle, task.Info, func() {
			expectMore = task.Info.Handler.Readable(d, task.Handle)
		})
	}

	d.republish(task.Info)
}

// republish sets wantRead back to true unless the readiness loop has already
// applied a CloseSocket for this socket. A CloseSocket that the handler
// itself enqueued is usually still in the command queue at this point, so
// it does not stop the re-arm; the entry leaves the table when the
// readiness loop drains that command. A socket dropped by RemoveSocket is
// re-armed too, which has no effect once its table entry is gone.
func (d *Dispatcher) republish(info *SocketInfo) {
	if !info.closed.Load() {
		info.wantRead.Store(true)
	}
}

// invokeSafely recovers a panic out of a handler call and logs it as a
// HandlerFailure; the task still ends normally and wantRead is still
// republished by the caller.
func (d *Dispatcher) invokeSafely(h Handle, info *SocketInfo, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("error: handler panic for socket %d: %v", h, r)
		}
	}()
	fn()
}
