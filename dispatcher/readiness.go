// File: dispatcher/readiness.go
// Author: momentics <momentics@gmail.com>
//
// The readiness loop (component E): the single goroutine that owns the
// socket table, builds read/except watchlists, performs a bounded
// multiplexed wait, posts handler-invocation tasks, and processes control
// commands between waits. Ordering within one iteration — watchlist build
// (posting any stale timeouts as it goes), wait, dispatch readiness and
// exceptions, drain commands — is load-bearing for the no-starvation
// property and is preserved exactly from the C++ original this dispatcher
// is modeled on.

package dispatcher

import (
	"time"

	"github.com/momentics/sockdispatch/reactor"
)

const eventBatch = 128

func (d *Dispatcher) runReadiness() {
	defer d.wg.Done()

	events := make([]reactor.Event, eventBatch)

	for !d.stopped.Load() {
		now := time.Now()
		d.buildWatchlist(now)

		timeout := time.Duration(d.pollTimeout.Load())
		n, err := d.reactor.Wait(events, timeout)
		if err != nil {
			if isPeerDisconnected(err) {
				d.logger.Printf("debug: socket no longer connected: %v", err)
			} else {
				d.logger.Printf("error: multiplexed wait: %v", err)
			}
		} else {
			d.dispatchEvents(events[:n], time.Now())
		}

		d.publishDebugSnapshot(time.Now())
		d.drainCommands()
	}
}

// buildWatchlist walks the socket table, firing a Timeout task for any
// socket whose idle timer has elapsed, and otherwise synchronizing each
// socket's reactor interest with its current wantRead flag. A socket is
// excluded from this iteration's wait the instant its interest is dropped.
func (d *Dispatcher) buildWatchlist(now time.Time) {
	for h, info := range d.table {
		if info.WantRead() && info.idle(now) {
			info.wantRead.Store(false)
			info.activity = now
			d.setInterest(h, false)
			d.postTimeout(h, info)
			continue
		}

		d.setInterest(h, info.WantRead())
		if !info.WantRead() {
			// Out of rotation: reset the clock so idle time never
			// accumulates while a task is in flight or queued.
			info.activity = now
		}
	}
}

// setInterest issues an epoll_ctl/kevent call only when the handle's
// enabled-ness actually changes, using the readiness loop's own private
// cache (never shared with workers).
func (d *Dispatcher) setInterest(h Handle, enabled bool) {
	if d.interest[h] == enabled {
		return
	}
	var err error
	if enabled {
		err = d.reactor.SetInterest(uintptr(h), reactor.Read)
	} else {
		err = d.reactor.SetInterest(uintptr(h), 0)
	}
	if err != nil {
		d.logger.Printf("error: set interest for socket %d: %v", h, err)
		return
	}
	d.interest[h] = enabled
}

// dispatchEvents posts a Readable or Exception task for every socket the
// multiplexed wait reported on. Except takes priority over Read when a
// single event carries both, so at most one task is posted per socket per
// iteration, preserving the at-most-one-in-flight invariant.
func (d *Dispatcher) dispatchEvents(events []reactor.Event, now time.Time) {
	for _, ev := range events {
		h := Handle(ev.Fd)
		info, ok := d.table[h]
		if !ok {
			continue
		}
		if !info.WantRead() {
			// Already has a task in flight; a stale/duplicate event.
			continue
		}

		info.wantRead.Store(false)
		info.activity = now
		d.setInterest(h, false)

		if ev.Flags&reactor.Except != 0 {
			d.postException(h, info)
		} else {
			d.postReadable(h, info)
		}
	}
}

func (d *Dispatcher) postReadable(h Handle, info *SocketInfo) {
	d.metrics.Incr("dispatcher.tasks.readable", 1)
	d.workerQ.enqueue(Task{Kind: TaskReadable, Handle: h, Info: info})
}

func (d *Dispatcher) postTimeout(h Handle, info *SocketInfo) {
	d.metrics.Incr("dispatcher.tasks.timeout", 1)
	d.workerQ.enqueue(Task{Kind: TaskTimeout, Handle: h, Info: info})
}

func (d *Dispatcher) postException(h Handle, info *SocketInfo) {
	d.metrics.Incr("dispatcher.tasks.exception", 1)
	d.workerQ.enqueue(Task{Kind: TaskException, Handle: h, Info: info})
}

// drainCommands applies queued control commands synchronously. It blocks
// only when the socket table is empty, since there is nothing else to
// multiplex; otherwise it drains non-blockingly so the bounded poll
// interval sets the worst-case handler-invocation latency.
func (d *Dispatcher) drainCommands() {
	for {
		var (
			v  interface{}
			ok bool
		)
		if len(d.table) == 0 {
			v, ok = d.commandQ.dequeueBlocking()
		} else {
			v, ok = d.commandQ.tryDequeue()
		}
		if !ok {
			return
		}
		d.applyCommand(v.(Command), time.Now())
	}
}

func (d *Dispatcher) applyCommand(cmd Command, now time.Time) {
	switch cmd.Kind {
	case CmdAdd:
		d.table[cmd.Handle] = newSocketInfo(cmd.Handler, cmd.Timeout, now)
		if err := d.reactor.Register(uintptr(cmd.Handle), reactor.Read); err != nil {
			d.logger.Printf("error: register socket %d: %v", cmd.Handle, err)
			delete(d.table, cmd.Handle)
			return
		}
		d.interest[cmd.Handle] = true
		d.metrics.Incr("dispatcher.sockets.active", 1)

	case CmdRemove:
		if _, ok := d.table[cmd.Handle]; !ok {
			return
		}
		delete(d.table, cmd.Handle)
		delete(d.interest, cmd.Handle)
		_ = d.reactor.Unregister(uintptr(cmd.Handle))
		d.metrics.Incr("dispatcher.sockets.active", -1)

	case CmdClose:
		info, ok := d.table[cmd.Handle]
		delete(d.table, cmd.Handle)
		delete(d.interest, cmd.Handle)
		_ = d.reactor.Unregister(uintptr(cmd.Handle))
		if ok {
			info.closed.Store(true)
			d.metrics.Incr("dispatcher.sockets.active", -1)
		}
		shutdownHandle(cmd.Handle)

	case CmdReset:
		for h := range d.table {
			_ = d.reactor.Unregister(uintptr(h))
		}
		d.metrics.Incr("dispatcher.sockets.active", int64(-len(d.table)))
		d.table = make(map[Handle]*SocketInfo)
		d.interest = make(map[Handle]bool)
	}
}
