// File: dispatcher/dispatcher.go
// Author: momentics <momentics@gmail.com>
//
// Dispatcher is the public facade (component G): it constructs the command
// queue, worker queue, readiness loop, and worker pool, and exposes the
// add/remove/close/reset/stop entry points. Modeled on
// facade.HioloadWS/facade.Config from the teaching library, narrowed to a
// socket dispatcher's needs.

package dispatcher

import (
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/sockdispatch/control"
	"github.com/momentics/sockdispatch/reactor"
)

// Dispatcher owns a set of stream sockets and drives per-socket I/O
// readiness, timeout, and exception events through user-supplied handlers.
type Dispatcher struct {
	reactor reactor.Reactor

	commandQ *fifo
	workerQ  *fifo

	// table is the socket table: owned exclusively by the readiness-loop
	// goroutine. No other goroutine reads or writes it.
	table map[Handle]*SocketInfo
	// interest mirrors, for the readiness loop's own bookkeeping, whether
	// the reactor currently has read interest enabled for a handle — so
	// the watchlist-build step only issues an epoll_ctl/kevent syscall
	// when a socket's eligibility actually changed.
	interest map[Handle]bool

	pollTimeout       atomic.Int64 // nanoseconds; hot-reloadable
	maxReadsPerWorker atomic.Int32 // hot-reloadable

	stopped  atomic.Bool
	stopOnce sync.Once
	wg       sync.WaitGroup

	control  *control.ConfigStore
	metrics  *control.MetricsRegistry
	debug    *control.DebugProbes
	logger   *log.Logger
	snapshot debugSnapshot
}

// New constructs a Dispatcher: it builds the command and worker queues,
// starts cfg.WorkerCount worker goroutines, and starts the readiness
// goroutine. Invalid configuration is a fatal ConfigurationError.
func New(cfg Config) (*Dispatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rx, err := reactor.New()
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		reactor:  rx,
		commandQ: newFIFO(),
		workerQ:  newFIFO(),
		table:    make(map[Handle]*SocketInfo),
		interest: make(map[Handle]bool),
		control: control.NewConfigStore(control.Tuning{
			PollTimeout:       cfg.PollTimeout,
			MaxReadsPerWorker: cfg.MaxReadsPerWorker,
		}),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes("dispatcher"),
		logger:  log.New(os.Stderr, "dispatcher: ", log.LstdFlags),
	}
	d.pollTimeout.Store(int64(cfg.PollTimeout))
	d.maxReadsPerWorker.Store(int32(cfg.MaxReadsPerWorker))

	d.control.OnReload(d.applyHotReload)
	d.debug.RegisterProbe("sockets", d.socketSnapshot)
	control.RegisterPlatformProbes(d.debug)

	d.wg.Add(1)
	go d.runReadiness()

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.runWorker()
	}

	return d, nil
}

// applyHotReload re-reads poll timeout/max reads per worker from the config
// store whenever Control().SetTuning is called. ConfigStore.SetTuning itself
// already discards zero/invalid fields, so the stored Tuning is always
// valid to apply directly.
func (d *Dispatcher) applyHotReload() {
	t := d.control.GetTuning()
	d.pollTimeout.Store(int64(t.PollTimeout))
	d.maxReadsPerWorker.Store(int32(t.MaxReadsPerWorker))
}

// Control exposes the dynamic configuration store (hot-reloadable poll
// timeout and max reads per worker). Metrics and debug-probe output are
// read through Stats.
func (d *Dispatcher) Control() *control.ConfigStore { return d.control }

// Stats returns a snapshot combining metrics and debug-probe output.
func (d *Dispatcher) Stats() map[string]any {
	out := d.metrics.GetSnapshot()
	out["dispatcher.queue.worker_depth"] = int64(d.workerQ.len())
	for k, v := range d.debug.DumpState() {
		out["debug."+k] = v
	}
	return out
}

// AddSocket registers socket with handler and idleTimeout (0 disables
// idle-timeout accounting for this socket). The add is visible starting
// with the readiness loop's very next iteration.
func (d *Dispatcher) AddSocket(socket Handle, handler Handler, idleTimeout time.Duration) {
	d.commandQ.enqueue(Command{Kind: CmdAdd, Handle: socket, Handler: handler, Timeout: idleTimeout})
}

// RemoveSocket drops socket from the table without touching the underlying
// OS handle. Idempotent.
func (d *Dispatcher) RemoveSocket(socket Handle) {
	d.commandQ.enqueue(Command{Kind: CmdRemove, Handle: socket})
}

// CloseSocket drops socket from the table and issues a directional shutdown
// on the OS handle. Idempotent.
func (d *Dispatcher) CloseSocket(socket Handle) {
	d.commandQ.enqueue(Command{Kind: CmdClose, Handle: socket})
}

// Reset clears the entire socket table.
func (d *Dispatcher) Reset() {
	d.commandQ.enqueue(Command{Kind: CmdReset})
}

// Stop halts the readiness loop and every worker, then clears the socket
// table. In-flight handler calls are not interrupted, and workers take no
// further task from the worker queue; a Readable burst already under way
// may still call Readable again, up to its read cap. Idempotent.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.stopped.Store(true)
		d.commandQ.wakeAll()
		d.workerQ.wakeAll()
		d.wg.Wait()
		d.table = make(map[Handle]*SocketInfo)
		_ = d.reactor.Close()
	})
}
