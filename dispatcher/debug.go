// File: dispatcher/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime introspection snapshot of the socket table, safe to read from any
// goroutine. The table itself stays single-owner (readiness loop only); the
// readiness loop publishes a copy here in every iteration, after dispatching
// that iteration's events and before draining the command queue.

package dispatcher

import (
	"sync"
	"time"
)

type socketDebugEntry struct {
	Handle   Handle
	WantRead bool
	IdleFor  time.Duration
}

type debugSnapshot struct {
	mu      sync.Mutex
	entries []socketDebugEntry
}

func (d *Dispatcher) publishDebugSnapshot(now time.Time) {
	entries := make([]socketDebugEntry, 0, len(d.table))
	for h, info := range d.table {
		entries = append(entries, socketDebugEntry{
			Handle:   h,
			WantRead: info.WantRead(),
			IdleFor:  now.Sub(info.activity),
		})
	}
	d.snapshot.mu.Lock()
	d.snapshot.entries = entries
	d.snapshot.mu.Unlock()
}

func (d *Dispatcher) socketSnapshot() any {
	d.snapshot.mu.Lock()
	defer d.snapshot.mu.Unlock()
	out := make([]socketDebugEntry, len(d.snapshot.entries))
	copy(out, d.snapshot.entries)
	return out
}
