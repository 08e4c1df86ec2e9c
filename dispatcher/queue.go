// File: dispatcher/queue.go
// Author: momentics <momentics@gmail.com>
//
// fifo is the blocking, thread-safe queue backing both the command queue
// (4.B) and the worker queue (4.C). It is built on eapache/queue, an
// amortized-growth ring buffer that the teaching library carries in its
// go.mod but never imports — a better fit here than a fixed-capacity
// channel, since scenario E (10000 add/remove pairs posted in a tight
// external loop) requires the queue to grow without the producer blocking.

package dispatcher

import (
	"sync"

	"github.com/eapache/queue"
)

type fifo struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *queue.Queue
	closed bool
}

func newFIFO() *fifo {
	f := &fifo{items: queue.New()}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// enqueue is non-blocking and thread-safe; it wakes one parked consumer.
func (f *fifo) enqueue(v interface{}) {
	f.mu.Lock()
	f.items.Add(v)
	f.mu.Unlock()
	f.cond.Signal()
}

// dequeueBlocking blocks until an item is available or wakeAll is called. ok
// is false only when woken by wakeAll with nothing left to deliver.
func (f *fifo) dequeueBlocking() (v interface{}, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.items.Length() == 0 && !f.closed {
		f.cond.Wait()
	}
	if f.items.Length() == 0 {
		return nil, false
	}
	v = f.items.Peek()
	f.items.Remove()
	return v, true
}

// tryDequeue returns immediately with ok false if the queue is empty.
func (f *fifo) tryDequeue() (v interface{}, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items.Length() == 0 {
		return nil, false
	}
	v = f.items.Peek()
	f.items.Remove()
	return v, true
}

// wakeAll unblocks every consumer parked in dequeueBlocking, used on
// shutdown. Once called, dequeueBlocking never blocks again.
func (f *fifo) wakeAll() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

func (f *fifo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items.Length()
}
