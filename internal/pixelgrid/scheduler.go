package pixelgrid

import (
	"sync"
	"time"
)

// FrameFunc is called with the frame timestamp.
type FrameFunc func(now time.Time)

// CancelFunc withdraws a pending frame request. Calling it more than once,
// or after the frame has run, is a no-op.
type CancelFunc func()

// Scheduler is a "next frame" callback source. Each request runs at most
// once, on the next frame after it was made.
type Scheduler interface {
	RequestFrame(fn FrameFunc) CancelFunc
}

// FrameQueue is a Scheduler driven by its owner: whoever holds the clock
// calls Fire once per frame. Tests use it with synthetic timestamps.
type FrameQueue struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]FrameFunc
	order   []uint64
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[uint64]FrameFunc)}
}

// RequestFrame queues fn for the next Fire.
func (q *FrameQueue) RequestFrame(fn FrameFunc) CancelFunc {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	id := q.nextID
	q.pending[id] = fn
	q.order = append(q.order, id)

	return func() {
		q.mu.Lock()
		delete(q.pending, id)
		q.mu.Unlock()
	}
}

// Fire runs every callback that was pending when it was called, in request
// order, and returns how many ran. Callbacks requested while firing wait for
// the next call.
func (q *FrameQueue) Fire(now time.Time) int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	batch := make([]FrameFunc, 0, len(order))
	for _, id := range order {
		if fn, ok := q.pending[id]; ok {
			batch = append(batch, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
