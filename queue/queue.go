package queue

import (
	"context"
	"sync"

	"github.com/philipp01105/tradingengine/core"
)

// compactThreshold is how many consumed slots may pile up at the front
// of the backing slice before it is shifted down.
const compactThreshold = 1024

// Queue is an ordered hand-off between any number of producers and a
// single consumer. Post never blocks. By default the queue is unbounded,
// so a producer that outruns the consumer grows memory without limit;
// WithCapacity trades that for dropping records.
type Queue struct {
	mu       sync.Mutex
	items    []core.Record
	head     int
	closed   bool
	capacity int
	policy   OverflowPolicy
	stats    *Stats

	// appended counts records ever accepted; skipped counts those that
	// left by eviction or Discard instead of being received
	appended uint64
	skipped  uint64

	// notify holds at most one wake-up token for the consumer
	notify   chan struct{}
	closedCh chan struct{}
}

// Option configures a Queue
type Option func(*Queue)

// WithCapacity bounds the queue to n pending records. n <= 0 means
// unbounded.
func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// WithOverflowPolicy sets what a full bounded queue does with new records
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(q *Queue) {
		q.policy = p
	}
}

// WithStats makes the queue count into s instead of a private Stats
func WithStats(s *Stats) Option {
	return func(q *Queue) {
		if s != nil {
			q.stats = s
		}
	}
}

// New creates an empty queue
func New(opts ...Option) *Queue {
	q := &Queue{
		stats:    NewStats(),
		notify:   make(chan struct{}, 1),
		closedCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Post appends r and wakes the consumer. It reports whether r was
// accepted: false once the queue is closed, or when a full bounded queue
// drops r under DropNewest.
func (q *Queue) Post(r core.Record) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.stats.IncrementRejected()
		return false
	}

	if q.capacity > 0 && q.lenLocked() >= q.capacity {
		if q.policy != DropOldest {
			q.mu.Unlock()
			q.stats.IncrementDropped(r.Level)
			return false
		}
		evicted := q.popLocked()
		q.skipped++
		q.stats.IncrementDropped(evicted.Level)
	}

	q.items = append(q.items, r)
	q.appended++
	q.mu.Unlock()
	q.stats.IncrementPosted()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Receive blocks until a record is available and returns it. Pending
// records are handed out even after ctx is done; once ctx is done and
// nothing is pending it returns core.ErrCancelled. A closed, empty
// queue returns core.ErrQueueClosed.
//
// Receive is meant for a single consumer.
func (q *Queue) Receive(ctx context.Context) (core.Record, error) {
	for {
		q.mu.Lock()
		if q.lenLocked() > 0 {
			r := q.popLocked()
			q.mu.Unlock()
			return r, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if ctx.Err() != nil {
			return core.Record{}, core.ErrCancelled
		}
		if closed {
			return core.Record{}, core.ErrQueueClosed
		}

		select {
		case <-q.notify:
		case <-q.closedCh:
		case <-ctx.Done():
		}
	}
}

// TryReceive returns the oldest pending record without blocking
func (q *Queue) TryReceive() (core.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.lenLocked() == 0 {
		return core.Record{}, false
	}
	return q.popLocked(), true
}

// Len returns the number of pending records
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// Close stops the queue from accepting records. Records already pending
// can still be received. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.closedCh)
}

// Closed reports whether Close has been called
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Discard drops every pending record and returns how many there were
func (q *Queue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.lenLocked()
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
	q.skipped += uint64(n)
	return n
}

// Appended returns how many records Post has accepted so far
func (q *Queue) Appended() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.appended
}

// Skipped returns how many accepted records were evicted or discarded
// rather than received. Every accepted record is eventually either
// received or skipped.
func (q *Queue) Skipped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.skipped
}

// Stats returns the counters the queue updates
func (q *Queue) Stats() *Stats {
	return q.stats
}

func (q *Queue) lenLocked() int {
	return len(q.items) - q.head
}

func (q *Queue) popLocked() core.Record {
	r := q.items[q.head]
	q.items[q.head] = core.Record{}
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return r
}
