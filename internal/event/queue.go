package event

import (
	"context"
	"sync"
)

// Queue is a thread-safe FIFO of events that doubles its capacity when it
// reaches 70% full, up to an optional limit. Emit never blocks; when the
// limit is reached the event is dropped and counted.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []Event
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	limit    int // 0 = unbounded
	closed   bool

	// Stats
	totalEmitted   int64
	totalDelivered int64
	dropped        int64
	resizeCount    int
}

// NewQueue creates a queue with the given initial capacity. A positive limit
// caps growth; zero means unbounded.
func NewQueue(initialCapacity, limit int) *Queue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	if limit > 0 && limit < initialCapacity {
		limit = initialCapacity
	}
	q := &Queue{
		buf:      make([]Event, initialCapacity),
		capacity: initialCapacity,
		limit:    limit,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Emit implements Sink.
func (q *Queue) Emit(e Event) {
	q.Send(e)
}

// Send appends an event. Returns false if the queue is closed or full at its limit.
func (q *Queue) Send(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.dropped++
		return false
	}

	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold && (q.limit == 0 || q.capacity < q.limit) {
		q.grow()
	}
	if q.count == q.capacity {
		q.dropped++
		return false
	}

	q.buf[q.tail] = e
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	q.totalEmitted++

	q.cond.Signal()
	return true
}

// Receive removes and returns the oldest event, blocking until one is
// available or the queue is closed. Returns false once closed and empty.
func (q *Queue) Receive() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.count == 0 {
		return Event{}, false
	}
	return q.pop(), true
}

// ReceiveContext is Receive that also returns when ctx is done.
func (q *Queue) ReceiveContext(ctx context.Context) (Event, bool) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}

	if q.count == 0 {
		return Event{}, false
	}
	return q.pop(), true
}

// TryReceive returns the oldest event without blocking.
func (q *Queue) TryReceive() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return Event{}, false
	}
	return q.pop(), true
}

// Close stops accepting events. Receivers get the remaining events, then false.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Stats returns queue statistics.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Count:          q.count,
		Capacity:       q.capacity,
		TotalEmitted:   q.totalEmitted,
		TotalDelivered: q.totalDelivered,
		Dropped:        q.dropped,
		ResizeCount:    q.resizeCount,
	}
}

// QueueStats contains queue statistics.
type QueueStats struct {
	Count          int
	Capacity       int
	TotalEmitted   int64
	TotalDelivered int64
	Dropped        int64
	ResizeCount    int
}

// pop removes the head element. Must be called with lock held and count > 0.
func (q *Queue) pop() Event {
	e := q.buf[q.head]
	q.buf[q.head] = Event{}
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.totalDelivered++
	return e
}

// grow doubles the capacity, clamped to the limit. Must be called with lock held.
func (q *Queue) grow() {
	newCapacity := q.capacity * 2
	if q.limit > 0 && newCapacity > q.limit {
		newCapacity = q.limit
	}
	if newCapacity == q.capacity {
		return
	}
	newBuf := make([]Event, newCapacity)

	if q.count > 0 {
		if q.head < q.tail {
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}

	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity = newCapacity
	q.resizeCount++
}
