package cdp

import (
	"context"
	"sync"
)

// BoundedQueue is a fixed-capacity FIFO (spec C1). Put never blocks the
// caller: if a consumer is already suspended in Get, the item is handed
// to it directly; otherwise it is appended if there is room, or the
// call fails with *QueueOverflow. Get suspends until an item arrives or
// the queue is closed.
//
// Multiple concurrent Gets are served strictly in suspension order
// (oldest waiter first), matching the fairness rule in spec.md §4.1.
type BoundedQueue struct {
	mu       sync.Mutex
	capacity int
	items    []any
	waiters  []chan queueDelivery
	closed   bool
}

type queueDelivery struct {
	item   any
	closed bool
}

// NewBoundedQueue creates a queue with the given fixed capacity.
func NewBoundedQueue(capacity int) *BoundedQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedQueue{capacity: capacity}
}

// Put delivers item to the oldest suspended waiter if one exists,
// otherwise appends it if under capacity. Never blocks. Returns
// *QueueOverflow if the queue is full and no consumer is waiting.
func (q *BoundedQueue) Put(item any) error {
	q.mu.Lock()
	if len(q.waiters) > 0 {
		w := q.waiters[0]
		q.waiters = q.waiters[1:]
		q.mu.Unlock()
		w <- queueDelivery{item: item}
		return nil
	}
	if len(q.items) >= q.capacity {
		q.mu.Unlock()
		return &QueueOverflow{Capacity: q.capacity}
	}
	q.items = append(q.items, item)
	q.mu.Unlock()
	return nil
}

// Get pops the head item if the queue is non-empty, otherwise suspends
// until one is delivered by Put or the queue is closed. ok is false
// when the queue was closed with nothing left to deliver. Cancelling
// ctx while suspended returns ctx.Err() and removes the waiter.
func (q *BoundedQueue) Get(ctx context.Context) (item any, ok bool, err error) {
	q.mu.Lock()
	if len(q.items) > 0 {
		item = q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		return item, true, nil
	}
	if q.closed {
		q.mu.Unlock()
		return nil, false, nil
	}
	w := make(chan queueDelivery, 1)
	q.waiters = append(q.waiters, w)
	q.mu.Unlock()

	select {
	case d := <-w:
		if d.closed {
			return nil, false, nil
		}
		return d.item, true, nil
	case <-ctx.Done():
		q.removeWaiter(w)
		return nil, false, ctx.Err()
	}
}

func (q *BoundedQueue) removeWaiter(w chan queueDelivery) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, c := range q.waiters {
		if c == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return
		}
	}
}

// Close signals the queue closed: every currently suspended Get wakes
// with ok=false. Subsequent Puts still succeed or overflow normally;
// subsequent Gets on an empty queue return immediately with ok=false.
func (q *BoundedQueue) Close() {
	q.mu.Lock()
	q.closed = true
	waiters := q.waiters
	q.waiters = nil
	q.mu.Unlock()
	for _, w := range waiters {
		w <- queueDelivery{closed: true}
	}
}

// Len reports the number of buffered items (for diagnostics/tests).
func (q *BoundedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
