package cdp

import (
	"context"
	"sync/atomic"
)

// closeSentinel is the in-band value a Listener pushes through its
// queue on Close so a consumer suspended in Next wakes up and
// terminates (spec C2's "CLOSE sentinel").
type closeSentinel struct{}

// Listener is a subscriber to one or more EventKinds (C2). It wraps a
// BoundedQueue with a one-way closed flag and is consumed through a
// single-pass ConsumerView.
type Listener struct {
	queue  *BoundedQueue
	closed atomic.Bool
}

// NewListener creates a Listener backed by a queue of the given
// capacity.
func NewListener(capacity int) *Listener {
	return &Listener{queue: NewBoundedQueue(capacity)}
}

// Put delivers a decoded event payload to the listener. Fails with
// *ListenerClosed if the listener has been closed, or *QueueOverflow
// if its queue is full — both propagated to the caller unchanged, per
// spec.md §4.2 (the Router decides what to do with them).
func (l *Listener) Put(payload any) error {
	if l.closed.Load() {
		return &ListenerClosed{}
	}
	return l.queue.Put(payload)
}

// Close marks the listener closed, attempts to deliver the CLOSE
// sentinel, then closes the underlying queue as a backstop: if the
// queue was full and the sentinel got dropped, the queue's own closed
// flag still guarantees Get returns ok=false once every buffered item
// has been drained, rather than blocking forever.
// Idempotent: a second Close is a no-op.
func (l *Listener) Close() {
	if l.closed.Swap(true) {
		return
	}
	_ = l.queue.Put(closeSentinel{})
	l.queue.Close()
}

// Closed reports whether Close has been called.
func (l *Listener) Closed() bool {
	return l.closed.Load()
}

// Consumer returns this listener's single-pass ConsumerView. Multiple
// views over the same Listener share the underlying queue in
// FIFO-delivery order (spec.md §4.2's "re-entrant consumption").
func (l *Listener) Consumer() *ConsumerView {
	return &ConsumerView{listener: l}
}

// ConsumerView is a single-pass asynchronous sequence of event
// payloads, meant to be driven by a single goroutine calling Next in a
// loop. Call Next repeatedly until ok is false.
type ConsumerView struct {
	listener *Listener
	done     bool
}

// Next suspends until an event is available, the listener is closed,
// or ctx is cancelled. The first ok=false marks end of sequence; after
// that, further calls also return ok=false without touching the queue.
//
// Next always drains the queue before terminating (spec.md §3: "the
// consumer view terminates after draining pre-close contents and
// observing the close signal"), so an event Put before Close — whether
// already buffered or handed off to an in-flight Next — is delivered
// even to a view created after Close was observed. The sequence ends
// on the CLOSE sentinel, or on a closed queue with nothing left in it
// (the case where the sentinel was dropped to overflow).
func (c *ConsumerView) Next(ctx context.Context) (payload any, ok bool, err error) {
	if c.done {
		return nil, false, nil
	}
	item, ok, err := c.listener.queue.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		c.done = true
		return nil, false, nil
	}
	if _, isSentinel := item.(closeSentinel); isSentinel {
		c.done = true
		return nil, false, nil
	}
	return item, true, nil
}
