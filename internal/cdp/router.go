package cdp

import (
	"context"
	"log/slog"
	"sync"
)

// EventRouter fans decoded events out to subscribed listeners (C4). A
// Listener may appear in the sets for several kinds, but at most once
// per kind. Dispatch runs on the Channel's read-loop goroutine while
// Listen/WaitFor/CloseAll can be called from any caller goroutine, so
// the subscription map is guarded by mu — held only around the map
// operations themselves, never across a Listener.Put or Next call.
type EventRouter struct {
	mu            sync.Mutex
	subscriptions map[EventKind]map[*Listener]struct{}
	logger        *slog.Logger
}

// NewEventRouter creates an empty router. logger may be nil, in which
// case slog.Default() is used for overflow warnings.
func NewEventRouter(logger *slog.Logger) *EventRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventRouter{
		subscriptions: make(map[EventKind]map[*Listener]struct{}),
		logger:        logger,
	}
}

// listen is the shared implementation behind Listen and WaitFor: it
// creates a Listener, subscribes it to every kind, and returns the
// Listener itself (not just its ConsumerView) so WaitFor can Close it
// after one event.
func (r *EventRouter) listen(bufferSize int, kinds ...EventKind) *Listener {
	l := NewListener(bufferSize)
	r.mu.Lock()
	for _, k := range kinds {
		set, ok := r.subscriptions[k]
		if !ok {
			set = make(map[*Listener]struct{})
			r.subscriptions[k] = set
		}
		set[l] = struct{}{}
	}
	r.mu.Unlock()
	return l
}

// Listen subscribes a new Listener to the given kinds and returns its
// ConsumerView. The Listener is retained by the router; callers need
// only the returned view to read events — they do not need to keep any
// other reference alive.
func (r *EventRouter) Listen(bufferSize int, kinds ...EventKind) *ConsumerView {
	return r.listen(bufferSize, kinds...).Consumer()
}

// WaitFor subscribes to one kind, waits for exactly one event, closes
// the listener, and returns the event's payload.
func (r *EventRouter) WaitFor(ctx context.Context, kind EventKind, bufferSize int) (any, error) {
	l := r.listen(bufferSize, kind)
	defer l.Close()
	payload, ok, err := l.Consumer().Next(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ListenerClosed{}
	}
	return payload, nil
}

// Dispatch delivers decoded to every listener currently subscribed to
// its kind. A listener whose queue overflows drops this event only — it
// stays subscribed. A listener observed closed is pruned from the
// subscription set after the full dispatch pass. Both outcomes are
// swallowed here; no other error propagates out of Dispatch (spec.md §7).
func (r *EventRouter) Dispatch(decoded DecodedEvent) {
	r.mu.Lock()
	set := r.subscriptions[decoded.Kind]
	listeners := make([]*Listener, 0, len(set))
	for l := range set {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()
	if len(listeners) == 0 {
		return
	}

	var stale []*Listener
	for _, l := range listeners {
		err := l.Put(decoded.Payload)
		switch err.(type) {
		case nil:
		case *QueueOverflow:
			r.logger.Warn("event dropped: listener queue full",
				"kind", string(decoded.Kind))
		case *ListenerClosed:
			stale = append(stale, l)
		default:
			r.logger.Warn("event dropped: unexpected listener error",
				"kind", string(decoded.Kind), "error", err)
		}
	}
	if len(stale) == 0 {
		return
	}
	r.mu.Lock()
	if set, ok := r.subscriptions[decoded.Kind]; ok {
		for _, l := range stale {
			delete(set, l)
		}
	}
	r.mu.Unlock()
}

// CloseAll closes every listener across every subscribed kind and
// empties the subscription map. Called once, from Channel.Close.
func (r *EventRouter) CloseAll() {
	r.mu.Lock()
	all := r.subscriptions
	r.subscriptions = make(map[EventKind]map[*Listener]struct{})
	r.mu.Unlock()

	for _, set := range all {
		for l := range set {
			l.Close()
		}
	}
}
