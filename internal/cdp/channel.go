package cdp

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nugget/cdpmux/internal/cdp/transport"
)

// Channel is the shared behavior of a Connection's root channel and
// each of its Sessions (spec.md §4.5): command correlation and event
// fan-out, scoped to one sessionId (empty string for the root
// channel). Each Channel owns an independent correlator and router —
// pycdp's CDPBase gives every instance, including every CDPSession,
// its own itertools.count() and listener set, and this mirrors that.
type Channel struct {
	tr        transport.Transport
	sessionID string
	registry  *Registry
	logger    *slog.Logger

	corr   *correlator
	router *EventRouter

	// closedErr builds the error Execute/WaitFor return once this
	// Channel is closed. Connection uses it to return *ConnectionClosed,
	// Session to return *SessionClosed.
	closedErr func(transport.CloseReason) error

	mu          sync.Mutex
	closed      bool
	closeReason transport.CloseReason
}

func newChannel(tr transport.Transport, sessionID string, registry *Registry, logger *slog.Logger, closedErr func(transport.CloseReason) error) *Channel {
	return &Channel{
		tr:        tr,
		sessionID: sessionID,
		registry:  registry,
		logger:    logger,
		corr:      newCorrelator(),
		router:    NewEventRouter(logger),
		closedErr: closedErr,
	}
}

// SessionID is empty for a Connection's root channel.
func (ch *Channel) SessionID() string { return ch.sessionID }

func (ch *Channel) Closed() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closed
}

// Close fails every in-flight command and closes every subscribed
// Listener with reason. Safe to call more than once; later calls are
// no-ops.
func (ch *Channel) Close(reason transport.CloseReason) {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	ch.closed = true
	ch.closeReason = reason
	ch.mu.Unlock()

	ch.corr.closeAll(reason, ch.closedErr)
	ch.router.CloseAll()
}

// Listen subscribes to one or more event kinds, returning a
// single-pass consumer (spec.md §4.4).
func (ch *Channel) Listen(bufferSize int, kinds ...EventKind) *ConsumerView {
	return ch.router.Listen(bufferSize, kinds...)
}

// WaitFor blocks for exactly one event of kind.
func (ch *Channel) WaitFor(ctx context.Context, kind EventKind, bufferSize int) (any, error) {
	return ch.router.WaitFor(ctx, kind, bufferSize)
}

// HandleFrame dispatches one inbound frame already identified as
// belonging to this Channel (by Connection for the root channel, by
// the session demux for a Session).
func (ch *Channel) HandleFrame(f inboundFrame) {
	if f.hasID {
		if !ch.corr.completeFrame(f) {
			ch.logger.Warn("cdp: response for unknown command id", "id", f.ID, "session", ch.sessionID)
		}
		return
	}
	decoded, err := ch.registry.Decode(f.Method, f.Params)
	if err != nil {
		ch.logger.Warn("cdp: failed to decode event", "method", f.Method, "error", err)
		return
	}
	ch.router.Dispatch(decoded)
}

type executeResult struct {
	result   json.RawMessage
	rpcErr   *BrowserError
	closeErr error
}

// Execute sends one command on ch and blocks for its response, or
// until ctx is cancelled or ch closes (spec.md §4.3). It is a
// free function rather than a Channel method because Go methods
// cannot carry their own type parameters.
func Execute[T any](ctx context.Context, ch *Channel, desc CommandDescription[T]) (T, error) {
	var zero T

	ch.mu.Lock()
	if ch.closed {
		reason := ch.closeReason
		ch.mu.Unlock()
		return zero, ch.closedErr(reason)
	}
	ch.mu.Unlock()

	params, err := desc.BuildRequest()
	if err != nil {
		return zero, &InternalError{Method: desc.Method(), Detail: err.Error()}
	}

	id := ch.corr.allocate()
	resultCh := make(chan executeResult, 1)
	ch.corr.register(&pendingCommand{
		id:     id,
		method: desc.Method(),
		complete: func(result json.RawMessage, rpcErr *BrowserError, closeErr error) {
			resultCh <- executeResult{result: result, rpcErr: rpcErr, closeErr: closeErr}
		},
	})

	frame := outboundFrame{ID: id, Method: desc.Method(), Params: params, SessionID: ch.sessionID}
	data, err := json.Marshal(frame)
	if err != nil {
		ch.corr.remove(id)
		return zero, &InternalError{Method: desc.Method(), Detail: err.Error()}
	}

	if err := ch.tr.WriteText(ctx, data); err != nil {
		ch.corr.remove(id)
		return zero, err
	}

	// An already-ready result must win over an already-cancelled ctx:
	// select chooses uniformly among ready cases, so check resultCh
	// alone first before racing it against ctx.Done().
	select {
	case res := <-resultCh:
		return finishExecute(desc, res)
	default:
	}

	select {
	case res := <-resultCh:
		return finishExecute(desc, res)
	case <-ctx.Done():
		ch.corr.remove(id)
		return zero, ctx.Err()
	}
}

func finishExecute[T any](desc CommandDescription[T], res executeResult) (T, error) {
	var zero T
	if res.closeErr != nil {
		return zero, res.closeErr
	}
	if res.rpcErr != nil {
		return zero, res.rpcErr
	}
	return desc.ParseResult(res.result)
}
