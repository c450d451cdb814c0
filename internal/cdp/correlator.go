package cdp

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/nugget/cdpmux/internal/cdp/transport"
)

// pendingCommand is one in-flight command: complete is invoked at most
// once, either with a decoded result/browser-error from the wire, or
// with a closeErr if the Channel closes while the command is
// outstanding. A command dropped with remove (its caller's context was
// cancelled) is never completed.
type pendingCommand struct {
	id     uint64
	method string

	complete func(result json.RawMessage, rpcErr *BrowserError, closeErr error)
}

// correlator assigns monotonic command IDs and tracks the in-flight
// map. Each Channel (a Connection or a Session) owns its own
// correlator, mirroring pycdp's CDPBase giving every instance its own
// itertools.count() — IDs are not shared across sessions.
type correlator struct {
	nextID atomic.Uint64

	mu      sync.Mutex
	inflight map[uint64]*pendingCommand
}

func newCorrelator() *correlator {
	return &correlator{inflight: make(map[uint64]*pendingCommand)}
}

// allocate returns the next command ID. IDs start at 0 (spec.md §4.3:
// "a monotonic counter starting at 0"); frame.go's hasID bool, not a
// reserved ID value, is what distinguishes "no id field" from "id 0".
func (c *correlator) allocate() uint64 {
	return c.nextID.Add(1) - 1
}

// register records a pending command before the request is written to
// the transport, so a response that arrives before WriteText returns
// is never missed.
func (c *correlator) register(p *pendingCommand) {
	c.mu.Lock()
	c.inflight[p.id] = p
	c.mu.Unlock()
}

// remove drops a pending command without completing it, used when
// Execute's caller context is cancelled: the command may still
// complete on the wire later, but nobody is waiting for it anymore.
func (c *correlator) remove(id uint64) {
	c.mu.Lock()
	delete(c.inflight, id)
	c.mu.Unlock()
}

// completeFrame resolves the pending command matching an inbound
// response frame, if any. Returns false if no such command is
// in-flight (a late response after cancellation, or a protocol
// violation) so the caller can log it.
func (c *correlator) completeFrame(f inboundFrame) bool {
	c.mu.Lock()
	p, ok := c.inflight[f.ID]
	if ok {
		delete(c.inflight, f.ID)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	var rpcErr *BrowserError
	if f.Error != nil {
		rpcErr = &BrowserError{Code: f.Error.Code, Message: f.Error.Message, Data: f.Error.Data}
	}
	p.complete(f.Result, rpcErr, nil)
	return true
}

// closeAll completes every still-pending command with closeErr, used
// when the owning Channel closes. Mirrors CDPBase's behavior of
// failing every outstanding Deferred when the connection drops.
func (c *correlator) closeAll(reason transport.CloseReason, sessionErr func(transport.CloseReason) error) {
	c.mu.Lock()
	pending := make([]*pendingCommand, 0, len(c.inflight))
	for _, p := range c.inflight {
		pending = append(pending, p)
	}
	c.inflight = make(map[uint64]*pendingCommand)
	c.mu.Unlock()

	err := sessionErr(reason)
	for _, p := range pending {
		p.complete(nil, nil, err)
	}
}
