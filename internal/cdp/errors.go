package cdp

import (
	"fmt"

	"github.com/nugget/cdpmux/internal/cdp/transport"
)

// BrowserError is returned by Execute when the peer reported an error
// for a command. Mirrors the "error" member of a CDP response frame.
type BrowserError struct {
	Code    int64
	Message string
	Data    any
}

func (e *BrowserError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("cdp: browser error %d: %s (%v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("cdp: browser error %d: %s", e.Code, e.Message)
}

// ConnectionClosed is returned by Execute when the transport is already
// closed, or completes an in-flight command when the transport closes
// while the command was outstanding.
type ConnectionClosed struct {
	Reason transport.CloseReason
}

func (e *ConnectionClosed) Error() string {
	return fmt.Sprintf("cdp: connection closed: %s", e.Reason)
}

// SessionClosed is returned by Execute on a Session that has been
// removed from its Connection.
type SessionClosed struct {
	SessionID string
}

func (e *SessionClosed) Error() string {
	return fmt.Sprintf("cdp: session %s closed", e.SessionID)
}

// InternalError indicates a command could not be sent: its
// CommandDescription's BuildRequest returned an error, or the request
// envelope failed to marshal to JSON.
// (The "ParseResult did not terminate" failure mode named by the
// original implementation is structurally impossible here — see
// DESIGN.md.)
type InternalError struct {
	Method string
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("cdp: internal error in %s: %s", e.Method, e.Detail)
}

// QueueOverflow is raised by Listener.Put when the listener's bounded
// queue is full. The Router absorbs it (drop + warn); callers outside
// the Router see it propagate unchanged.
type QueueOverflow struct {
	Capacity int
}

func (e *QueueOverflow) Error() string {
	return fmt.Sprintf("cdp: event queue overflow (capacity %d)", e.Capacity)
}

// ListenerClosed is raised by Listener.Put on a closed listener. Used
// by the Router as a pruning signal.
type ListenerClosed struct{}

func (e *ListenerClosed) Error() string { return "cdp: listener closed" }
