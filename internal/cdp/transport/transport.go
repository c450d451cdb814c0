// Package transport defines the byte-framed duplex channel the cdp
// package drives, and provides the two concrete implementations this
// repo ships: a gorilla/websocket-backed Transport for talking to a
// real browser, and an in-memory Pipe for tests (spec.md §1 treats the
// transport as an external collaborator named only at its interface).
package transport

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by WriteText once the transport has been
// closed, locally or by the peer. ReadText on a closed transport
// returns the underlying error instead (io.EOF for a Pipe, the
// websocket read error for a WebSocket).
var ErrClosed = errors.New("transport: closed")

// CloseReason describes why a transport closed.
type CloseReason struct {
	Code int
	Text string
	// Peer is true if the peer's close frame arrived before (or
	// instead of) our own close completing.
	Peer bool
}

func (r CloseReason) String() string {
	who := "local"
	if r.Peer {
		who = "peer"
	}
	if r.Text == "" {
		return fmt.Sprintf("%s close code=%d", who, r.Code)
	}
	return fmt.Sprintf("%s close code=%d (%s)", who, r.Code, r.Text)
}

// Transport is a byte-framed duplex channel carrying whole JSON text
// frames in each direction. Implementations must allow WriteText to be
// called concurrently from multiple goroutines (a Connection and its
// Sessions share one Transport); ReadText is only ever called from a
// single owning goroutine.
type Transport interface {
	// WriteText sends one complete text frame.
	WriteText(ctx context.Context, data []byte) error
	// ReadText returns the next complete text frame, or an error if
	// the transport closes or ctx is cancelled. A binary frame is a
	// protocol error per spec.md §4.7.
	ReadText(ctx context.Context) ([]byte, error)
	// Close closes the transport with the given close code/reason.
	// Safe to call more than once; later calls are no-ops.
	Close(code int, reason string) error
	// Closed reports whether Close has completed or the peer closed.
	Closed() bool
	// CloseReason returns the most recent close reason, if any.
	CloseReason() (CloseReason, bool)
}
