package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Buffer sizes mirror internal/homeassistant/websocket.go's dialer
// tuning: CDP responses (the DOM tree, the full accessibility tree)
// can run into the tens of megabytes.
const (
	dialReadBufferSize  = 1 << 20  // 1MB
	dialWriteBufferSize = 64 << 10 // 64KB
	maxMessageSize      = 100 << 20
)

// wsTransport adapts a *websocket.Conn to Transport. Reads are only
// ever issued by the Connection's single read loop; writes may come
// concurrently from the Connection and any of its Sessions, so writes
// are serialized with writeMu (gorilla/websocket permits at most one
// concurrent writer).
type wsTransport struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
	reason CloseReason
}

// Dial connects to a CDP WebSocket endpoint. Unlike
// internal/homeassistant/websocket.go there is no auth handshake —
// CDP's debugging endpoint is unauthenticated by design.
func Dial(ctx context.Context, wsURL string) (Transport, error) {
	dialer := websocket.Dialer{
		ReadBufferSize:  dialReadBufferSize,
		WriteBufferSize: dialWriteBufferSize,
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)
	return newWSTransport(conn), nil
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	t := &wsTransport{conn: conn}
	conn.SetCloseHandler(func(code int, text string) error {
		t.mu.Lock()
		if !t.closed {
			t.closed = true
			t.reason = CloseReason{Code: code, Text: text, Peer: true}
		}
		t.mu.Unlock()
		message := websocket.FormatCloseMessage(code, "")
		_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
		return nil
	})
	return t
}

func (t *wsTransport) WriteText(ctx context.Context, data []byte) error {
	if t.Closed() {
		return ErrClosed
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(dl)
	} else {
		_ = t.conn.SetWriteDeadline(time.Time{})
	}
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) ReadText(ctx context.Context) ([]byte, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(dl)
	} else {
		_ = t.conn.SetReadDeadline(time.Time{})
	}
	kind, data, err := t.conn.ReadMessage()
	if err != nil {
		t.mu.Lock()
		if !t.closed {
			t.closed = true
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				t.reason = CloseReason{Code: closeErr.Code, Text: closeErr.Text, Peer: true}
			} else {
				t.reason = CloseReason{Code: websocket.CloseAbnormalClosure, Text: err.Error(), Peer: true}
			}
		}
		t.mu.Unlock()
		return nil, err
	}
	if kind != websocket.TextMessage {
		return nil, fmt.Errorf("transport: unexpected binary frame")
	}
	return data, nil
}

func (t *wsTransport) Close(code int, reason string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.reason = CloseReason{Code: code, Text: reason}
	t.mu.Unlock()

	t.writeMu.Lock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(2*time.Second))
	t.writeMu.Unlock()

	return t.conn.Close()
}

func (t *wsTransport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *wsTransport) CloseReason() (CloseReason, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason, t.closed
}
