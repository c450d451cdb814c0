package transport

import (
	"context"
	"io"
	"sync"
)

// NewPipe returns two linked Transports, each of whose writes arrive as
// the other's reads. It stands in for a real browser connection in
// tests that exercise the cdp package's Channel/Connection/Session
// logic without a WebSocket (spec.md §9's ambient test tooling).
func NewPipe(bufferSize int) (Transport, Transport) {
	ab := make(chan []byte, bufferSize)
	ba := make(chan []byte, bufferSize)
	a := &pipeTransport{out: ab, in: ba}
	b := &pipeTransport{out: ba, in: ab}
	a.peer, b.peer = b, a
	return a, b
}

type pipeTransport struct {
	out  chan<- []byte
	in   <-chan []byte
	peer *pipeTransport

	mu     sync.Mutex
	closed bool
	reason CloseReason
}

func (p *pipeTransport) WriteText(ctx context.Context, data []byte) error {
	if p.Closed() {
		return ErrClosed
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	select {
	case p.out <- cp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeTransport) ReadText(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-p.in:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pipeTransport) Close(code int, reason string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.reason = CloseReason{Code: code, Text: reason}
	p.mu.Unlock()

	close(p.out)

	p.peer.mu.Lock()
	if !p.peer.closed {
		p.peer.closed = true
		p.peer.reason = CloseReason{Code: code, Text: reason, Peer: true}
	}
	p.peer.mu.Unlock()

	return nil
}

func (p *pipeTransport) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *pipeTransport) CloseReason() (CloseReason, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reason, p.closed
}
