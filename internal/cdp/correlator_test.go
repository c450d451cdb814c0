package cdp

import (
	"encoding/json"
	"testing"

	"github.com/nugget/cdpmux/internal/cdp/transport"
)

func TestCorrelator_AllocateStartsAtZeroAndIsMonotonic(t *testing.T) {
	c := newCorrelator()
	if id := c.allocate(); id != 0 {
		t.Fatalf("first allocate() = %d, want 0", id)
	}
	seen := map[uint64]bool{0: true}
	for i := 0; i < 99; i++ {
		id := c.allocate()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestCorrelator_CompleteFrameUnknownIDReturnsFalse(t *testing.T) {
	c := newCorrelator()
	ok := c.completeFrame(inboundFrame{ID: 999, hasID: true})
	if ok {
		t.Fatal("expected false for a response with no matching pending command")
	}
}

func TestCorrelator_CloseAllFailsEveryPending(t *testing.T) {
	c := newCorrelator()
	results := make(chan error, 3)
	for i := 0; i < 3; i++ {
		id := c.allocate()
		c.register(&pendingCommand{
			id: id,
			complete: func(result json.RawMessage, rpcErr *BrowserError, closeErr error) {
				results <- closeErr
			},
		})
	}

	c.closeAll(transport.CloseReason{Code: 1000}, func(reason transport.CloseReason) error {
		return &ConnectionClosed{Reason: reason}
	})

	for i := 0; i < 3; i++ {
		err := <-results
		if _, ok := err.(*ConnectionClosed); !ok {
			t.Fatalf("expected *ConnectionClosed, got %v", err)
		}
	}
}
