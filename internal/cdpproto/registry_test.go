package cdpproto

import (
	"encoding/json"
	"testing"

	"github.com/nugget/cdpmux/internal/cdp"
	"github.com/nugget/cdpmux/internal/cdpproto/page"
	"github.com/nugget/cdpmux/internal/cdpproto/runtime"
	"github.com/nugget/cdpmux/internal/cdpproto/target"
)

func TestNewRegistry_ComposesAllDomains(t *testing.T) {
	r := NewRegistry()

	cases := []struct {
		method string
		params string
	}{
		{string(target.EventAttachedToTarget), `{"sessionId":"s1","targetInfo":{"targetId":"t1"}}`},
		{string(page.EventFrameNavigated), `{"frame":{"id":"f1","url":"u","mimeType":"text/html"}}`},
		{string(runtime.EventExceptionThrown), `{"exceptionDetails":{"text":"boom"}}`},
	}

	for _, tc := range cases {
		decoded, err := r.Decode(tc.method, json.RawMessage(tc.params))
		if err != nil {
			t.Fatalf("Decode(%q): %v", tc.method, err)
		}
		if decoded.Kind != cdp.EventKind(tc.method) {
			t.Errorf("Decode(%q).Kind = %v, want %v", tc.method, decoded.Kind, tc.method)
		}
	}
}

func TestNewRegistry_UnknownMethodYieldsUnknownEvent(t *testing.T) {
	r := NewRegistry()
	decoded, err := r.Decode("Network.requestWillBeSent", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Kind != cdp.UnknownEventKind {
		t.Errorf("Kind = %v, want %v", decoded.Kind, cdp.UnknownEventKind)
	}
	unknown, ok := decoded.Payload.(cdp.UnknownEvent)
	if !ok {
		t.Fatalf("Payload type = %T", decoded.Payload)
	}
	if unknown.Method != "Network.requestWillBeSent" {
		t.Errorf("Method = %q", unknown.Method)
	}
}
