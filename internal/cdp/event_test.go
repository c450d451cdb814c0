package cdp

import (
	"encoding/json"
	"testing"
)

type pingEvent struct {
	N int `json:"n"`
}

func TestRegistry_DecodeRegisteredMethod(t *testing.T) {
	r := NewRegistry()
	r.Register("Test.ping", func(params []byte) (any, error) {
		var e pingEvent
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, err
		}
		return e, nil
	})

	decoded, err := r.Decode("Test.ping", []byte(`{"n":7}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Kind != "Test.ping" {
		t.Errorf("expected kind Test.ping, got %v", decoded.Kind)
	}
	got, ok := decoded.Payload.(pingEvent)
	if !ok || got.N != 7 {
		t.Errorf("expected pingEvent{N:7}, got %#v", decoded.Payload)
	}
}

func TestRegistry_DecodeUnknownMethodNeverErrors(t *testing.T) {
	r := NewRegistry()
	decoded, err := r.Decode("Some.unregisteredEvent", []byte(`{"x":1}`))
	if err != nil {
		t.Fatalf("Decode of unregistered method must not error, got %v", err)
	}
	if decoded.Kind != UnknownEventKind {
		t.Errorf("expected UnknownEventKind, got %v", decoded.Kind)
	}
	unk, ok := decoded.Payload.(UnknownEvent)
	if !ok || unk.Method != "Some.unregisteredEvent" {
		t.Errorf("expected UnknownEvent carrying the method name, got %#v", decoded.Payload)
	}
}
