package target

import (
	"encoding/json"
	"testing"

	"github.com/nugget/cdpmux/internal/cdp"
)

func TestAttachToTarget_BuildRequest(t *testing.T) {
	cmd := AttachToTarget(ID("tgt-1"), true)
	if cmd.Method() != "Target.attachToTarget" {
		t.Fatalf("Method() = %q", cmd.Method())
	}
	raw, err := cmd.BuildRequest()
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	var params attachToTargetParams
	if err := json.Unmarshal(raw, &params); err != nil {
		t.Fatalf("unmarshal params: %v", err)
	}
	if params.TargetID != "tgt-1" || !params.Flatten {
		t.Errorf("params = %+v", params)
	}
}

func TestAttachToTarget_ParseResult(t *testing.T) {
	cmd := AttachToTarget("tgt-1", true)
	sessionID, err := cmd.ParseResult(json.RawMessage(`{"sessionId":"sess-9"}`))
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if sessionID != "sess-9" {
		t.Errorf("sessionID = %q, want sess-9", sessionID)
	}
}

func TestGetTargets_ParseResult(t *testing.T) {
	cmd := GetTargets()
	infos, err := cmd.ParseResult(json.RawMessage(`{"targetInfos":[{"targetId":"a","type":"page","title":"t","url":"u","attached":true}]}`))
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if len(infos) != 1 || infos[0].TargetID != "a" || !infos[0].Attached {
		t.Errorf("infos = %+v", infos)
	}
}

func TestRegisterEvents_DecodesAttachedToTarget(t *testing.T) {
	r := cdp.NewRegistry()
	RegisterEvents(r)

	decoded, err := r.Decode(string(EventAttachedToTarget), json.RawMessage(`{"sessionId":"sess-1","targetInfo":{"targetId":"tgt-1","type":"page"}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Kind != EventAttachedToTarget {
		t.Errorf("Kind = %v, want %v", decoded.Kind, EventAttachedToTarget)
	}
	event, ok := decoded.Payload.(AttachedToTargetEvent)
	if !ok {
		t.Fatalf("Payload type = %T, want AttachedToTargetEvent", decoded.Payload)
	}
	if event.SessionID != "sess-1" || event.TargetInfo.TargetID != "tgt-1" {
		t.Errorf("event = %+v", event)
	}
}
