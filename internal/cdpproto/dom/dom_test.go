package dom

import (
	"encoding/json"
	"testing"
)

func TestGetDocument_BuildAndParse(t *testing.T) {
	cmd := GetDocument(-1)
	if cmd.Method() != "DOM.getDocument" {
		t.Fatalf("Method() = %q", cmd.Method())
	}
	raw, err := cmd.BuildRequest()
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	var params getDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if params.Depth != -1 {
		t.Errorf("Depth = %d, want -1", params.Depth)
	}

	result, err := cmd.ParseResult(json.RawMessage(`{"root":{"nodeId":1,"nodeType":9,"nodeName":"#document"}}`))
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if result.Root.NodeID != 1 || result.Root.NodeName != "#document" {
		t.Errorf("root = %+v", result.Root)
	}
}
