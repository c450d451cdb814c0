// Package dom implements the DOM.* slice of the CDP domain bindings:
// fetching the document tree. DOM has no events wired in this module
// (spec.md's Non-goals exclude live DOM mutation tracking), so this
// package contributes commands only.
package dom

import (
	"encoding/json"

	"github.com/nugget/cdpmux/internal/cdp"
)

// NodeID identifies a node within a GetDocument result.
type NodeID int64

// Node is a (deliberately shallow) DOM node: enough to identify
// elements for Runtime.evaluate-based interaction, not a full
// traversal API.
type Node struct {
	NodeID     NodeID  `json:"nodeId"`
	NodeType   int     `json:"nodeType"`
	NodeName   string  `json:"nodeName"`
	ChildCount int     `json:"childNodeCount,omitempty"`
	Children   []*Node `json:"children,omitempty"`
}

type getDocumentParams struct {
	Depth int `json:"depth"`
}

// GetDocumentResult is the outcome of a DOM.getDocument command.
type GetDocumentResult struct {
	Root Node `json:"root"`
}

type getDocumentCommand struct {
	params getDocumentParams
}

// GetDocument builds a DOM.getDocument command. depth of -1 requests
// the entire subtree; the CDP default of 1 returns only the root and
// its immediate children.
func GetDocument(depth int) cdp.CommandDescription[GetDocumentResult] {
	return getDocumentCommand{params: getDocumentParams{Depth: depth}}
}

func (c getDocumentCommand) Method() string { return "DOM.getDocument" }

func (c getDocumentCommand) BuildRequest() (json.RawMessage, error) {
	return json.Marshal(c.params)
}

func (c getDocumentCommand) ParseResult(result json.RawMessage) (GetDocumentResult, error) {
	var r GetDocumentResult
	if err := json.Unmarshal(result, &r); err != nil {
		return GetDocumentResult{}, err
	}
	return r, nil
}
