// Package target implements the Target.* slice of the CDP domain
// bindings: attaching a session to a browser tab. Shaped like the
// generated bindings a real CDP client vendors (see chromedp/cdproto),
// but hand-written here since this module has no code generator.
package target

import (
	"encoding/json"

	"github.com/nugget/cdpmux/internal/cdp"
)

// SessionID identifies a CDP session once attached.
type SessionID string

// ID identifies a debuggable target (a tab, a worker, an iframe).
type ID string

// Info describes one target as reported by Target.attachedToTarget
// and Target.getTargets.
type Info struct {
	TargetID ID     `json:"targetId"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Attached bool   `json:"attached"`
}

const (
	// EventAttachedToTarget fires once a session has been attached,
	// carrying the new SessionID.
	EventAttachedToTarget cdp.EventKind = "Target.attachedToTarget"
	// EventDetachedFromTarget fires when a session detaches, whether
	// requested or because the target closed.
	EventDetachedFromTarget cdp.EventKind = "Target.detachedFromTarget"
)

// AttachedToTargetEvent is the payload of EventAttachedToTarget.
type AttachedToTargetEvent struct {
	SessionID          SessionID `json:"sessionId"`
	TargetInfo         Info      `json:"targetInfo"`
	WaitingForDebugger bool      `json:"waitingForDebugger"`
}

// DetachedFromTargetEvent is the payload of EventDetachedFromTarget.
type DetachedFromTargetEvent struct {
	SessionID SessionID `json:"sessionId"`
	TargetID  ID        `json:"targetId,omitempty"`
}

type attachToTargetParams struct {
	TargetID ID   `json:"targetId"`
	Flatten  bool `json:"flatten,omitempty"`
}

type attachToTargetResult struct {
	SessionID SessionID `json:"sessionId"`
}

// attachToTargetCommand implements cdp.CommandDescription[SessionID].
type attachToTargetCommand struct {
	params attachToTargetParams
}

// AttachToTarget builds a Target.attachToTarget command. flatten
// requests the flat sessionId-addressed wire mode this module assumes
// throughout (spec.md §6) rather than the legacy nested-message mode.
func AttachToTarget(targetID ID, flatten bool) cdp.CommandDescription[SessionID] {
	return attachToTargetCommand{params: attachToTargetParams{TargetID: targetID, Flatten: flatten}}
}

func (c attachToTargetCommand) Method() string { return "Target.attachToTarget" }

func (c attachToTargetCommand) BuildRequest() (json.RawMessage, error) {
	return json.Marshal(c.params)
}

func (c attachToTargetCommand) ParseResult(result json.RawMessage) (SessionID, error) {
	var r attachToTargetResult
	if err := json.Unmarshal(result, &r); err != nil {
		return "", err
	}
	return r.SessionID, nil
}

type detachFromTargetParams struct {
	SessionID SessionID `json:"sessionId"`
}

type detachFromTargetCommand struct {
	params detachFromTargetParams
}

// DetachFromTarget builds a Target.detachFromTarget command.
func DetachFromTarget(sessionID SessionID) cdp.CommandDescription[struct{}] {
	return detachFromTargetCommand{params: detachFromTargetParams{SessionID: sessionID}}
}

func (c detachFromTargetCommand) Method() string { return "Target.detachFromTarget" }

func (c detachFromTargetCommand) BuildRequest() (json.RawMessage, error) {
	return json.Marshal(c.params)
}

func (c detachFromTargetCommand) ParseResult(json.RawMessage) (struct{}, error) {
	return struct{}{}, nil
}

type createTargetParams struct {
	URL string `json:"url"`
}

type createTargetResult struct {
	TargetID ID `json:"targetId"`
}

type createTargetCommand struct {
	params createTargetParams
}

// CreateTarget builds a Target.createTarget command, opening a new tab
// at url.
func CreateTarget(url string) cdp.CommandDescription[ID] {
	return createTargetCommand{params: createTargetParams{URL: url}}
}

func (c createTargetCommand) Method() string { return "Target.createTarget" }

func (c createTargetCommand) BuildRequest() (json.RawMessage, error) {
	return json.Marshal(c.params)
}

func (c createTargetCommand) ParseResult(result json.RawMessage) (ID, error) {
	var r createTargetResult
	if err := json.Unmarshal(result, &r); err != nil {
		return "", err
	}
	return r.TargetID, nil
}

type getTargetsResult struct {
	TargetInfos []Info `json:"targetInfos"`
}

type getTargetsCommand struct{}

// GetTargets builds a Target.getTargets command, listing every target
// the browser currently knows about.
func GetTargets() cdp.CommandDescription[[]Info] { return getTargetsCommand{} }

func (getTargetsCommand) Method() string { return "Target.getTargets" }

func (getTargetsCommand) BuildRequest() (json.RawMessage, error) {
	return json.RawMessage("{}"), nil
}

func (getTargetsCommand) ParseResult(result json.RawMessage) ([]Info, error) {
	var r getTargetsResult
	if err := json.Unmarshal(result, &r); err != nil {
		return nil, err
	}
	return r.TargetInfos, nil
}

// RegisterEvents adds this domain's event decoders to r.
func RegisterEvents(r *cdp.Registry) {
	r.Register(string(EventAttachedToTarget), func(params []byte) (any, error) {
		var e AttachedToTargetEvent
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, err
		}
		return e, nil
	})
	r.Register(string(EventDetachedFromTarget), func(params []byte) (any, error) {
		var e DetachedFromTargetEvent
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, err
		}
		return e, nil
	})
}
