package cdp

import "encoding/json"

// outboundFrame is the wire shape of a command request (spec.md §6).
type outboundFrame struct {
	ID        uint64          `json:"id"`
	Method    string          `json:"method"`
	Params    json.RawMessage `json:"params,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

// inboundFrame is the wire shape of anything the peer can send: a
// command response (id set, exactly one of result/error) or an event
// (method set, no id).
type inboundFrame struct {
	ID        uint64          `json:"id,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *frameError     `json:"error,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`

	hasID bool // distinguishes id:0 (valid) from "no id field at all"
}

type frameError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// decodeInboundFrame parses a raw text frame and records whether an
// "id" field was present at all, since CDP command id 0 is valid and
// must not be confused with "this is an event".
func decodeInboundFrame(data []byte) (inboundFrame, error) {
	var raw struct {
		ID        *uint64         `json:"id"`
		Method    string          `json:"method"`
		Params    json.RawMessage `json:"params"`
		Result    json.RawMessage `json:"result"`
		Error     *frameError     `json:"error"`
		SessionID string          `json:"sessionId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return inboundFrame{}, err
	}
	f := inboundFrame{
		Method:    raw.Method,
		Params:    raw.Params,
		Result:    raw.Result,
		Error:     raw.Error,
		SessionID: raw.SessionID,
	}
	if raw.ID != nil {
		f.ID = *raw.ID
		f.hasID = true
	}
	return f, nil
}
