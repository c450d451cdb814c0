package cdp

import "encoding/json"

// CommandDescription is the two-method contract the generated CDP
// bindings implement (spec.md §9's redesign of the original's
// two-step coroutine). BuildRequest is called exactly once, before the
// request is sent; ParseResult is called exactly once, with the raw
// "result" object from a successful response.
//
// The core never inspects the bytes BuildRequest returns beyond
// wrapping them in the command envelope, and never inspects
// ParseResult's argument at all.
type CommandDescription[T any] interface {
	// Method is the CDP wire method, e.g. "Page.navigate".
	Method() string
	// BuildRequest produces the command's "params" object.
	BuildRequest() (json.RawMessage, error)
	// ParseResult decodes a successful response's "result" object.
	ParseResult(result json.RawMessage) (T, error)
}
