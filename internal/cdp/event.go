package cdp

// EventKind is an opaque type token identifying a decoded event's
// class (spec.md §3). Two DecodedEvents compare equal in kind iff
// subscribers for that kind should receive both. CDP events are keyed
// by their wire "method" string, which already has this property, so
// EventKind is simply that string.
type EventKind string

// UnknownEventKind is the distinguished sentinel kind for events whose
// method string has no registered decoder (spec.md §4.5, §9).
const UnknownEventKind EventKind = "*unknown*"

// DecodedEvent pairs an EventKind with its opaque payload, produced by
// a ParseEvent function injected from the protocol bindings.
type DecodedEvent struct {
	Kind    EventKind
	Payload any
}

// UnknownEvent is the payload carried by a DecodedEvent of kind
// UnknownEventKind: the raw method name and params for an event the
// registry has no typed decoder for. Callers must destructure this
// explicitly rather than reach for dynamic attribute access (spec.md
// §9's "tagged variant" redesign note).
type UnknownEvent struct {
	Method string
	Params []byte
}

// EventDecoder turns a raw params payload into a typed event value.
type EventDecoder func(params []byte) (any, error)

// Registry maps a CDP event "method" string to the decoder that
// produces its typed payload. Built explicitly by NewRegistry and
// injected into a Connection — never a package-level global (spec.md
// §9's "event class registry" redesign note).
type Registry struct {
	decoders map[string]EventDecoder
}

// NewRegistry creates an empty Registry. Protocol binding packages
// populate it via Register.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]EventDecoder)}
}

// Register adds a decoder for the given wire method name. Registering
// the same method twice overwrites the previous decoder.
func (r *Registry) Register(method string, decode EventDecoder) {
	r.decoders[method] = decode
}

// Decode parses a raw event frame's method/params into a DecodedEvent.
// A method with no registered decoder yields an UnknownEvent payload
// under UnknownEventKind, never an error.
func (r *Registry) Decode(method string, params []byte) (DecodedEvent, error) {
	decode, ok := r.decoders[method]
	if !ok {
		return DecodedEvent{
			Kind:    UnknownEventKind,
			Payload: UnknownEvent{Method: method, Params: params},
		}, nil
	}
	payload, err := decode(params)
	if err != nil {
		return DecodedEvent{}, err
	}
	return DecodedEvent{Kind: EventKind(method), Payload: payload}, nil
}
