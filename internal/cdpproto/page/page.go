// Package page implements the Page.* slice of the CDP domain bindings:
// navigation and load-lifecycle events.
package page

import (
	"encoding/json"

	"github.com/nugget/cdpmux/internal/cdp"
)

// FrameID identifies a frame within a page.
type FrameID string

const (
	// EventFrameNavigated fires once per committed navigation, for the
	// main frame and every subframe.
	EventFrameNavigated cdp.EventKind = "Page.frameNavigated"
	// EventLoadEventFired fires once the page's load event has run.
	EventLoadEventFired cdp.EventKind = "Page.loadEventFired"
)

// Frame is the subset of Page.frameNavigated's frame object this
// module cares about.
type Frame struct {
	ID       FrameID `json:"id"`
	ParentID FrameID `json:"parentId,omitempty"`
	URL      string  `json:"url"`
	MimeType string  `json:"mimeType"`
}

// FrameNavigatedEvent is the payload of EventFrameNavigated.
type FrameNavigatedEvent struct {
	Frame Frame `json:"frame"`
}

// LoadEventFiredEvent is the payload of EventLoadEventFired.
type LoadEventFiredEvent struct {
	Timestamp float64 `json:"timestamp"`
}

type navigateParams struct {
	URL string `json:"url"`
}

// NavigateResult is the outcome of a Page.navigate command.
type NavigateResult struct {
	FrameID   FrameID `json:"frameId"`
	ErrorText string  `json:"errorText,omitempty"`
}

type navigateCommand struct {
	params navigateParams
}

// Navigate builds a Page.navigate command targeting url.
func Navigate(url string) cdp.CommandDescription[NavigateResult] {
	return navigateCommand{params: navigateParams{URL: url}}
}

func (c navigateCommand) Method() string { return "Page.navigate" }

func (c navigateCommand) BuildRequest() (json.RawMessage, error) {
	return json.Marshal(c.params)
}

func (c navigateCommand) ParseResult(result json.RawMessage) (NavigateResult, error) {
	var r NavigateResult
	if err := json.Unmarshal(result, &r); err != nil {
		return NavigateResult{}, err
	}
	return r, nil
}

type enableCommand struct{}

// Enable builds a Page.enable command. Page events are not delivered
// until a session has enabled the domain.
func Enable() cdp.CommandDescription[struct{}] { return enableCommand{} }

func (enableCommand) Method() string                             { return "Page.enable" }
func (enableCommand) BuildRequest() (json.RawMessage, error)      { return json.RawMessage("{}"), nil }
func (enableCommand) ParseResult(json.RawMessage) (struct{}, error) {
	return struct{}{}, nil
}

// RegisterEvents adds this domain's event decoders to r.
func RegisterEvents(r *cdp.Registry) {
	r.Register(string(EventFrameNavigated), func(params []byte) (any, error) {
		var e FrameNavigatedEvent
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, err
		}
		return e, nil
	})
	r.Register(string(EventLoadEventFired), func(params []byte) (any, error) {
		var e LoadEventFiredEvent
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, err
		}
		return e, nil
	})
}
