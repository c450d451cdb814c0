// Package runtime implements the Runtime.* slice of the CDP domain
// bindings: JavaScript evaluation and console/exception events.
package runtime

import (
	"encoding/json"

	"github.com/nugget/cdpmux/internal/cdp"
)

const (
	// EventConsoleAPICalled fires on console.log/warn/error/etc. calls
	// in the target's page context.
	EventConsoleAPICalled cdp.EventKind = "Runtime.consoleAPICalled"
	// EventExceptionThrown fires on an uncaught exception in the
	// target's page context.
	EventExceptionThrown cdp.EventKind = "Runtime.exceptionThrown"
)

// RemoteObject is a reference to a JavaScript value that was not
// returned by value (spec.md's Non-goals exclude deep object-graph
// traversal, so only the summary fields are modeled here).
type RemoteObject struct {
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype,omitempty"`
	ClassName   string          `json:"className,omitempty"`
	Description string          `json:"description,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
}

// ExceptionDetails describes a thrown or evaluation-time exception.
type ExceptionDetails struct {
	ExceptionID  int64        `json:"exceptionId"`
	Text         string       `json:"text"`
	LineNumber   int          `json:"lineNumber"`
	ColumnNumber int          `json:"columnNumber"`
	Exception    RemoteObject `json:"exception"`
}

// ConsoleAPICalledEvent is the payload of EventConsoleAPICalled.
type ConsoleAPICalledEvent struct {
	Type      string         `json:"type"`
	Args      []RemoteObject `json:"args"`
	Timestamp float64        `json:"timestamp"`
}

// ExceptionThrownEvent is the payload of EventExceptionThrown.
type ExceptionThrownEvent struct {
	Timestamp        float64          `json:"timestamp"`
	ExceptionDetails ExceptionDetails `json:"exceptionDetails"`
}

type evaluateParams struct {
	Expression    string `json:"expression"`
	ReturnByValue bool   `json:"returnByValue,omitempty"`
	AwaitPromise  bool   `json:"awaitPromise,omitempty"`
}

// EvaluateResult is the outcome of a Runtime.evaluate command.
type EvaluateResult struct {
	Result           RemoteObject      `json:"result"`
	ExceptionDetails *ExceptionDetails `json:"exceptionDetails,omitempty"`
}

type evaluateCommand struct {
	params evaluateParams
}

// Evaluate builds a Runtime.evaluate command for expression, returning
// its result by value and awaiting any returned promise — the common
// case for scripted page interaction.
func Evaluate(expression string) cdp.CommandDescription[EvaluateResult] {
	return evaluateCommand{params: evaluateParams{
		Expression:    expression,
		ReturnByValue: true,
		AwaitPromise:  true,
	}}
}

func (c evaluateCommand) Method() string { return "Runtime.evaluate" }

func (c evaluateCommand) BuildRequest() (json.RawMessage, error) {
	return json.Marshal(c.params)
}

func (c evaluateCommand) ParseResult(result json.RawMessage) (EvaluateResult, error) {
	var r EvaluateResult
	if err := json.Unmarshal(result, &r); err != nil {
		return EvaluateResult{}, err
	}
	return r, nil
}

// RegisterEvents adds this domain's event decoders to r.
func RegisterEvents(r *cdp.Registry) {
	r.Register(string(EventConsoleAPICalled), func(params []byte) (any, error) {
		var e ConsoleAPICalledEvent
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, err
		}
		return e, nil
	})
	r.Register(string(EventExceptionThrown), func(params []byte) (any, error) {
		var e ExceptionThrownEvent
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, err
		}
		return e, nil
	})
}
