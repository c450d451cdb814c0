// Package cdpproto composes the per-domain event registrations
// (target, page, runtime; dom contributes no events) into one
// injectable cdp.Registry, the explicit replacement for the original
// implementation's package-level event-parser dict (spec.md §9).
package cdpproto

import (
	"github.com/nugget/cdpmux/internal/cdp"
	"github.com/nugget/cdpmux/internal/cdpproto/page"
	"github.com/nugget/cdpmux/internal/cdpproto/runtime"
	"github.com/nugget/cdpmux/internal/cdpproto/target"
)

// NewRegistry builds a cdp.Registry with every bundled domain's event
// decoders registered. Callers who only need a subset of domains can
// instead call cdp.NewRegistry() and the individual RegisterEvents
// functions directly.
func NewRegistry() *cdp.Registry {
	r := cdp.NewRegistry()
	target.RegisterEvents(r)
	page.RegisterEvents(r)
	runtime.RegisterEvents(r)
	return r
}
