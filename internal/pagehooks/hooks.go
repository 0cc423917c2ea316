// Package pagehooks defines the page lifecycle hook contract, shared
// between the root package's public Hooks type (a re-export of this) and
// the internal planner/stream packages, without creating an import cycle.
package pagehooks

import "net/http"

// Hooks is the statically-loaded lifecycle adapter a page can supply. See
// the root package's Hooks (a type alias of this) for the full contract
// rationale.
type Hooks interface {
	OnCreate()
	OnRequest(r *http.Request)
	OnChunk(html string)
	OnResponseEnd()
}

// Noop implements Hooks with no-op methods.
type Noop struct{}

func (Noop) OnCreate()              {}
func (Noop) OnRequest(*http.Request) {}
func (Noop) OnChunk(string)          {}
func (Noop) OnResponseEnd()          {}

var _ Hooks = Noop{}
