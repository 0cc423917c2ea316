// Package stream implements the Streaming Request Handler: the Mode A
// (waited-only) and Mode B (chunked) request flows driven by a compiled
// planner.Plan.
package stream

import (
	"io"
	"net/http"
	"net/url"

	"github.com/livefir/fragmentgw/internal/gatewayiface"
	"github.com/livefir/fragmentgw/internal/observability"
	"github.com/livefir/fragmentgw/internal/pagehooks"
	"github.com/livefir/fragmentgw/internal/planner"
	"github.com/livefir/fragmentgw/internal/sentinel"
)

// Handler drives one compiled template's request-time behavior. A Handler
// is safe for concurrent use: Plan is immutable after compile, and every
// per-request scratch state lives on the stack of ServeHTTP's call tree.
type Handler struct {
	Plan    *planner.Plan
	Gateway gatewayiface.Client
	Hooks   pagehooks.Hooks
	Logger  observability.Logger
	// Debug wraps each streamed chunk in an HTML comment marker naming its
	// source fragment, the request-time half of debug mode (the head
	// debugger script and the closing analytics script are baked into the
	// shell at compile time instead, since neither varies per request).
	Debug bool
}

func (h *Handler) hooks() pagehooks.Hooks {
	if h.Hooks != nil {
		return h.Hooks
	}
	return pagehooks.Noop{}
}

func (h *Handler) logger() observability.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return observability.Discard()
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	hooks := h.hooks()
	hooks.OnRequest(r)
	defer hooks.OnResponseEnd()

	if h.Plan.Mode == planner.ModeChunked {
		h.serveChunked(w, r, hooks)
		return
	}
	h.serveWaitedOnly(w, r, hooks)
}

func (h *Handler) serveWaitedOnly(w http.ResponseWriter, r *http.Request, _ pagehooks.Hooks) {
	subs, status, headers := h.resolveWaited(r)

	copyHeaders(w.Header(), headers)
	if status == http.StatusMovedPermanently {
		w.WriteHeader(status)
		return
	}

	body := sentinel.SubstituteAll(h.Plan.Shell, subs)
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func copyHeaders(dst, src http.Header) {
	for k, values := range src {
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}

func toQuery(attrs map[string]string) url.Values {
	q := url.Values{}
	for k, v := range attrs {
		q.Set(k, v)
	}
	return q
}
