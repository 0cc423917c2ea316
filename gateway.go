package fragmentgw

import (
	"net/url"

	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
)

// FragmentResponse is the gateway's answer to a content fetch: the partials
// it rendered, any page-model data, and — for primary fragments only — the
// upstream HTTP status/headers that get copied onto the outer response.
type FragmentResponse = gatewayiface.FragmentResponse

// GatewayClient is the upstream-facing collaborator consumed by this
// engine. It is an external interface by design: the transport, auth,
// retries, and upstream discovery are somebody else's concern.
// internal/gatewayclient ships one concrete net/http-based implementation.
//
//   - FetchConfig resolves the gateway-exposed metadata for a fragment.
//     ok=false (with err=nil) means the gateway does not expose this
//     fragment at all — the Unfetched class, not a transport failure.
//   - FetchPlaceholder fetches a chunked fragment's placeholder HTML. Any
//     non-2xx response or transport error must resolve to ("", nil).
//   - FetchContent fetches a fragment's rendered partials (and optional
//     model). A transport error or timeout must resolve to
//     &FragmentResponse{Status: 500, HTML: map[string]string{}} rather than
//     a non-nil error, so request-time failures never abort the response.
//   - FetchStatic fetches a named static asset body from the fragment's
//     gateway. Failures resolve to ("", nil).
type GatewayClient = gatewayiface.Client

// BuildQuery constructs the upstream query string from a fragment
// occurrence's attribute bag, dropping every reserved attribute
// (from|name|partial|primary|shouldwait) per the attribute-leak invariant.
func BuildQuery(attrs map[string]string) url.Values {
	q := url.Values{}
	for k, v := range attrs {
		if fragment.IsReservedAttribute(k) {
			continue
		}
		q.Set(k, v)
	}
	return q
}
