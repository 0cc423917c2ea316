package fragmentgw

import "github.com/livefir/fragmentgw/internal/compileerr"

// Compile-time errors. These surface as failures of Compile itself; they
// never occur once a template has been compiled successfully.
var (
	// ErrTemplateNotFound is returned when the source text carries no
	// <template>…</template> region.
	ErrTemplateNotFound = compileerr.ErrTemplateNotFound

	// ErrMultiplePrimaryFragments is returned when two distinct fragment
	// names both carry the primary attribute.
	ErrMultiplePrimaryFragments = compileerr.ErrMultiplePrimaryFragments
)

// Request-time failures never abort a response; every recoverable
// request-time failure degrades to a safe textual substitute.
// These constants name that taxonomy; the engine's log calls do not
// reference them.
const (
	errTagUpstreamFailure   = "FRAGMENT_UPSTREAM_FAILURE"
	errTagAssetFetch        = "ASSET_FETCH_FAILURE"
	errTagPlaceholderFetch  = "PLACEHOLDER_FETCH_FAILURE"
	errTagUnknownInjectType = "UNKNOWN_INJECT_TYPE"
)

// contentNotFoundMarker is substituted for any missing partial key in a
// fragment's response, or for a fragment whose upstream fetch failed or
// timed out entirely.
const contentNotFoundMarker = "CONTENT_NOT_FOUND_ERROR"
