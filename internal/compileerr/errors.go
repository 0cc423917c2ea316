// Package compileerr holds the compile-time error taxonomy shared between
// the root package's public sentinel errors and internal/planner, without
// either importing the other and creating a cycle.
package compileerr

import "errors"

var (
	// ErrTemplateNotFound is returned when the source text carries no
	// <template>…</template> region.
	ErrTemplateNotFound = errors.New("fragmentgw: TEMPLATE_NOT_FOUND")

	// ErrMultiplePrimaryFragments is returned when two distinct fragment
	// names both carry the primary attribute.
	ErrMultiplePrimaryFragments = errors.New("fragmentgw: MULTIPLE_PRIMARY_FRAGMENTS")
)
