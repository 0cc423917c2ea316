package gatewayclient

import (
	"context"

	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
)

// Registry adapts a GatewayClient's live FetchConfig call into a
// fragment.Registry, resolving each fragment's base URL through Resolve
// before dispatching. This is the production registry; a
// fragment.StaticRegistry (as built by internal/manifest) is the
// fixture/dev-mode substitute for it.
type Registry struct {
	Client  gatewayiface.Client
	Resolve fragment.URLResolver
}

// NewRegistry builds a Registry backed by client, resolving fragment base
// URLs with resolve.
func NewRegistry(client gatewayiface.Client, resolve fragment.URLResolver) *Registry {
	return &Registry{Client: client, Resolve: resolve}
}

// Lookup implements fragment.Registry.
func (r *Registry) Lookup(ctx context.Context, name, from string) (*fragment.Config, bool, error) {
	url := r.Resolve(from)
	return r.Client.FetchConfig(ctx, name, from, url)
}

var _ fragment.Registry = (*Registry)(nil)
