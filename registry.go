package fragmentgw

import (
	"github.com/livefir/fragmentgw/internal/asset"
	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayclient"
)

// Registry resolves a fragment's gateway-supplied Config by name, the
// collaborator that joins FragmentDescriptors with their metadata and
// ultimately decides the Waited/Chunked/Static/Unfetched partition.
type Registry = fragment.Registry

// StaticRegistry is a Registry backed by a fixed in-memory table — the
// shape both tests and the YAML-manifest-backed dev registry use.
type StaticRegistry = fragment.StaticRegistry

// NewStaticRegistry builds a Registry pre-populated with the given
// name->Config table.
func NewStaticRegistry(configs map[string]*fragment.Config) *StaticRegistry {
	return fragment.NewStaticRegistry(configs)
}

// URLResolver maps a gateway id (a fragment's "from" attribute) to the
// base URL its content, placeholder, and static assets are fetched from.
type URLResolver = fragment.URLResolver

// DependencyResolver looks up the asset definition for a named shared
// dependency declared in a fragment's Config.Dependencies list.
type DependencyResolver = asset.DependencyResolver

// MapDependencyResolver is the simplest DependencyResolver: a fixed table
// of name -> Asset built once at wiring time.
type MapDependencyResolver = asset.MapDependencyResolver

// NewGatewayRegistry builds a Registry that resolves fragment config live,
// by calling client.FetchConfig against resolve(from) for each lookup —
// the production counterpart to a fixture-backed StaticRegistry.
func NewGatewayRegistry(client GatewayClient, resolve URLResolver) Registry {
	return gatewayclient.NewRegistry(client, resolve)
}
