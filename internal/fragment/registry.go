package fragment

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Registry is the owned, per-template table mapping a fragment name to its
// gateway-supplied Config. Descriptors are borrowed views over it: no
// package-level globals, unlike the source implementation's shared maps.
type Registry interface {
	// Lookup returns the fragment's Config, or ok=false if the gateway
	// does not expose this fragment (the Unfetched class).
	Lookup(ctx context.Context, name, from string) (cfg *Config, ok bool, err error)
}

// StaticRegistry is a Registry backed by an in-memory map, the shape used
// by tests and by the YAML-manifest-backed dev registry in
// internal/manifest.
type StaticRegistry struct {
	mu      sync.RWMutex
	configs map[string]*Config
}

// NewStaticRegistry builds a Registry pre-populated with the given
// name->Config table. A nil entry value means "name is known but
// unreachable" (still Unfetched).
func NewStaticRegistry(configs map[string]*Config) *StaticRegistry {
	if configs == nil {
		configs = make(map[string]*Config)
	}
	return &StaticRegistry{configs: configs}
}

// Lookup implements Registry.
func (r *StaticRegistry) Lookup(_ context.Context, name, _ string) (*Config, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	if !ok || cfg == nil {
		return nil, false, nil
	}
	return cfg, true, nil
}

// Set registers or replaces the Config for a fragment name.
func (r *StaticRegistry) Set(name string, cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[name] = cfg
}

var validate = validator.New()

// ValidateConfig checks a gateway-supplied Config against its struct tags,
// surfacing malformed metadata as a compile-time error rather than letting
// it silently degrade fragment rendering at request time.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("fragment: invalid config: %w", err)
	}
	return nil
}

// ValidateDescriptor checks a resolved Descriptor's required fields.
func ValidateDescriptor(d *Descriptor) error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("fragment: invalid descriptor %q: %w", d.Name, err)
	}
	return nil
}
