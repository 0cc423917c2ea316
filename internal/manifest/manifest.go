// Package manifest loads a fixed table of fragment gateway configs from a
// YAML file, for local development and tests where standing up a real
// fragment gateway per-fragment isn't practical. This is a dev-mode
// substitute for gateway-exposed fragment metadata, the same shape a
// FragmentRegistry would otherwise fetch live — distinct from any
// process-wide configuration singleton governing the engine's own tunables.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/livefir/fragmentgw/internal/fragment"
)

// Document is the top-level shape of a manifest YAML file: one Config per
// fragment name.
type Document struct {
	Fragments map[string]fragment.Config `yaml:"fragments"`
}

// Load reads and parses a manifest YAML file from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses manifest YAML from an in-memory byte slice — the path tests
// use to avoid touching the filesystem.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	for name, cfg := range doc.Fragments {
		if err := fragment.ValidateConfig(&cfg); err != nil {
			return nil, fmt.Errorf("manifest: fragment %q: %w", name, err)
		}
	}
	return &doc, nil
}

// Registry builds a fragment.Registry backed by this manifest's table.
func (d *Document) Registry() *fragment.StaticRegistry {
	configs := make(map[string]*fragment.Config, len(d.Fragments))
	for name, cfg := range d.Fragments {
		cfgCopy := cfg
		configs[name] = &cfgCopy
	}
	return fragment.NewStaticRegistry(configs)
}
