package manifest

import (
	"context"
	"testing"
)

const sampleYAML = `
fragments:
  header:
    render:
      url: /render
      static: true
  sidebar:
    render:
      url: /render
      placeholder: true
`

func TestParseAndRegistry(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Fragments) != 2 {
		t.Fatalf("got %d fragments, want 2", len(doc.Fragments))
	}

	reg := doc.Registry()
	cfg, ok, err := reg.Lookup(context.Background(), "header", "gw1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || !cfg.Render.Static {
		t.Fatalf("expected header to be static, got %+v", cfg)
	}

	_, ok, err = reg.Lookup(context.Background(), "missing", "gw1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected unknown fragment to be Unfetched")
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	_, err := Parse([]byte(`
fragments:
  broken:
    render:
      static: true
`))
	if err == nil {
		t.Fatal("expected validation error for missing render.url")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/manifest.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
