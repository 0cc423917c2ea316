package asset

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/livefir/fragmentgw/internal/domview"
	"github.com/livefir/fragmentgw/internal/fragment"
)

func TestScriptNodeExternal(t *testing.T) {
	n := ScriptNode(fragment.Asset{
		Name:        "analytics",
		InjectType:  fragment.InjectExternal,
		Link:        "/static/analytics.js",
		ExecuteType: fragment.ExecuteAsync,
	})
	out, err := domview.RenderNodes([]*html.Node{n})
	if err != nil {
		t.Fatalf("RenderNodes: %v", err)
	}
	if !strings.Contains(out, `src="/static/analytics.js"`) {
		t.Fatalf("missing src attribute: %s", out)
	}
	if !strings.Contains(out, "async") {
		t.Fatalf("missing async attribute: %s", out)
	}
}

func TestScriptNodeInline(t *testing.T) {
	n := ScriptNode(fragment.Asset{
		Name:       "inline-init",
		InjectType: fragment.InjectInline,
		Content:    "window.x = 1;",
	})
	out, err := domview.RenderNodes([]*html.Node{n})
	if err != nil {
		t.Fatalf("RenderNodes: %v", err)
	}
	if !strings.Contains(out, "window.x = 1;") {
		t.Fatalf("missing inline content: %s", out)
	}
}

func TestScriptNodeUnknownInjectTypeYieldsComment(t *testing.T) {
	n := ScriptNode(fragment.Asset{Name: "mystery", InjectType: "bogus"})
	if n.Type != html.CommentNode {
		t.Fatalf("expected a comment node for unknown inject type, got %v", n.Type)
	}
	if !strings.Contains(n.Data, "UNKNOWN_INJECT_TYPE") {
		t.Fatalf("comment missing marker: %q", n.Data)
	}
}

func TestClassifyBucketsAndHeadInjection(t *testing.T) {
	doc, err := domview.Parse(`<html><head></head><body></body></html>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	assets := []fragment.Asset{
		{Name: "head-script", Kind: fragment.AssetJS, Location: fragment.LocationHead, InjectType: fragment.InjectInline, Content: "1"},
		{Name: "body-start-script", Kind: fragment.AssetJS, Location: fragment.LocationBodyStart, InjectType: fragment.InjectInline, Content: "2"},
		{Name: "content-start-script", Kind: fragment.AssetJS, Location: fragment.LocationContentStart, InjectType: fragment.InjectInline, Content: "3"},
		{Name: "content-end-script", Kind: fragment.AssetJS, Location: fragment.LocationContentEnd, InjectType: fragment.InjectInline, Content: "4"},
		{Name: "body-end-script", Kind: fragment.AssetJS, Location: fragment.LocationBodyEnd, InjectType: fragment.InjectInline, Content: "5"},
		{Name: "some.css", Kind: fragment.AssetCSS, Location: fragment.LocationHead},
	}

	seen := map[string]bool{}
	buckets, warnings := Classify(doc, assets, seen)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(buckets.ContentStart) != 1 || len(buckets.ContentEnd) != 1 || len(buckets.BodyEnd) != 1 {
		t.Fatalf("unexpected bucket sizes: %+v", buckets)
	}

	out, err := domview.Render(doc.Root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "head-script") || !strings.Contains(out, "body-start-script") {
		t.Fatalf("head/body-start assets not injected: %s", out)
	}
	if strings.Contains(out, "content-start-script") {
		t.Fatalf("content-start asset should not be injected directly: %s", out)
	}
}

func TestClassifyDedupesBySeen(t *testing.T) {
	doc, err := domview.Parse(`<html><head></head><body></body></html>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	seen := map[string]bool{"dup": true}
	buckets, _ := Classify(doc, []fragment.Asset{
		{Name: "dup", Kind: fragment.AssetJS, Location: fragment.LocationHead, InjectType: fragment.InjectInline},
	}, seen)
	if len(buckets.ContentStart)+len(buckets.ContentEnd)+len(buckets.BodyEnd) != 0 {
		t.Fatalf("expected no buckets for a head asset, got %+v", buckets)
	}
	out, err := domview.Render(doc.Root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "puzzle-dependency=\"dup\"") {
		t.Fatalf("already-seen asset should not be re-injected: %s", out)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML([]fragment.Asset{
		{Name: "a", InjectType: fragment.InjectInline, Content: "x"},
	})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(out, "puzzle-dependency=\"a\"") {
		t.Fatalf("missing asset name: %s", out)
	}
}

func TestMapDependencyResolver(t *testing.T) {
	r := MapDependencyResolver{
		"shared": fragment.Asset{Name: "shared", InjectType: fragment.InjectInline, Content: "s"},
	}
	a, ok := r.Resolve("shared")
	if !ok || a.Name != "shared" {
		t.Fatalf("Resolve(shared) = %+v, %v", a, ok)
	}
	if _, ok := r.Resolve("missing"); ok {
		t.Fatal("Resolve(missing) should report false")
	}
}

func TestInjectDependenciesSkipsUnknownAndDuplicate(t *testing.T) {
	doc, err := domview.Parse(`<html><head></head><body></body></html>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	resolver := MapDependencyResolver{
		"known": fragment.Asset{Name: "known", InjectType: fragment.InjectInline, Content: "k"},
	}
	seen := map[string]bool{}
	InjectDependencies(doc, []string{"known", "unknown", "known"}, resolver, seen)

	out, err := domview.Render(doc.Root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Count(out, "puzzle-dependency=\"known\"") != 1 {
		t.Fatalf("expected exactly one injection of a known dependency, got: %s", out)
	}
	if !seen["known"] {
		t.Fatal("seen map should be updated for known dependency")
	}
}
