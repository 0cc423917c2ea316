package planner

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/livefir/fragmentgw/internal/compileerr"
	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
)

type fakeGateway struct {
	placeholder    string
	placeholderErr error
	contentByURL   map[string]*gatewayiface.FragmentResponse
	configByName   map[string]*fragment.Config
}

func (f *fakeGateway) FetchConfig(_ context.Context, name, _, _ string) (*fragment.Config, bool, error) {
	cfg, ok := f.configByName[name]
	return cfg, ok, nil
}

func (f *fakeGateway) FetchPlaceholder(context.Context, string) (string, error) {
	return f.placeholder, f.placeholderErr
}

func (f *fakeGateway) FetchContent(_ context.Context, fragmentURL string, _ fragment.RenderConfig, _ url.Values) (*gatewayiface.FragmentResponse, error) {
	if r, ok := f.contentByURL[fragmentURL]; ok {
		return r, nil
	}
	return &gatewayiface.FragmentResponse{Status: 500, HTML: map[string]string{}}, nil
}

func (f *fakeGateway) FetchStatic(context.Context, string, string) (string, error) { return "", nil }

func identityResolver(from string) string { return from }

func TestCompileNoTemplateRegionErrors(t *testing.T) {
	_, err := Compile(context.Background(), "demo", "<html></html>", Options{})
	if err != compileerr.ErrTemplateNotFound {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestCompileNoFragmentsYieldsWaitedOnlyShell(t *testing.T) {
	src := `<template><html><head></head><body><p>hi</p></body></html></template>`
	plan, err := Compile(context.Background(), "demo", src, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if plan.Mode != ModeWaitedOnly {
		t.Fatalf("Mode = %v, want ModeWaitedOnly", plan.Mode)
	}
	if !strings.Contains(plan.Shell, "<p>hi</p>") {
		t.Fatalf("shell missing body content: %s", plan.Shell)
	}
}

func TestCompileMultiplePrimaryFragmentsErrors(t *testing.T) {
	src := `<template><html><body>
		<fragment name="a" from="gw1" primary></fragment>
		<fragment name="b" from="gw1" primary></fragment>
	</body></html></template>`
	_, err := Compile(context.Background(), "demo", src, Options{
		Registry: fragment.NewStaticRegistry(nil),
	})
	if err == nil || !strings.Contains(err.Error(), compileerr.ErrMultiplePrimaryFragments.Error()) {
		t.Fatalf("expected MultiplePrimaryFragments error, got %v", err)
	}
}

func TestCompileUnfetchedFragmentGetsMarker(t *testing.T) {
	src := `<template><html><body><fragment name="missing" from="gw1"></fragment></body></html></template>`
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry: fragment.NewStaticRegistry(nil),
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(plan.Shell, "CONTENT_NOT_FOUND_ERROR") {
		t.Fatalf("expected unfetched marker in shell: %s", plan.Shell)
	}
	if len(plan.Waited) != 0 || len(plan.Chunked) != 0 {
		t.Fatalf("unfetched fragment should not appear in Waited/Chunked: %+v", plan)
	}
}

func TestCompileStaticFragmentIsInlinedAtCompileTime(t *testing.T) {
	src := `<template><html><body><fragment name="header" from="gw1"></fragment></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"header": {Render: fragment.RenderConfig{URL: "/render", Static: true}},
	})
	gw := &fakeGateway{
		contentByURL: map[string]*gatewayiface.FragmentResponse{
			"gw1": {Status: 200, HTML: map[string]string{"main": "<span>static</span>"}},
		},
	}
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:   reg,
		ResolveURL: identityResolver,
		Gateway:    gw,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(plan.Shell, "<span>static</span>") {
		t.Fatalf("expected static content inlined: %s", plan.Shell)
	}
	if len(plan.Waited) != 0 || len(plan.Chunked) != 0 {
		t.Fatalf("static fragment should not produce a ReplaceSet: %+v", plan)
	}
}

func TestCompileWaitedFragmentProducesSentinel(t *testing.T) {
	src := `<template><html><body><fragment name="header" from="gw1" shouldwait></fragment></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"header": {Render: fragment.RenderConfig{URL: "/render"}},
	})
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:   reg,
		ResolveURL: identityResolver,
		Gateway:    &fakeGateway{},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if plan.Mode != ModeWaitedOnly {
		t.Fatalf("Mode = %v, want ModeWaitedOnly", plan.Mode)
	}
	if len(plan.Waited) != 1 {
		t.Fatalf("expected one waited ReplaceSet, got %d", len(plan.Waited))
	}
	if !strings.Contains(plan.Shell, "{fragment|header_gw1_main}") {
		t.Fatalf("expected content sentinel in shell: %s", plan.Shell)
	}
	if !strings.Contains(plan.Shell, "{fragment|header_pageModel}") {
		t.Fatalf("expected page-model sentinel in shell: %s", plan.Shell)
	}
}

func TestCompileHeadFragmentIsAlwaysWaited(t *testing.T) {
	src := `<template><html><head><fragment name="meta" from="gw1"></fragment></head><body></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"meta": {Render: fragment.RenderConfig{URL: "/render"}},
	})
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:   reg,
		ResolveURL: identityResolver,
		Gateway:    &fakeGateway{},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(plan.Waited) != 1 {
		t.Fatalf("head fragment should force ShouldWait/Waited class, got plan=%+v", plan)
	}
}

func TestCompileChunkedFragmentSelectsModeChunked(t *testing.T) {
	src := `<template><html><head></head><body><fragment name="ticker" from="gw1"></fragment></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"ticker": {Render: fragment.RenderConfig{URL: "/render"}},
	})
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:   reg,
		ResolveURL: identityResolver,
		Gateway:    &fakeGateway{},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if plan.Mode != ModeChunked {
		t.Fatalf("Mode = %v, want ModeChunked", plan.Mode)
	}
	if len(plan.Chunked) != 1 {
		t.Fatalf("expected one chunked ReplaceSet, got %d", len(plan.Chunked))
	}
	if strings.HasSuffix(plan.Shell, "</body></html>") {
		t.Fatalf("chunked mode shell should have trailing tags stripped: %s", plan.Shell)
	}
	if !strings.Contains(plan.Shell, "fragmentgw-chunk-runtime.js") {
		t.Fatalf("expected chunk runtime script injected: %s", plan.Shell)
	}
}

func TestCompileChunkedWithPlaceholderBakesItIntoShell(t *testing.T) {
	src := `<template><html><body><fragment name="sidebar" from="gw1"></fragment></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"sidebar": {Render: fragment.RenderConfig{URL: "/render", Placeholder: true}},
	})
	gw := &fakeGateway{placeholder: "<div>loading</div>"}
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:   reg,
		ResolveURL: identityResolver,
		Gateway:    gw,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(plan.Shell, "loading") {
		t.Fatalf("expected placeholder content baked into shell: %s", plan.Shell)
	}
}

func TestCompilePrimaryFragmentIsRecorded(t *testing.T) {
	src := `<template><html><body><fragment name="header" from="gw1" primary></fragment></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"header": {Render: fragment.RenderConfig{URL: "/render"}},
	})
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:   reg,
		ResolveURL: identityResolver,
		Gateway:    &fakeGateway{},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if plan.PrimaryFragment != "header" {
		t.Fatalf("PrimaryFragment = %q, want header", plan.PrimaryFragment)
	}
}

func TestCompileBundlesCSSAndRegistersRoute(t *testing.T) {
	src := `<template><html><head></head><body><fragment name="header" from="gw1" shouldwait></fragment></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"header": {
			Render: fragment.RenderConfig{URL: "/render"},
			Assets: []fragment.Asset{
				{Name: "header.css", Kind: fragment.AssetCSS, Content: "body{color:red}"},
			},
		},
	})
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:   reg,
		ResolveURL: identityResolver,
		Gateway:    &fakeGateway{},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if plan.StylesheetRoute == "" {
		t.Fatal("expected a stylesheet route to be registered")
	}
	if !strings.Contains(plan.Shell, plan.StylesheetRoute) {
		t.Fatalf("expected <link> referencing the route in shell: %s", plan.Shell)
	}
}

func TestCompileDebugBakesScaffolding(t *testing.T) {
	src := `<template><html><head></head><body><fragment name="header" from="gw1" shouldwait></fragment></body></html></template>`
	reg := fragment.NewStaticRegistry(map[string]*fragment.Config{
		"header": {Render: fragment.RenderConfig{URL: "/render"}},
	})
	plan, err := Compile(context.Background(), "demo", src, Options{
		Registry:           reg,
		ResolveURL:         identityResolver,
		Gateway:            &fakeGateway{},
		Debug:              true,
		DebuggerScriptPath: "/static/debugger.js",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(plan.Shell, "/static/debugger.js") {
		t.Fatalf("expected debugger script injected: %s", plan.Shell)
	}
	if !strings.Contains(plan.Shell, "PuzzleJs.fragments.set") {
		t.Fatalf("expected fragment registration script: %s", plan.Shell)
	}
	if !strings.Contains(plan.Shell, "PuzzleJs.analytics.end") {
		t.Fatalf("expected analytics-close script: %s", plan.Shell)
	}
}
