package gatewayclient

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
)

type fakeClient struct {
	gotName, gotFrom, gotURL string
	cfg                      *fragment.Config
	ok                       bool
}

func (f *fakeClient) FetchConfig(_ context.Context, name, from, fragmentURL string) (*fragment.Config, bool, error) {
	f.gotName, f.gotFrom, f.gotURL = name, from, fragmentURL
	return f.cfg, f.ok, nil
}

func (f *fakeClient) FetchPlaceholder(context.Context, string) (string, error) { return "", nil }

func (f *fakeClient) FetchContent(context.Context, string, fragment.RenderConfig, url.Values) (*gatewayiface.FragmentResponse, error) {
	return &gatewayiface.FragmentResponse{Status: http.StatusOK, HTML: map[string]string{}}, nil
}

func (f *fakeClient) FetchStatic(context.Context, string, string) (string, error) { return "", nil }

func TestRegistryLookupResolvesURLAndDelegates(t *testing.T) {
	client := &fakeClient{cfg: &fragment.Config{Render: fragment.RenderConfig{URL: "/render"}}, ok: true}
	resolve := func(from string) string { return "http://resolved/" + from }

	reg := NewRegistry(client, resolve)
	cfg, ok, err := reg.Lookup(context.Background(), "header", "gw1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || cfg == nil {
		t.Fatalf("expected found config, got ok=%v cfg=%v", ok, cfg)
	}
	if client.gotName != "header" || client.gotFrom != "gw1" || client.gotURL != "http://resolved/gw1" {
		t.Fatalf("unexpected delegate args: name=%q from=%q url=%q", client.gotName, client.gotFrom, client.gotURL)
	}
}
