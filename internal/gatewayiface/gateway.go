// Package gatewayiface defines the upstream gateway contract shared between
// the root package's public API and the internal planner/stream packages,
// without either importing the other and creating a cycle.
package gatewayiface

import (
	"context"
	"net/http"
	"net/url"

	"github.com/livefir/fragmentgw/internal/fragment"
)

// FragmentResponse is the gateway's answer to a content fetch.
type FragmentResponse struct {
	Status  int
	Headers http.Header
	HTML    map[string]string
	Model   map[string]interface{}
}

// Client is the upstream-facing collaborator this engine consumes. See
// the root package's GatewayClient (a type alias of this) for the full
// contract documentation.
type Client interface {
	FetchConfig(ctx context.Context, name, from, fragmentURL string) (cfg *fragment.Config, ok bool, err error)
	FetchPlaceholder(ctx context.Context, fragmentURL string) (string, error)
	FetchContent(ctx context.Context, fragmentURL string, render fragment.RenderConfig, query url.Values) (*FragmentResponse, error)
	FetchStatic(ctx context.Context, fragmentURL, fileName string) (string, error)
}
