package fragmentgw

import (
	"context"
	"net/http"

	"github.com/livefir/fragmentgw/internal/gatewayclient"
	"github.com/livefir/fragmentgw/internal/planner"
	"github.com/livefir/fragmentgw/internal/stream"
)

// CompiledTemplate is the result of Compile: an immutable Plan plus the
// collaborators its request handler needs (gateway client, hooks, logger).
// A *CompiledTemplate is safe to serve from many goroutines.
type CompiledTemplate struct {
	plan    *planner.Plan
	gateway GatewayClient
	hooks   Hooks
	logger  Logger
	debug   bool
}

// Handler returns the request handler for this compiled template, driving
// whichever of Mode A (waited-only) or Mode B (chunked) was selected at
// compile time.
func (c *CompiledTemplate) Handler() http.HandlerFunc {
	h := &stream.Handler{
		Plan:    c.plan,
		Gateway: c.gateway,
		Hooks:   c.hooks,
		Logger:  c.logger,
		Debug:   c.debug,
	}
	return h.ServeHTTP
}

// Chunked reports whether this compiled template streams any fragment
// after the first flush (Mode B), as opposed to resolving entirely into a
// single response (Mode A).
func (c *CompiledTemplate) Chunked() bool {
	return c.plan.Mode == planner.ModeChunked
}

// StylesheetRoute returns the static route serving this template's
// bundled, minified CSS, or "" if no fragment contributed any.
func (c *CompiledTemplate) StylesheetRoute() string {
	return c.plan.StylesheetRoute
}

// Compile parses and plans a template's source text, consuming opts to
// wire its gateway client, fragment registry, dependency resolver, route
// registrar, hooks, and logger. templateName identifies the template for
// stylesheet route naming and diagnostics.
func Compile(ctx context.Context, templateName, source string, opts ...CompileOption) (*CompiledTemplate, error) {
	cfg := &compileConfig{hooks: NoopHooks{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.gateway == nil {
		cfg.gateway = gatewayclient.New()
	}
	if cfg.registry == nil {
		cfg.registry = NewStaticRegistry(nil)
	}
	if cfg.resolveURL == nil {
		cfg.resolveURL = func(from string) string { return from }
	}

	plan, err := planner.Compile(ctx, templateName, source, planner.Options{
		Registry:               cfg.registry,
		ResolveURL:             cfg.resolveURL,
		Gateway:                cfg.gateway,
		Dependencies:           cfg.dependencies,
		Routes:                 cfg.routes,
		Logger:                 cfg.logger,
		Debug:                  cfg.debug,
		DebuggerScriptPath:     cfg.debuggerScriptPath,
		ChunkRuntimeScriptPath: cfg.chunkRuntimeScriptPath,
	})
	if err != nil {
		return nil, err
	}

	cfg.hooks.OnCreate()

	return &CompiledTemplate{
		plan:    plan,
		gateway: cfg.gateway,
		hooks:   cfg.hooks,
		logger:  cfg.logger,
		debug:   cfg.debug,
	}, nil
}
