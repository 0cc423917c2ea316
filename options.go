package fragmentgw

// compileConfig accumulates every CompileOption before a single Compile
// call resolves its defaults and builds the plan.
type compileConfig struct {
	registry               Registry
	resolveURL             URLResolver
	gateway                GatewayClient
	dependencies           DependencyResolver
	routes                 RouteRegistrar
	logger                 Logger
	hooks                  Hooks
	debug                  bool
	debuggerScriptPath     string
	chunkRuntimeScriptPath string
}

// CompileOption configures a single Compile call.
type CompileOption func(*compileConfig) error

// WithGatewayClient supplies the upstream HTTP client Compile and the
// request handler use to fetch fragment content and chunked placeholders.
// Asset bodies come from each fragment's Config and are not fetched through
// it. Defaults to internal/gatewayclient's plain net/http implementation.
func WithGatewayClient(c GatewayClient) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.gateway = c
		return nil
	}
}

// WithRegistry supplies the fragment config registry. Defaults to an empty
// StaticRegistry, under which every declared fragment resolves Unfetched —
// most callers will want NewGatewayRegistry or a manifest-backed registry.
func WithRegistry(r Registry) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.registry = r
		return nil
	}
}

// WithURLResolver supplies the gateway-id -> base-URL mapping. Defaults to
// the identity function, under which a fragment's "from" attribute is
// itself treated as a full base URL.
func WithURLResolver(resolve URLResolver) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.resolveURL = resolve
		return nil
	}
}

// WithDependencyResolver supplies the shared-dependency lookup table the
// Dependency Injector uses to resolve Config.Dependencies entries.
func WithDependencyResolver(r DependencyResolver) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.dependencies = r
		return nil
	}
}

// WithRouteRegistrar supplies where the Stylesheet Bundler registers its
// one-shot static CSS route, and where the chunked runtime script (if
// served locally) would be mounted by the caller.
func WithRouteRegistrar(r RouteRegistrar) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.routes = r
		return nil
	}
}

// WithLogger supplies the structured logger for compile- and request-time
// diagnostics. Defaults to a discarding logger.
func WithLogger(l Logger) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithHooks supplies the page lifecycle adapter. Defaults to NoopHooks.
func WithHooks(h Hooks) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.hooks = h
		return nil
	}
}

// WithDebug bakes the debugger script (loaded from debuggerScriptPath) and
// the analytics scaffolding into the compiled shell, and wraps every
// streamed chunk in an HTML comment marker naming its source fragment.
func WithDebug(debuggerScriptPath string) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.debug = true
		cfg.debuggerScriptPath = debuggerScriptPath
		return nil
	}
}

// WithChunkRuntimeScriptPath overrides the one-time client-side
// content-replace script injected into <head> the first time a chunked
// fragment is seen. Defaults to "/static/fragmentgw-chunk-runtime.js".
func WithChunkRuntimeScriptPath(path string) CompileOption {
	return func(cfg *compileConfig) error {
		cfg.chunkRuntimeScriptPath = path
		return nil
	}
}
