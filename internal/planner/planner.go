// Package planner implements the Template Compiler / Planner: it parses a
// template's <template> region into a DOM, classifies every declared
// fragment occurrence, rewrites the DOM into sentinel tokens and
// placeholders, drives the Asset Planner/Dependency Injector/Stylesheet
// Bundler over the mutated document, and serializes the result into a
// CompiledShell plus the ReplaceSets the streaming handler drives at
// request time.
package planner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/livefir/fragmentgw/internal/asset"
	"github.com/livefir/fragmentgw/internal/compileerr"
	"github.com/livefir/fragmentgw/internal/domview"
	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
	"github.com/livefir/fragmentgw/internal/observability"
	"github.com/livefir/fragmentgw/internal/stylesheet"
)

// Mode selects which of the two request-handling strategies a compiled
// template needs.
type Mode int

const (
	// ModeWaitedOnly is chosen when the template has no chunked fragments:
	// the entire response is assembled in a single flush.
	ModeWaitedOnly Mode = iota
	// ModeChunked is chosen when at least one fragment streams after the
	// first flush.
	ModeChunked
)

func (m Mode) String() string {
	if m == ModeChunked {
		return "chunked"
	}
	return "waited-only"
}

// Plan is everything the streaming request handler needs, produced once at
// compile time and reused, unmutated, across every request.
type Plan struct {
	Mode Mode

	// Shell is the serialized, sentinel-bearing document. In ModeWaitedOnly
	// it is the complete document. In ModeChunked the trailing
	// "</body></html>" has already been stripped at compile time, since
	// that suffix is a fixed, request-independent constant either way —
	// stream.Handler appends BodyEndHTML and the closing tags itself once
	// every chunked fetch has completed.
	Shell string

	// Waited holds one ReplaceSet per Waited-class fragment, in descriptor
	// iteration order.
	Waited []fragment.ReplaceSet

	// Chunked holds one ReplaceSet per Chunked-class fragment, in
	// descriptor iteration order.
	Chunked []fragment.ReplaceSet

	// PrimaryFragment is the name of the fragment whose upstream response
	// dictates outer status/headers, or "" if none was declared primary.
	PrimaryFragment string

	// BodyEndHTML is the serialized BODY_END asset scripts collected
	// across every fragment, in descriptor iteration order. ModeWaitedOnly
	// has already baked this into Shell before </body>; ModeChunked holds
	// it here for stream.Handler to emit after the last chunk.
	BodyEndHTML string

	// StylesheetRoute is the registered static route serving the bundled,
	// minified CSS, or "" if no fragment contributed any CSS.
	StylesheetRoute string
}

// Options configures a single Compile call.
type Options struct {
	// Registry resolves each descriptor's gateway-supplied Config.
	Registry fragment.Registry
	// ResolveURL maps a gateway id ("from") to its base URL.
	ResolveURL fragment.URLResolver
	// Gateway fetches static content and chunked placeholders at compile
	// time. Required whenever the template declares any fragment at all.
	Gateway gatewayiface.Client
	// Dependencies resolves shared dependency names declared in a
	// fragment's Config.Dependencies into injectable assets. Optional.
	Dependencies asset.DependencyResolver
	// Routes registers the stylesheet bundle's static route. Optional —
	// when nil, the bundle is still computed but no route is served.
	Routes stylesheet.Registrar
	// Logger receives compile-time diagnostics for recoverable failures
	// (config lookup, static content fetch, placeholder fetch, unknown
	// inject type).
	Logger observability.Logger
	// Debug bakes the debugger script into <head> and the analytics-close
	// script before </body> at compile time.
	Debug bool
	// DebuggerScriptPath is the <script src="..."> for debug mode.
	DebuggerScriptPath string
	// ChunkRuntimeScriptPath is the one-time client-side content-replace
	// script appended to <head> the first time any chunked fragment is
	// seen. Defaults to "/static/fragmentgw-chunk-runtime.js" when empty.
	ChunkRuntimeScriptPath string
}

func (o Options) logger() observability.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return observability.Discard()
}

const defaultChunkRuntimeScriptPath = "/static/fragmentgw-chunk-runtime.js"

var (
	templateRegionRe = regexp.MustCompile(`(?is)<template[^>]*>(.*)</template>`)
	scriptRegionRe   = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	pageClassNameRe  = regexp.MustCompile(`class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
)

// Compile parses source, resolves and classifies every declared fragment,
// rewrites the DOM, and serializes the resulting Plan. templateName
// identifies the compiled shell for stylesheet route naming and debug
// diagnostics.
func Compile(ctx context.Context, templateName, source string, opts Options) (*Plan, error) {
	region := templateRegionRe.FindStringSubmatch(source)
	if region == nil {
		return nil, compileerr.ErrTemplateNotFound
	}

	if m := scriptRegionRe.FindString(source); m != "" {
		if cls := pageClassNameRe.FindStringSubmatch(m); len(cls) == 2 {
			opts.logger().Debug("planner: found sibling script block", "template", templateName, "class", cls[1])
		}
	}

	doc, err := domview.Parse(region[1])
	if err != nil {
		return nil, fmt.Errorf("fragmentgw: parse template %q: %w", templateName, err)
	}

	descriptors, occurrences, order, err := walkFragments(doc)
	if err != nil {
		return nil, err
	}

	if len(order) == 0 {
		domview.NormalizeEmptyTags(doc.Root)
		shell, err := domview.Render(doc.Root)
		if err != nil {
			return nil, fmt.Errorf("fragmentgw: render %q: %w", templateName, err)
		}
		return &Plan{Mode: ModeWaitedOnly, Shell: shell}, nil
	}

	for _, name := range order {
		d := descriptors[name]
		cfg, ok, lookupErr := opts.Registry.Lookup(ctx, d.Name, d.From)
		if lookupErr != nil {
			opts.logger().Warn("planner: config lookup failed", "fragment", d.Name, "error", lookupErr)
			continue
		}
		if ok {
			d.Config = cfg
		}
	}

	plan := &Plan{}
	depSeen := map[string]bool{}
	headScriptSeen := map[string]bool{}
	chunkRuntimeInjected := false
	var bodyEndHTML []string
	var cssBlocks []string

	for _, name := range order {
		d := descriptors[name]
		if d.Primary {
			plan.PrimaryFragment = d.Name
		}

		occs := occurrences[name]
		class := classify(d)

		var buckets asset.Buckets
		if d.Config != nil {
			var warnings []string
			buckets, warnings = asset.Classify(doc, d.Config.Assets, headScriptSeen)
			for _, w := range warnings {
				opts.logger().Warn("planner: unknown inject type", "fragment", d.Name, "asset", w)
			}
			if rendered, err := asset.RenderHTML(buckets.BodyEnd); err == nil && rendered != "" {
				bodyEndHTML = append(bodyEndHTML, rendered)
			}
			for _, a := range d.Config.Assets {
				if a.Kind == fragment.AssetCSS {
					cssBlocks = append(cssBlocks, a.Content)
				}
			}
			if opts.Dependencies != nil {
				asset.InjectDependencies(doc, d.Config.Dependencies, opts.Dependencies, depSeen)
			}
		}

		fragURL := ""
		if opts.ResolveURL != nil {
			fragURL = opts.ResolveURL(d.From)
		}

		switch class {
		case fragment.ClassWaited:
			rs := rewriteWaited(doc, d, occs, buckets)
			rs.FragmentURL = fragURL
			if d.Config != nil {
				rs.Render = d.Config.Render
			}
			plan.Waited = append(plan.Waited, rs)

		case fragment.ClassChunked:
			if !chunkRuntimeInjected {
				injectChunkRuntimeScript(doc, opts.ChunkRuntimeScriptPath)
				chunkRuntimeInjected = true
			}
			rs := rewriteChunked(ctx, doc, d, occs, buckets, opts)
			rs.FragmentURL = fragURL
			if d.Config != nil {
				rs.Render = d.Config.Render
			}
			plan.Chunked = append(plan.Chunked, rs)

		case fragment.ClassStatic:
			rewriteStatic(ctx, doc, d, occs, buckets, fragURL, opts)

		default: // ClassUnfetched
			rewriteUnfetched(doc, d, occs)
		}
	}

	link, route, err := stylesheet.Bundle(templateName, stylesheet.CollectCSS(cssBlocks), opts.Routes)
	if err != nil {
		return nil, fmt.Errorf("fragmentgw: stylesheet bundle: %w", err)
	}
	if link != "" {
		if head := doc.Head(); head != nil {
			if nodes, err := domview.ParseFragmentNodes(link, head); err == nil {
				for _, n := range nodes {
					domview.AppendChild(head, n)
				}
			}
		}
		plan.StylesheetRoute = route
	}

	if opts.Debug {
		injectDebugScaffolding(doc, opts.DebuggerScriptPath, order)
	}

	plan.BodyEndHTML = strings.Join(bodyEndHTML, "")

	if len(plan.Chunked) > 0 {
		plan.Mode = ModeChunked
	} else {
		plan.Mode = ModeWaitedOnly
		if body := doc.Body(); body != nil && plan.BodyEndHTML != "" {
			if nodes, err := domview.ParseFragmentNodes(plan.BodyEndHTML, body); err == nil {
				for _, n := range nodes {
					domview.AppendChild(body, n)
				}
			}
		}
	}

	domview.NormalizeEmptyTags(doc.Root)
	shell, err := domview.Render(doc.Root)
	if err != nil {
		return nil, fmt.Errorf("fragmentgw: render %q: %w", templateName, err)
	}

	if plan.Mode == ModeChunked {
		shell = strings.TrimSuffix(shell, "</body></html>")
	}
	plan.Shell = shell

	return plan, nil
}

func classify(d *fragment.Descriptor) fragment.Class {
	if d.Config == nil {
		return fragment.ClassUnfetched
	}
	if d.Config.Render.Static {
		return fragment.ClassStatic
	}
	if d.ShouldWait {
		return fragment.ClassWaited
	}
	return fragment.ClassChunked
}

func injectChunkRuntimeScript(doc *domview.DOM, path string) {
	if path == "" {
		path = defaultChunkRuntimeScriptPath
	}
	head := doc.Head()
	if head == nil {
		return
	}
	domview.AppendChild(head, domview.NewElement("script", map[string]string{"src": path}))
}

func injectDebugScaffolding(doc *domview.DOM, debuggerLink string, names []string) {
	if head := doc.Head(); head != nil {
		if debuggerLink != "" {
			domview.AppendChild(head, domview.NewElement("script", map[string]string{"src": debuggerLink}))
		}
		pairs := make([]string, len(names))
		for i, n := range names {
			pairs[i] = fmt.Sprintf("%q:true", n)
		}
		setScript := domview.NewElement("script", nil)
		setScript.AppendChild(domview.NewText(fmt.Sprintf("PuzzleJs.fragments.set({%s});", strings.Join(pairs, ","))))
		domview.AppendChild(head, setScript)
	}
	if body := doc.Body(); body != nil {
		closer := domview.NewElement("script", nil)
		closer.AppendChild(domview.NewText("PuzzleJs.analytics.end(); PuzzleJs.variables.end();"))
		domview.AppendChild(body, closer)
	}
}
