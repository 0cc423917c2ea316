// Package asset implements the Asset Planner and Dependency Injector:
// classifying a fragment's declared JS assets by injection location and
// type, mutating <head>/<body> for head/body-start placements, and
// building the per-fragment content-start/content-end/body-end lists
// consumed later by the planner's DOM rewrite and by the chunk streamer.
package asset

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/livefir/fragmentgw/internal/domview"
	"github.com/livefir/fragmentgw/internal/fragment"
)

// Buckets holds one fragment's assets that are not resolved immediately at
// compile time into <head>/<body>, grouped by where they eventually land.
type Buckets struct {
	ContentStart []fragment.Asset
	ContentEnd   []fragment.Asset
	BodyEnd      []fragment.Asset
}

// execAttr returns the trailing script attribute text for an ExecuteType
// ("" for sync, " async", " defer").
func execAttr(e fragment.ExecuteType) string {
	switch e {
	case fragment.ExecuteAsync:
		return " async"
	case fragment.ExecuteDefer:
		return " defer"
	default:
		return ""
	}
}

// ScriptNode builds the DOM node for one JS asset. An unrecognized
// InjectType yields an HTML comment error marker instead of a script tag,
// per the UNKNOWN_INJECT_TYPE taxonomy entry — logged by the caller,
// inlined here as a harmless comment so the page still renders.
func ScriptNode(a fragment.Asset) *html.Node {
	switch a.InjectType {
	case fragment.InjectExternal:
		n := domview.NewElement("script", map[string]string{
			"puzzle-dependency": a.Name,
			"src":               a.Link,
			"type":              "text/javascript",
		})
		if attr := execAttr(a.ExecuteType); attr != "" {
			domview.SetAttr(n, attr[1:], "")
		}
		n.AppendChild(domview.NewText(" "))
		return n
	case fragment.InjectInline:
		n := domview.NewElement("script", map[string]string{
			"puzzle-dependency": a.Name,
			"type":              "text/javascript",
		})
		n.AppendChild(domview.NewText(a.Content))
		return n
	default:
		return &html.Node{
			Type: html.CommentNode,
			Data: fmt.Sprintf(" UNKNOWN_INJECT_TYPE: %s ", a.Name),
		}
	}
}

// Classify mutates doc's <head>/<body> for every HEAD/BODY_START asset
// (skipping names already present in seen, which the caller shares across
// the whole compile for dependency dedup), and returns the remaining
// per-location buckets for the caller to use at content-start/content-end/
// body-end positions. warnings lists asset names that used an unrecognized
// InjectType.
func Classify(doc *domview.DOM, assets []fragment.Asset, seen map[string]bool) (Buckets, []string) {
	var buckets Buckets
	var warnings []string

	for _, a := range assets {
		if a.Kind != fragment.AssetJS {
			continue // CSS is the Stylesheet Bundler's concern, not the Asset Planner's.
		}
		if a.InjectType != fragment.InjectExternal && a.InjectType != fragment.InjectInline {
			warnings = append(warnings, a.Name)
		}

		switch a.Location {
		case fragment.LocationHead:
			if seen[a.Name] {
				continue
			}
			seen[a.Name] = true
			if head := doc.Head(); head != nil {
				domview.AppendChild(head, ScriptNode(a))
			}
		case fragment.LocationBodyStart:
			if seen[a.Name] {
				continue
			}
			seen[a.Name] = true
			if body := doc.Body(); body != nil {
				domview.PrependChild(body, ScriptNode(a))
			}
		case fragment.LocationContentStart:
			buckets.ContentStart = append(buckets.ContentStart, a)
		case fragment.LocationContentEnd:
			buckets.ContentEnd = append(buckets.ContentEnd, a)
		case fragment.LocationBodyEnd:
			buckets.BodyEnd = append(buckets.BodyEnd, a)
		}
	}

	return buckets, warnings
}

// RenderNodes converts a bucket of assets into DOM nodes, in declared order.
func RenderNodes(assets []fragment.Asset) []*html.Node {
	nodes := make([]*html.Node, 0, len(assets))
	for _, a := range assets {
		nodes = append(nodes, ScriptNode(a))
	}
	return nodes
}

// RenderHTML converts a bucket of assets directly to an HTML string,
// convenient for the chunk streamer which builds chunk bodies as strings.
func RenderHTML(assets []fragment.Asset) (string, error) {
	return domview.RenderNodes(RenderNodes(assets))
}

// DependencyResolver looks up the asset definition for a named shared
// dependency declared in a fragment's Config.Dependencies list.
type DependencyResolver interface {
	Resolve(name string) (fragment.Asset, bool)
}

// MapDependencyResolver is the simplest DependencyResolver: a fixed table
// of name -> Asset, built once at application wiring time.
type MapDependencyResolver map[string]fragment.Asset

// Resolve implements DependencyResolver.
func (m MapDependencyResolver) Resolve(name string) (fragment.Asset, bool) {
	a, ok := m[name]
	return a, ok
}

// InjectDependencies appends every not-yet-seen dependency into <head>, in
// the order fragments were iterated over — the Dependency Injector. Names
// the resolver cannot find are silently skipped: a dangling dependency
// reference is a gateway metadata defect, not a reason to fail compilation.
func InjectDependencies(doc *domview.DOM, names []string, resolver DependencyResolver, seen map[string]bool) {
	if resolver == nil {
		return
	}
	head := doc.Head()
	if head == nil {
		return
	}
	for _, name := range names {
		if seen[name] {
			continue
		}
		asset, ok := resolver.Resolve(name)
		if !ok {
			continue
		}
		seen[name] = true
		domview.AppendChild(head, ScriptNode(asset))
	}
}
