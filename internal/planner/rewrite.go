package planner

import (
	"context"
	"net/url"

	"golang.org/x/net/html"

	"github.com/livefir/fragmentgw/internal/asset"
	"github.com/livefir/fragmentgw/internal/domview"
	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/sentinel"
)

// insertSequenceBefore inserts nodes, in order, immediately before ref.
func insertSequenceBefore(ref *html.Node, nodes []*html.Node) {
	cursor := ref
	for i := len(nodes) - 1; i >= 0; i-- {
		domview.InsertBefore(cursor, nodes[i])
		cursor = nodes[i]
	}
}

// insertSequenceAfter inserts nodes, in order, immediately after ref.
func insertSequenceAfter(ref *html.Node, nodes []*html.Node) {
	cursor := ref
	for _, n := range nodes {
		domview.InsertAfter(cursor, n)
		cursor = n
	}
}

func waitedContainer(name, from, partial string) *html.Node {
	return domview.NewElement("div", map[string]string{
		"id":               name,
		"puzzle-fragment":  name,
		"puzzle-gateway":   from,
		"fragment-partial": partial,
	})
}

// rewriteWaited replaces every occurrence of a Waited-class fragment with
// its content sentinel, wrapping non-head occurrences in a puzzle-fragment
// container, prefixing the first occurrence with the page-model sentinel,
// and bracketing the whole run with the fragment's content-start/
// content-end asset HTML.
func rewriteWaited(doc *domview.DOM, d *fragment.Descriptor, occs []occNode, buckets asset.Buckets) fragment.ReplaceSet {
	rs := fragment.ReplaceSet{Fragment: d.Name, Class: fragment.ClassWaited, From: d.From}

	head := doc.Head()
	var firstNode, lastNode *html.Node

	for i, oc := range occs {
		if oc.Occurrence.Partial == fragment.DefaultPartial {
			rs.FragmentAttributes = oc.Occurrence.Attributes
		}

		key := sentinel.WaitedContent(d.Name, d.From, oc.Occurrence.Partial)
		rs.ReplaceItems = append(rs.ReplaceItems, fragment.ReplaceItem{
			Type: fragment.ItemContent, Key: key, Partial: oc.Occurrence.Partial,
		})

		inHead := head != nil && domview.IsInside(oc.Node, head)
		var replacement *html.Node
		if inHead {
			replacement = domview.NewText(key)
		} else {
			replacement = waitedContainer(d.Name, d.From, oc.Occurrence.Partial)
			replacement.AppendChild(domview.NewText(key))
		}

		if i == 0 {
			modelKey := sentinel.ModelScript(d.Name)
			rs.ReplaceItems = append([]fragment.ReplaceItem{{Type: fragment.ItemModelScript, Key: modelKey}}, rs.ReplaceItems...)
			if inHead {
				domview.ReplaceWith(oc.Node, domview.NewText(modelKey), replacement)
			} else {
				replacement.InsertBefore(domview.NewText(modelKey), replacement.FirstChild)
				domview.ReplaceWith(oc.Node, replacement)
			}
		} else {
			domview.ReplaceWith(oc.Node, replacement)
		}

		if firstNode == nil {
			firstNode = replacement
		}
		lastNode = replacement
	}

	if firstNode != nil {
		insertSequenceBefore(firstNode, asset.RenderNodes(buckets.ContentStart))
	}
	if lastNode != nil {
		insertSequenceAfter(lastNode, asset.RenderNodes(buckets.ContentEnd))
	}

	return rs
}

func chunkedContainer(name, from, partial, chunkKey string, placeholderKey string) *html.Node {
	attrs := map[string]string{
		"id":               name,
		"puzzle-fragment":  name,
		"puzzle-gateway":   from,
		"fragment-partial": partial,
		"puzzle-chunk":     chunkKey,
	}
	if placeholderKey != "" {
		attrs["puzzle-placeholder"] = placeholderKey
	}
	return domview.NewElement("div", attrs)
}

// rewriteChunked replaces every occurrence of a Chunked-class fragment with
// its placeholder container, fetches and fills the placeholder body once
// (main partial only, when configured), and carries the fragment's
// content-start/content-end asset buckets on the returned ReplaceSet for
// the chunk streamer to render inline with the streamed chunk.
func rewriteChunked(ctx context.Context, doc *domview.DOM, d *fragment.Descriptor, occs []occNode, buckets asset.Buckets, opts Options) fragment.ReplaceSet {
	rs := fragment.ReplaceSet{
		Fragment:           d.Name,
		Class:              fragment.ClassChunked,
		From:               d.From,
		ContentStartAssets: buckets.ContentStart,
		ContentEndAssets:   buckets.ContentEnd,
	}

	wantsPlaceholder := d.Config != nil && d.Config.Render.Placeholder
	var placeholderContainer *html.Node

	for _, oc := range occs {
		if oc.Occurrence.Partial == fragment.DefaultPartial {
			rs.FragmentAttributes = oc.Occurrence.Attributes
		}

		chunkKey := sentinel.ChunkedKey(d.Name, oc.Occurrence.Partial)
		placeholderKey := ""
		if wantsPlaceholder && oc.Occurrence.Partial == fragment.DefaultPartial {
			placeholderKey = sentinel.PlaceholderKey(d.Name, oc.Occurrence.Partial)
			rs.ReplaceItems = append(rs.ReplaceItems, fragment.ReplaceItem{
				Type: fragment.ItemPlaceholder, Key: placeholderKey, Partial: oc.Occurrence.Partial,
			})
		}
		rs.ReplaceItems = append(rs.ReplaceItems, fragment.ReplaceItem{
			Type: fragment.ItemChunkedContent, Key: chunkKey, Partial: oc.Occurrence.Partial,
		})

		container := chunkedContainer(d.Name, d.From, oc.Occurrence.Partial, chunkKey, placeholderKey)
		domview.ReplaceWith(oc.Node, container)
		if placeholderKey != "" {
			placeholderContainer = container
		}
	}

	if wantsPlaceholder && placeholderContainer != nil && opts.Gateway != nil {
		fragURL := ""
		if opts.ResolveURL != nil {
			fragURL = opts.ResolveURL(d.From)
		}
		body, err := opts.Gateway.FetchPlaceholder(ctx, fragURL)
		if err != nil {
			opts.logger().Warn("planner: placeholder fetch failed", "fragment", d.Name, "error", err)
		} else if body != "" {
			if nodes, perr := domview.ParseFragmentNodes(body, placeholderContainer); perr == nil {
				for _, n := range nodes {
					domview.AppendChild(placeholderContainer, n)
				}
			}
		}
	}

	return rs
}

// rewriteStatic resolves a Static-class fragment's content at compile time
// and inlines it the same way rewriteWaited would, followed by the
// fragment's content-end asset scripts.
func rewriteStatic(ctx context.Context, doc *domview.DOM, d *fragment.Descriptor, occs []occNode, buckets asset.Buckets, fragURL string, opts Options) {
	partials := map[string]string{}
	if opts.Gateway != nil {
		main := mainOccurrence(occs)
		q := url.Values{}
		for k, v := range main.Occurrence.Attributes {
			q.Set(k, v)
		}
		fr, err := opts.Gateway.FetchContent(ctx, fragURL, d.Config.Render, q)
		if err != nil {
			opts.logger().Warn("planner: static content fetch failed", "fragment", d.Name, "error", err)
		} else if fr != nil {
			partials = fr.HTML
		}
	}

	head := doc.Head()
	var firstNode, lastNode *html.Node

	for _, oc := range occs {
		content, ok := partials[oc.Occurrence.Partial]
		if !ok {
			content = contentNotFoundMarkerForPlanner
		}

		inHead := head != nil && domview.IsInside(oc.Node, head)
		var replacement *html.Node
		if inHead {
			replacement = domview.NewText(content)
			domview.ReplaceWith(oc.Node, replacement)
		} else {
			container := waitedContainer(d.Name, d.From, oc.Occurrence.Partial)
			if nodes, err := domview.ParseFragmentNodes(content, container); err == nil {
				for _, n := range nodes {
					container.AppendChild(n)
				}
			} else {
				container.AppendChild(domview.NewText(content))
			}
			domview.ReplaceWith(oc.Node, container)
			replacement = container
		}

		if firstNode == nil {
			firstNode = replacement
		}
		lastNode = replacement
	}

	if firstNode != nil {
		insertSequenceBefore(firstNode, asset.RenderNodes(buckets.ContentStart))
	}
	if lastNode != nil {
		insertSequenceAfter(lastNode, asset.RenderNodes(buckets.ContentEnd))
	}
}

// contentNotFoundMarkerForPlanner mirrors the root package's
// CONTENT_NOT_FOUND_ERROR marker without importing it (the root package
// imports planner, so the reverse would cycle).
const contentNotFoundMarkerForPlanner = "CONTENT_NOT_FOUND_ERROR"

// rewriteUnfetched replaces every occurrence of an Unfetched-class fragment
// with the fixed "gateway did not expose this fragment" marker container.
func rewriteUnfetched(doc *domview.DOM, d *fragment.Descriptor, occs []occNode) {
	for _, oc := range occs {
		container := domview.NewElement("div", map[string]string{
			"puzzle-fragment": d.Name,
			"puzzle-gateway":  d.From,
		})
		container.AppendChild(domview.NewText(contentNotFoundMarkerForPlanner))
		domview.ReplaceWith(oc.Node, container)
	}
}
