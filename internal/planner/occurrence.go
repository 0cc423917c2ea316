package planner

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/livefir/fragmentgw/internal/compileerr"
	"github.com/livefir/fragmentgw/internal/domview"
	"github.com/livefir/fragmentgw/internal/fragment"
)

// occNode pairs a parsed fragment.Occurrence with the live DOM node it was
// read from, so rewrite rules can mutate the node in place.
type occNode struct {
	Occurrence fragment.Occurrence
	Node       *html.Node
}

// walkFragments finds every <fragment> element in doc, builds one
// fragment.Descriptor per unique name, and groups occurrences by name in
// document order. order lists names in first-occurrence order, the
// iteration order every later compile stage follows for determinism.
func walkFragments(doc *domview.DOM) (descriptors map[string]*fragment.Descriptor, occurrences map[string][]occNode, order []string, err error) {
	descriptors = map[string]*fragment.Descriptor{}
	occurrences = map[string][]occNode{}

	head := doc.Head()
	primaryName := ""

	for _, n := range domview.FindAll(doc.Root, domview.ByTag("fragment")) {
		name, _ := domview.Attr(n, "name")
		from, _ := domview.Attr(n, "from")
		partial, ok := domview.Attr(n, "partial")
		if !ok || partial == "" {
			partial = fragment.DefaultPartial
		}
		primary := domview.HasAttr(n, "primary")
		explicitWait := domview.HasAttr(n, "shouldwait")
		inHead := head != nil && domview.IsInside(n, head)

		attrs := map[string]string{}
		for _, a := range n.Attr {
			if !fragment.IsReservedAttribute(a.Key) {
				attrs[a.Key] = a.Val
			}
		}

		occ := fragment.Occurrence{
			Name:       name,
			From:       from,
			Partial:    partial,
			Primary:    primary,
			ShouldWait: primary || explicitWait || inHead,
			Attributes: attrs,
		}

		d, seen := descriptors[name]
		if !seen {
			d = &fragment.Descriptor{Name: name, From: from}
			descriptors[name] = d
			order = append(order, name)
		}

		if primary {
			if primaryName != "" && primaryName != name {
				return nil, nil, nil, fmt.Errorf("fragmentgw: %s and %s: %w", primaryName, name, compileerr.ErrMultiplePrimaryFragments)
			}
			primaryName = name
			d.Primary = true
		}
		if occ.ShouldWait {
			d.ShouldWait = true
		}

		occurrences[name] = append(occurrences[name], occNode{Occurrence: occ, Node: n})
	}

	return descriptors, occurrences, order, nil
}

// mainOccurrence returns the occurrence whose Partial is "main", or the
// first occurrence if none is explicitly main.
func mainOccurrence(occs []occNode) occNode {
	for _, o := range occs {
		if o.Occurrence.Partial == fragment.DefaultPartial {
			return o
		}
	}
	return occs[0]
}
