// Package domview is a minimal HTML5 DOM facade over golang.org/x/net/html.
//
// It gives the compiler predicate-based lookup plus mutation (find, insert,
// replace, serialize) without pulling in a cheerio/goquery-style dependency, walking
// *html.Node trees directly the way a hand-rolled DOM facade would.
package domview

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOM wraps a parsed document root and offers tag/attribute queries and
// structural mutation over it.
type DOM struct {
	Root *html.Node
}

// voidElements never receive a synthetic text child during empty-tag
// normalization; the HTML5 spec forbids them from having content at all.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse parses a full HTML document with HTML5 semantics.
func Parse(src string) (*DOM, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("domview: parse document: %w", err)
	}
	return &DOM{Root: root}, nil
}

// ParseFragmentNodes parses an HTML fragment (no implicit html/head/body)
// relative to the given context node (nil defaults to a <body> context).
func ParseFragmentNodes(src string, context *html.Node) ([]*html.Node, error) {
	if context == nil {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("domview: parse fragment: %w", err)
	}
	return nodes, nil
}

// NewElement builds a detached element node with the given attributes, in
// map-iteration order is not guaranteed so callers needing stable attribute
// order should pass attrs built from an ordered slice upstream.
func NewElement(tag string, attrs map[string]string) *html.Node {
	n := &html.Node{
		Type: html.ElementNode,
		Data: tag,
		Attr: make([]html.Attribute, 0, len(attrs)),
	}
	for k, v := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	return n
}

// NewText builds a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// SetAttr sets (or overwrites) an attribute on n.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Attr returns the value of an attribute and whether it was present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries the given attribute, regardless of value.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// FindAll walks the tree rooted at n (inclusive) and returns every node for
// which pred returns true, in document order.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if pred(cur) {
			out = append(out, cur)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindFirst returns the first node matching pred in document order, or nil.
func FindFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	all := FindAll(n, pred)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// ByTag returns a predicate matching element nodes with the given tag name.
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// Head returns the document's <head> element, if present.
func (d *DOM) Head() *html.Node {
	return FindFirst(d.Root, ByTag("head"))
}

// Body returns the document's <body> element, if present.
func (d *DOM) Body() *html.Node {
	return FindFirst(d.Root, ByTag("body"))
}

// IsInside reports whether n has ancestor as one of its ancestors.
func IsInside(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// AppendChild appends child to the end of parent's children list.
func AppendChild(parent, child *html.Node) {
	parent.AppendChild(child)
}

// PrependChild inserts child as the first child of parent.
func PrependChild(parent, child *html.Node) {
	if parent.FirstChild == nil {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, parent.FirstChild)
}

// InsertBefore inserts newNode immediately before ref among ref's siblings.
func InsertBefore(ref, newNode *html.Node) {
	if ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(newNode, ref)
}

// InsertAfter inserts newNode immediately after ref among ref's siblings.
func InsertAfter(ref, newNode *html.Node) {
	if ref.Parent == nil {
		return
	}
	if ref.NextSibling == nil {
		ref.Parent.AppendChild(newNode)
		return
	}
	ref.Parent.InsertBefore(newNode, ref.NextSibling)
}

// ReplaceWith swaps old out for replacement (or for each of replacements, in
// order, when more than one node takes its place) among old's siblings.
func ReplaceWith(old *html.Node, replacements ...*html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, r := range replacements {
		parent.InsertBefore(r, old)
	}
	parent.RemoveChild(old)
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// NormalizeEmptyTags gives any non-void element with no children a single
// space text child, so that re-serialization never collapses it to a
// self-closed form a browser would parse differently (<div></div> vs
// <div/>).
func NormalizeEmptyTags(root *html.Node) {
	for _, n := range FindAll(root, func(n *html.Node) bool { return n.Type == html.ElementNode }) {
		if voidElements[n.Data] {
			continue
		}
		if n.FirstChild == nil {
			n.AppendChild(NewText(" "))
		}
	}
}

var collapseGapRe = regexp.MustCompile(`>\s+<`)

// Render serializes n and collapses inter-tag whitespace runs ("> <" style
// gaps) the way the compiled shell is flattened before being handed out as
// a request-bound string template.
func Render(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("domview: render: %w", err)
	}
	return collapseGapRe.ReplaceAllString(sb.String(), "><"), nil
}

// RenderNodes serializes a slice of sibling-less detached nodes back to back.
func RenderNodes(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("domview: render: %w", err)
		}
	}
	return sb.String(), nil
}
