// Package xmlmodel implements a line-aware XML DOM used to load, mutate and
// re-serialize XSLT stylesheets without losing the source line number each
// element started on, or the namespace prefixes it was written with.
//
// encoding/xml's Decoder already resolves every element and attribute name to
// its namespace URI, which is what we want for comparison, but it throws away
// the prefix the author used. Because the instrumentation pass (pkg/instrument)
// has to reintroduce a "dbg" prefix and the fragility classifier (pkg/fragility)
// has to recognize XSLT-namespace elements regardless of the prefix in use,
// this package tracks both: a resolved QName for matching, and per-node
// namespace declarations (NSDecls) for writing the document back out with the
// original (or a newly-introduced) prefix.
package xmlmodel

import (
	"fmt"
	"io"
)

// XSLT and debug namespace URIs.
const (
	NSXSLT  = "http://www.w3.org/1999/XSL/Transform"
	NSDebug = "urn:xslt-debugger"

	// DebugPrefix is the prefix bound to NSDebug on the stylesheet root.
	DebugPrefix = "dbg"
)

// NodeKind distinguishes the small set of XML constructs this model keeps.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
	ProcInstNode
)

// QName is a namespace-resolved element or attribute name.
type QName struct {
	URI   string // "" for attributes with no namespace
	Local string
}

// String renders a QName for diagnostics, e.g. "{urn:xslt-debugger}break".
func (q QName) String() string {
	if q.URI == "" {
		return q.Local
	}
	return fmt.Sprintf("{%s}%s", q.URI, q.Local)
}

// Attribute is a single namespace-resolved attribute value.
type Attribute struct {
	Name  QName
	Value string
}

// NSDecl is one namespace declaration introduced on an element, in source order.
type NSDecl struct {
	Prefix string // "" for a default-namespace declaration (xmlns="...")
	URI    string
}

// Node is one element, text run, comment or processing instruction in the tree.
type Node struct {
	Kind NodeKind

	// Element / ProcInst fields.
	Name    QName
	Attrs   []Attribute
	NSDecls []NSDecl // namespace declarations carried on this element, in document order

	// Text / Comment / ProcInst fields.
	Text string

	// Line is the 1-based source line the node's opening construct started on.
	Line int

	Parent   *Node
	Children []*Node
}

// Document is a loaded, mutable stylesheet DOM.
type Document struct {
	Root *Node
	Path string
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool { return n.Kind == ElementNode }

// Attr returns the value of the unprefixed attribute named local, or ("", false).
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.URI == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets (or replaces) an unprefixed attribute on n.
func (n *Node) SetAttr(local, value string) {
	for i, a := range n.Attrs {
		if a.Name.URI == "" && a.Name.Local == local {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attribute{Name: QName{Local: local}, Value: value})
}

// AttrNS returns the value of the attribute named {uri}local, or ("", false).
func (n *Node) AttrNS(uri, local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.URI == uri && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttrNS sets (or replaces) a namespace-qualified attribute on n. Used by
// the instrumentation pass to mark the elements it generates so a later pass
// recognizes and skips them.
func (n *Node) SetAttrNS(uri, local, value string) {
	for i, a := range n.Attrs {
		if a.Name.URI == uri && a.Name.Local == local {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attribute{Name: QName{URI: uri, Local: local}, Value: value})
}

// InXSLTNamespace reports whether n is an element in the XSLT namespace.
func (n *Node) InXSLTNamespace() bool {
	return n.IsElement() && n.Name.URI == NSXSLT
}

// InDebugNamespace reports whether n is an element in the debug namespace.
// The instrumentation pass's own probes are XSLT-namespace elements marked
// with a dbg:probe attribute, so they do not match.
func (n *Node) InDebugNamespace() bool {
	return n.IsElement() && n.Name.URI == NSDebug
}

// Ancestors returns n's ancestors, nearest first, not including n itself.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// NearestXSLTAncestor returns the closest ancestor element in the XSLT namespace, or nil.
func (n *Node) NearestXSLTAncestor() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.InXSLTNamespace() {
			return p
		}
	}
	return nil
}

// Walk calls fn for every node in the subtree rooted at n, in document order,
// depth-first, visiting n itself first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Elements returns every element node in the subtree rooted at n, in document order.
func (n *Node) Elements() []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.IsElement() {
			out = append(out, c)
		}
	})
	return out
}

// Load parses an XML file into a line-aware Document.
func Load(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("xmlmodel: load %s: %w", path, err)
	}
	root, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("xmlmodel: parse %s: %w", path, err)
	}
	return &Document{Root: root, Path: path}, nil
}

// LoadReader is Load for an already-open reader, useful for tests.
func LoadReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xmlmodel: read: %w", err)
	}
	root, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("xmlmodel: parse: %w", err)
	}
	return &Document{Root: root}, nil
}

// StylesheetRoot returns the document's xsl:stylesheet/xsl:transform root, or
// an error if the document root isn't one of those two.
func (d *Document) StylesheetRoot() (*Node, error) {
	r := d.Root
	if r == nil || !r.InXSLTNamespace() || (r.Name.Local != "stylesheet" && r.Name.Local != "transform") {
		return nil, fmt.Errorf("xmlmodel: document root is not xsl:stylesheet or xsl:transform")
	}
	return r, nil
}

// Version returns the stylesheet's version attribute, or "" if absent.
func (d *Document) Version() string {
	r := d.Root
	if r == nil {
		return ""
	}
	v, _ := r.Attr("version")
	return v
}
