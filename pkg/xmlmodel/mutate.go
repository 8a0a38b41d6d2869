package xmlmodel

import "fmt"

// NewElement creates a detached element node with no source line.
func NewElement(name QName, attrs ...Attribute) *Node {
	return &Node{Kind: ElementNode, Name: name, Attrs: attrs}
}

// NewText creates a detached text node.
func NewText(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// InsertBefore inserts sibling immediately before n in n's parent's children.
// n must not be the document root.
func InsertBefore(n, sibling *Node) error {
	if n.Parent == nil {
		return fmt.Errorf("xmlmodel: cannot insert before the document root")
	}
	idx, err := childIndex(n.Parent, n)
	if err != nil {
		return err
	}
	insertAt(n.Parent, idx, sibling)
	return nil
}

// InsertAfter inserts sibling immediately after n in n's parent's children.
func InsertAfter(n, sibling *Node) error {
	if n.Parent == nil {
		return fmt.Errorf("xmlmodel: cannot insert after the document root")
	}
	idx, err := childIndex(n.Parent, n)
	if err != nil {
		return err
	}
	insertAt(n.Parent, idx+1, sibling)
	return nil
}

// InsertFirstChild makes child the first child of parent.
func InsertFirstChild(parent, child *Node) {
	insertAt(parent, 0, child)
}

// AppendChild adds child as parent's last child.
func AppendChild(parent, child *Node) {
	insertAt(parent, len(parent.Children), child)
}

// NextSibling returns the node immediately following n among its parent's
// children, or nil if n is the last child or the document root.
func NextSibling(n *Node) *Node {
	if n.Parent == nil {
		return nil
	}
	for i, c := range n.Parent.Children {
		if c == n {
			if i+1 < len(n.Parent.Children) {
				return n.Parent.Children[i+1]
			}
			return nil
		}
	}
	return nil
}

func childIndex(parent, n *Node) (int, error) {
	for i, c := range parent.Children {
		if c == n {
			return i, nil
		}
	}
	return -1, fmt.Errorf("xmlmodel: node is not a child of its recorded parent")
}

func insertAt(parent *Node, idx int, child *Node) {
	child.Parent = parent
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[idx+1:], parent.Children[idx:])
	parent.Children[idx] = child
}

// StripNamespace returns a clone of the subtree rooted at n with every
// element in namespace uri removed, promoting nothing in its place. The
// instrumentation pass's probes are XSLT-namespace elements, so this does not
// remove them; instrument.StripProbes does.
func StripNamespace(n *Node, uri string) *Node {
	clone := shallowClone(n)
	for _, c := range n.Children {
		if c.IsElement() && c.Name.URI == uri {
			continue
		}
		cc := StripNamespace(c, uri)
		cc.Parent = clone
		clone.Children = append(clone.Children, cc)
	}
	return clone
}

func shallowClone(n *Node) *Node {
	cp := *n
	cp.Children = nil
	cp.Attrs = append([]Attribute(nil), n.Attrs...)
	cp.NSDecls = append([]NSDecl(nil), n.NSDecls...)
	return &cp
}
