package xmlmodel

// scopeAt returns the namespace bindings (URI -> prefix, nearest wins) in
// effect at n, by walking from the root down to n and layering each node's
// NSDecls. The XML spec never lets a node observe its own later siblings'
// declarations, so this is always computed top-down.
func scopeAt(n *Node) map[string]string {
	var chain []*Node
	for p := n; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	scope := make(map[string]string)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, d := range chain[i].NSDecls {
			scope[d.URI] = d.Prefix
		}
	}
	return scope
}

// PrefixFor returns the prefix bound to uri in scope at n ("" for the default
// namespace, ok=false if uri has no binding visible from n).
func (n *Node) PrefixFor(uri string) (prefix string, ok bool) {
	scope := scopeAt(n)
	p, ok := scope[uri]
	return p, ok
}

// EnsureDebugNamespace idempotently binds the "dbg" prefix to NSDebug on the
// stylesheet root. Returns the prefix in effect
// (always DebugPrefix, but callers should use the return value rather than
// the constant in case a future revision makes the prefix configurable).
func (d *Document) EnsureDebugNamespace() (string, error) {
	root, err := d.StylesheetRoot()
	if err != nil {
		return "", err
	}
	if prefix, ok := root.PrefixFor(NSDebug); ok {
		return prefix, nil // already present — idempotent
	}
	root.NSDecls = append(root.NSDecls, NSDecl{Prefix: DebugPrefix, URI: NSDebug})
	return DebugPrefix, nil
}

// QualifiedDebugName returns the dbg-namespace QName for local (e.g. "break").
func QualifiedDebugName(local string) QName {
	return QName{URI: NSDebug, Local: local}
}

// QualifiedXSLTName returns the XSLT-namespace QName for local (e.g. "value-of").
func QualifiedXSLTName(local string) QName {
	return QName{URI: NSXSLT, Local: local}
}
