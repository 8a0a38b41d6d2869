package fragility

import "github.com/imdj360/xsltdbg/pkg/xmlmodel"

// unsafeVariableParent mirrors the parent restrictions (rule ii):
// a variable capture probe is an element child, so it cannot be inserted
// under any of these.
var unsafeVariableParent = map[string]bool{
	"attribute": true, "comment": true, "processing-instruction": true,
	"namespace": true, "sequence": true,
}

// IsSafeToInstrumentVariable decides whether v (an xsl:variable or xsl:param)
// may be followed by a capture probe, per the parallel safety routine.
// v must be an xsl:variable or xsl:param element; callers should have
// already filtered for that.
func IsSafeToInstrumentVariable(v *xmlmodel.Node) bool {
	if !v.IsElement() || !v.InXSLTNamespace() {
		return false
	}
	if v.Name.Local != "variable" && v.Name.Local != "param" {
		return false
	}

	// (i) no ancestor is in the fragile set. An xsl:function ancestor is
	// left to rule (iii), which admits select-form declarations.
	for _, a := range v.Ancestors() {
		if a.InXSLTNamespace() && fragileAncestors[a.Name.Local] && a.Name.Local != "function" {
			return false
		}
	}

	// (ii) v's parent is not one of the unsafe-parent set.
	if v.Parent != nil && v.Parent.InXSLTNamespace() && unsafeVariableParent[v.Parent.Name.Local] {
		return false
	}

	// (iii) when inside a function body, v must use the select form and
	// have no child content.
	if fn := enclosingFunction(v); fn != nil {
		_, hasSelect := v.Attr("select")
		if !hasSelect || hasElementOrTextChild(v) {
			return false
		}
	}

	return true
}

func enclosingFunction(n *xmlmodel.Node) *xmlmodel.Node {
	for _, a := range n.Ancestors() {
		if a.InXSLTNamespace() && a.Name.Local == "function" {
			return a
		}
	}
	return nil
}

func hasElementOrTextChild(n *xmlmodel.Node) bool {
	for _, c := range n.Children {
		if c.IsElement() {
			return true
		}
		if c.Kind == xmlmodel.TextNode && nonBlank(c.Text) {
			return true
		}
	}
	return false
}

func nonBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
