// Package fragility implements the decision of which stylesheet DOM nodes
// may host a debug probe, and how. The rules here are the
// only thing standing between the instrumentation pass and an XSLT content
// model violation, so they are deliberately conservative: when in doubt,
// skip.
package fragility

import "github.com/imdj360/xsltdbg/pkg/xmlmodel"

// Action is the instrumentation disposition the classifier picks for a node.
type Action int

const (
	// Skip means no probe is inserted for this element.
	Skip Action = iota
	// InstrumentSibling inserts the probe immediately before the element.
	InstrumentSibling
	// InstrumentFirstChild inserts the probe as the element's first child.
	InstrumentFirstChild
)

func (a Action) String() string {
	switch a {
	case Skip:
		return "skip"
	case InstrumentSibling:
		return "instrument-sibling"
	case InstrumentFirstChild:
		return "instrument-first-child"
	default:
		return "unknown"
	}
}

// alwaysSkip is the rule-1 top-level/non-executable skip set.
var alwaysSkip = map[string]bool{
	"stylesheet": true, "transform": true, "output": true, "import": true,
	"include": true, "key": true, "decimal-format": true, "namespace-alias": true,
	"attribute-set": true, "preserve-space": true, "strip-space": true,
	"param": true, "variable": true, "with-param": true, "sort": true,
	"accumulator": true, "character-map": true, "import-schema": true, "function": true,
}

// fragileAncestors is the rule-2 set: elements whose content model restricts
// children to text-producing content, so a probe element child is forbidden
// even though it returns the empty string/sequence.
var fragileAncestors = map[string]bool{
	"attribute": true, "comment": true, "processing-instruction": true,
	"namespace": true, "sort": true, "with-param": true, "function": true,
}

// Classify decides the instrumentation disposition for element e, applying
// the safety rules in order; the first matching rule wins.
func Classify(e *xmlmodel.Node) Action {
	if !e.IsElement() {
		return Skip
	}

	// Rule 0: never re-instrument a node the pass itself generated. Probe
	// elements carry a dbg-namespace marker attribute precisely so a second
	// pass recognizes and skips them.
	if _, ok := e.AttrNS(xmlmodel.NSDebug, "probe"); ok {
		return Skip
	}

	// Rule 1: always-skip top-level declarations, matched against
	// XSLT-namespace elements only.
	if e.InXSLTNamespace() && alwaysSkip[e.Name.Local] {
		return Skip
	}

	// Rule 2: descendant of a fragile ancestor.
	if nearest := e.NearestXSLTAncestor(); nearest != nil && fragileAncestors[nearest.Name.Local] {
		return Skip
	}

	// Rule 3: non-when/otherwise child of xsl:choose.
	if nearest := e.NearestXSLTAncestor(); nearest != nil && nearest.Name.Local == "choose" {
		if !(e.InXSLTNamespace() && (e.Name.Local == "when" || e.Name.Local == "otherwise")) {
			return Skip
		}
	}

	// Rule 4: instrument. First-child mode when the parent is the
	// stylesheet root (it has no executable sibling slot of its own) or
	// xsl:choose (whose content model admits only when/otherwise).
	if e.Parent != nil && e.Parent.InXSLTNamespace() &&
		(e.Parent.Name.Local == "stylesheet" || e.Parent.Name.Local == "transform" || e.Parent.Name.Local == "choose") {
		return InstrumentFirstChild
	}
	return InstrumentSibling
}
