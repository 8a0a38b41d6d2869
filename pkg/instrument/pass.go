// Package instrument implements the instrumentation pass: the
// DOM-to-DOM rewrite that inserts dbg:break probe calls, variable-capture
// messages and template-entry markers into a stylesheet before it is handed
// to a backend for compilation.
package instrument

import (
	"fmt"
	"sort"

	"github.com/imdj360/xsltdbg/pkg/fragility"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// Options configures a single run of the pass.
type Options struct {
	// Backend is "legacy" or "modern".
	Backend string
	// InstrumentFunctions enables a growth-point feature: wrapping xsl:function
	// bodies in dbg:break via xsl:sequence. Ignored (treated false) for the
	// legacy backend, since it never compiles version="2.0"/"3.0" stylesheets
	// and xsl:function doesn't exist in XSLT 1.0.
	InstrumentFunctions bool
}

// Result summarizes what a pass run did, for diagnostics and for the
// breakpoint-verification check in the Engine Abstraction.
type Result struct {
	// InstrumentedLines is the set of original source lines that now have a
	// probe attached; setBreakpoints reports verified=true only for lines in
	// this set.
	InstrumentedLines map[int]bool
	// VariableCaptures is the number of xsl:variable/xsl:param declarations
	// a capture message was inserted after.
	VariableCaptures int
	// Diagnostics are the "[debug] ..." and "Skipped unsafe instrumentation:
	// $name" lines the Engine Abstraction surfaces as output events.
	Diagnostics []string
}

// Run instruments doc in place, consulting the fragility
// classifier for every element and isSafeToInstrumentVariable for every
// xsl:variable/xsl:param. It is deterministic: the same input DOM always
// produces the same rewritten DOM, and running it twice over its own output
// is a no-op.
func Run(doc *xmlmodel.Document, opts Options) (*Result, error) {
	root, err := doc.StylesheetRoot()
	if err != nil {
		return nil, err
	}

	if opts.Backend == "legacy" {
		if v := doc.Version(); v == "2.0" || v == "3.0" {
			return nil, fmt.Errorf("instrument: legacy backend refuses version=%q stylesheet", v)
		}
	}

	// Step 1: ensure dbg namespace on root.
	if _, err := doc.EnsureDebugNamespace(); err != nil {
		return nil, err
	}

	result := &Result{InstrumentedLines: map[int]bool{}}

	// Snapshot document order before any mutation; insertions during the
	// walk must never perturb which original elements get visited.
	elements := root.Elements()

	// Step 2 + 4: generic probes and template-entry markers.
	for _, e := range elements {
		if e.InDebugNamespace() {
			continue
		}
		if e.InXSLTNamespace() && e.Name.Local == "template" {
			instrumentTemplateEntry(e, result)
			continue
		}
		action := fragility.Classify(e)
		if action == fragility.Skip {
			continue
		}
		probe := buildBreakProbe(e.Line)
		if err := insertProbe(e, action, probe); err != nil {
			return nil, err
		}
		result.InstrumentedLines[e.Line] = true
	}

	// Step 3: variable/param capture.
	for _, e := range elements {
		if !e.InXSLTNamespace() {
			continue
		}
		if e.Name.Local != "variable" && e.Name.Local != "param" {
			continue
		}
		name, ok := e.Attr("name")
		if !ok {
			continue
		}
		if !fragility.IsSafeToInstrumentVariable(e) {
			result.Diagnostics = append(result.Diagnostics, fmt.Sprintf("Skipped unsafe instrumentation: $%s", name))
			continue
		}
		if next := xmlmodel.NextSibling(e); next != nil {
			if _, marked := next.AttrNS(xmlmodel.NSDebug, "probe"); marked {
				continue // already captured by a prior pass
			}
		}
		capture := buildVariableCapture(name)
		if err := xmlmodel.InsertAfter(e, capture); err != nil {
			return nil, err
		}
		result.VariableCaptures++
	}

	// Growth point: instrument xsl:function bodies.
	if opts.InstrumentFunctions && opts.Backend != "legacy" {
		for _, e := range elements {
			if e.InXSLTNamespace() && e.Name.Local == "function" {
				instrumentFunction(e, result)
			}
		}
	}

	result.Diagnostics = append(result.Diagnostics,
		fmt.Sprintf("[debug] Instrumenting %d variable declarations", result.VariableCaptures))

	return result, nil
}

func insertProbe(e *xmlmodel.Node, action fragility.Action, probe *xmlmodel.Node) error {
	switch action {
	case fragility.InstrumentSibling:
		if prev := previousSibling(e); prev != nil {
			if _, ok := prev.AttrNS(xmlmodel.NSDebug, "probe"); ok {
				return nil // already instrumented by a prior pass
			}
		}
		return xmlmodel.InsertBefore(e, probe)
	case fragility.InstrumentFirstChild:
		if len(e.Children) > 0 {
			if _, ok := e.Children[0].AttrNS(xmlmodel.NSDebug, "probe"); ok {
				return nil
			}
		}
		xmlmodel.InsertFirstChild(e, probe)
		return nil
	default:
		return nil
	}
}

func previousSibling(n *xmlmodel.Node) *xmlmodel.Node {
	if n.Parent == nil {
		return nil
	}
	for i, c := range n.Parent.Children {
		if c == n {
			if i == 0 {
				return nil
			}
			return n.Parent.Children[i-1]
		}
	}
	return nil
}

func instrumentTemplateEntry(tmpl *xmlmodel.Node, result *Result) {
	if len(tmpl.Children) > 0 {
		if _, ok := tmpl.Children[0].AttrNS(xmlmodel.NSDebug, "entry"); ok {
			return // already marked by a prior pass
		}
	}
	probe := buildTemplateEntryProbe(tmpl.Line, templateDescriptor(tmpl))
	xmlmodel.InsertFirstChild(tmpl, probe)
	result.InstrumentedLines[tmpl.Line] = true
}

func templateDescriptor(tmpl *xmlmodel.Node) string {
	if m, ok := tmpl.Attr("match"); ok {
		return "match:" + m
	}
	if n, ok := tmpl.Attr("name"); ok {
		return "name:" + n
	}
	return "name:(anonymous)"
}

func instrumentFunction(fn *xmlmodel.Node, result *Result) {
	name, _ := fn.Attr("name")
	var seq *xmlmodel.Node
	for _, c := range fn.Children {
		if c.IsElement() && c.InXSLTNamespace() && c.Name.Local == "sequence" {
			seq = c
			break
		}
	}
	if seq == nil {
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("Skipped function instrumentation: %s (no xsl:sequence body)", name))
		return
	}
	if _, ok := seq.AttrNS(xmlmodel.NSDebug, "probe"); ok {
		return // already wrapped by a prior pass
	}
	sel, ok := seq.Attr("select")
	if !ok {
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("Skipped function instrumentation: %s (xsl:sequence has no select)", name))
		return
	}
	seq.SetAttr("select", fmt.Sprintf("(dbg:break(%d, .), %s)", fn.Line, sel))
	seq.SetAttrNS(xmlmodel.NSDebug, "probe", "true")
	result.InstrumentedLines[fn.Line] = true
}

// StripProbes returns a clone of the subtree rooted at n with every element
// this pass generated (recognized by the dbg:probe marker attribute) removed,
// and the dbg namespace declaration dropped from the clone of n itself. This
// is the practical form of the output-preservation invariant: instrument(S)
// stripped this way must serialize identically to the original,
// un-instrumented S.
func StripProbes(n *xmlmodel.Node) *xmlmodel.Node {
	clone := cloneForStrip(n)
	for _, c := range n.Children {
		if c.IsElement() {
			if _, ok := c.AttrNS(xmlmodel.NSDebug, "probe"); ok {
				continue
			}
		}
		cc := StripProbes(c)
		cc.Parent = clone
		clone.Children = append(clone.Children, cc)
	}
	return clone
}

func cloneForStrip(n *xmlmodel.Node) *xmlmodel.Node {
	cp := &xmlmodel.Node{Kind: n.Kind, Name: n.Name, Text: n.Text, Line: n.Line}
	cp.Attrs = append([]xmlmodel.Attribute(nil), n.Attrs...)
	for _, d := range n.NSDecls {
		if d.URI == xmlmodel.NSDebug {
			continue
		}
		cp.NSDecls = append(cp.NSDecls, d)
	}
	return cp
}

// VerifiedLines maps each requested line to whether result.InstrumentedLines
// covers it — the breakpoint table's "verified" projection.
func VerifiedLines(result *Result, requested []int) map[int]bool {
	out := make(map[int]bool, len(requested))
	sorted := append([]int(nil), requested...)
	sort.Ints(sorted)
	for _, l := range sorted {
		out[l] = result.InstrumentedLines[l]
	}
	return out
}
