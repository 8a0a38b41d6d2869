package instrument

import (
	"fmt"
	"strings"

	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// buildBreakProbe builds the generic "report progress" probe
// step 2: an xsl:value-of calling dbg:break(line, .), which returns the
// empty sequence/string in every context it can legally appear in.
func buildBreakProbe(line int) *xmlmodel.Node {
	n := xmlmodel.NewElement(xmlmodel.QualifiedXSLTName("value-of"))
	n.SetAttr("select", fmt.Sprintf("dbg:break(%d, .)", line))
	n.SetAttrNS(xmlmodel.NSDebug, "probe", "true")
	return n
}

// buildTemplateEntryProbe builds the template-entry marker
// step 4: the same dbg:break call, with a third argument carrying the
// template's match pattern or name so the probe decoder can emit a
// synthetic [template-entry] event alongside the ordinary stopped/frame
// bookkeeping.
func buildTemplateEntryProbe(line int, descriptor string) *xmlmodel.Node {
	n := xmlmodel.NewElement(xmlmodel.QualifiedXSLTName("value-of"))
	n.SetAttr("select", fmt.Sprintf("dbg:break(%d, ., '%s')", line, escapeXPathString(descriptor)))
	n.SetAttrNS(xmlmodel.NSDebug, "probe", "true")
	n.SetAttrNS(xmlmodel.NSDebug, "entry", "true")
	return n
}

// buildVariableCapture builds the capture instruction:
// an xsl:message whose payload the probe protocol decodes as a
// "[DBG] var NAME VALUE" line.
func buildVariableCapture(name string) *xmlmodel.Node {
	n := xmlmodel.NewElement(xmlmodel.QualifiedXSLTName("message"))
	expr := fmt.Sprintf("('[DBG]', 'var', '%s', string($%s))", escapeXPathString(name), name)
	n.SetAttr("select", expr)
	n.SetAttrNS(xmlmodel.NSDebug, "probe", "true")
	return n
}

func escapeXPathString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
