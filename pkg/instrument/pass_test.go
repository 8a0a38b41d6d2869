package instrument

import (
	"bytes"
	"strings"
	"testing"

	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

const nestedSheet = `<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:template match="/">
    <out>
      <xsl:call-template name="level2"/>
    </out>
  </xsl:template>
  <xsl:template name="level2">
    <xsl:value-of select="."/>
  </xsl:template>
</xsl:stylesheet>
`

func findAll(root *xmlmodel.Node, local string) []*xmlmodel.Node {
	var out []*xmlmodel.Node
	for _, e := range root.Elements() {
		if e.InXSLTNamespace() && e.Name.Local == local {
			out = append(out, e)
		}
	}
	return out
}

func TestRun_OutputPreservation(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(nestedSheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	var orig bytes.Buffer
	if err := xmlmodel.Serialize(&orig, doc.Root); err != nil {
		t.Fatalf("Serialize(orig): %v", err)
	}

	if _, err := Run(doc, Options{Backend: "modern"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stripped := StripProbes(doc.Root)
	var got bytes.Buffer
	if err := xmlmodel.Serialize(&got, stripped); err != nil {
		t.Fatalf("Serialize(stripped): %v", err)
	}

	if got.String() != orig.String() {
		t.Errorf("stripped instrumented output != original:\n got: %s\nwant: %s", got.String(), orig.String())
	}
}

func TestRun_Idempotent(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(nestedSheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if _, err := Run(doc, Options{Backend: "modern"}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	var once bytes.Buffer
	xmlmodel.Serialize(&once, doc.Root)

	if _, err := Run(doc, Options{Backend: "modern"}); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	var twice bytes.Buffer
	xmlmodel.Serialize(&twice, doc.Root)

	if once.String() != twice.String() {
		t.Errorf("second pass is not a no-op:\nfirst:  %s\nsecond: %s", once.String(), twice.String())
	}
}

func TestRun_TemplateEntryMarkers(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(nestedSheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	result, err := Run(doc, Options{Backend: "modern"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	root, _ := doc.StylesheetRoot()
	templates := findAll(root, "template")
	if len(templates) != 2 {
		t.Fatalf("expected 2 xsl:template elements, got %d", len(templates))
	}
	for _, tmpl := range templates {
		if len(tmpl.Children) == 0 {
			t.Fatalf("template at line %d has no children after instrumentation", tmpl.Line)
		}
		first := tmpl.Children[0]
		if _, ok := first.AttrNS(xmlmodel.NSDebug, "entry"); !ok {
			t.Errorf("template at line %d: first child is not a template-entry probe", tmpl.Line)
		}
		if !result.InstrumentedLines[tmpl.Line] {
			t.Errorf("template at line %d not recorded in InstrumentedLines", tmpl.Line)
		}
	}
}

func TestRun_VariableCaptureAndUnsafeSkip(t *testing.T) {
	const sheet = `<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:template match="/">
    <xsl:variable name="itemCount" select="count(/items/item)"/>
    <xsl:attribute name="id">
      <xsl:variable name="unsafe1" select="1"/>
    </xsl:attribute>
  </xsl:template>
</xsl:stylesheet>`
	doc, err := xmlmodel.LoadReader(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	result, err := Run(doc, Options{Backend: "modern"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.VariableCaptures != 1 {
		t.Errorf("VariableCaptures = %d, want 1", result.VariableCaptures)
	}
	found := false
	for _, d := range result.Diagnostics {
		if d == "Skipped unsafe instrumentation: $unsafe1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unsafe-instrumentation diagnostic, got %v", result.Diagnostics)
	}

	root, _ := doc.StylesheetRoot()
	attr := findAll(root, "attribute")[0]
	for _, e := range attr.Elements() {
		if e.InXSLTNamespace() && e.Name.Local == "message" {
			t.Errorf("capture message inserted inside xsl:attribute, violating content model")
		}
	}
}

func TestRun_ChooseGuard(t *testing.T) {
	const sheet = `<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:template match="/">
    <xsl:choose>
      <xsl:when test="true()"><a/></xsl:when>
      <xsl:otherwise><b/></xsl:otherwise>
    </xsl:choose>
  </xsl:template>
</xsl:stylesheet>`
	doc, err := xmlmodel.LoadReader(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if _, err := Run(doc, Options{Backend: "modern"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	root, _ := doc.StylesheetRoot()
	choose := findAll(root, "choose")[0]
	for _, c := range choose.Children {
		if c.IsElement() && !(c.InXSLTNamespace() && (c.Name.Local == "when" || c.Name.Local == "otherwise")) {
			t.Errorf("xsl:choose gained a non-when/otherwise child: %+v", c.Name)
		}
	}
}

func TestRun_LegacyRefusesModernVersion(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(nestedSheet)) // version="2.0"
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if _, err := Run(doc, Options{Backend: "legacy"}); err == nil {
		t.Error("expected legacy backend to refuse a version=2.0 stylesheet")
	}
}
