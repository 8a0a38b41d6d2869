package fragility

import (
	"strings"
	"testing"

	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

func findFirst(root *xmlmodel.Node, local string) *xmlmodel.Node {
	for _, e := range root.Elements() {
		if e.InXSLTNamespace() && e.Name.Local == local {
			return e
		}
	}
	return nil
}

func TestClassify_TopLevelAlwaysSkipped(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(`<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:param name="p"/>
  <xsl:template match="/"><out/></xsl:template>
</xsl:stylesheet>`))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	root, _ := doc.StylesheetRoot()

	if got := Classify(root); got != Skip {
		t.Errorf("Classify(stylesheet root) = %v, want Skip", got)
	}
	param := findFirst(root, "param")
	if got := Classify(param); got != Skip {
		t.Errorf("Classify(xsl:param) = %v, want Skip", got)
	}
}

func TestClassify_FragileAncestorDescendantSkipped(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(`<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:template match="/">
    <xsl:attribute name="id">
      <xsl:value-of select="@x"/>
    </xsl:attribute>
  </xsl:template>
</xsl:stylesheet>`))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	root, _ := doc.StylesheetRoot()
	valueOf := findFirst(root, "value-of")
	if valueOf == nil {
		t.Fatal("xsl:value-of not found")
	}
	if got := Classify(valueOf); got != Skip {
		t.Errorf("Classify(value-of under xsl:attribute) = %v, want Skip", got)
	}
}

func TestClassify_ChooseNonWhenOtherwiseSkipped(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(`<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:template match="/">
    <xsl:choose>
      <xsl:when test="true()"><a/></xsl:when>
      <xsl:otherwise><b/></xsl:otherwise>
    </xsl:choose>
  </xsl:template>
</xsl:stylesheet>`))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	root, _ := doc.StylesheetRoot()
	when := findFirst(root, "when")
	otherwise := findFirst(root, "otherwise")
	if when == nil || otherwise == nil {
		t.Fatal("xsl:when/xsl:otherwise not found")
	}
	if got := Classify(when); got == Skip {
		t.Errorf("Classify(xsl:when) = Skip, want instrument")
	}
	if got := Classify(otherwise); got == Skip {
		t.Errorf("Classify(xsl:otherwise) = Skip, want instrument")
	}

	// A literal element directly under xsl:choose (invalid XSLT, but the
	// classifier must still refuse to instrument it rather than trust the
	// input) must be skipped.
	choose := findFirst(root, "choose")
	bogus := xmlmodel.NewElement(xmlmodel.QName{Local: "bogus"})
	bogus.Parent = choose
	if got := Classify(bogus); got != Skip {
		t.Errorf("Classify(non-when/otherwise child of xsl:choose) = %v, want Skip", got)
	}
}

func TestClassify_StylesheetRootChildUsesFirstChildMode(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(`<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:template match="/"><out/></xsl:template>
</xsl:stylesheet>`))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	root, _ := doc.StylesheetRoot()
	template := findFirst(root, "template")
	if got := Classify(template); got != InstrumentFirstChild {
		t.Errorf("Classify(xsl:template) = %v, want InstrumentFirstChild", got)
	}
}

func TestClassify_NestedElementUsesSiblingMode(t *testing.T) {
	doc, err := xmlmodel.LoadReader(strings.NewReader(`<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="2.0">
  <xsl:template match="/">
    <xsl:value-of select="."/>
  </xsl:template>
</xsl:stylesheet>`))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	root, _ := doc.StylesheetRoot()
	valueOf := findFirst(root, "value-of")
	if got := Classify(valueOf); got != InstrumentSibling {
		t.Errorf("Classify(nested xsl:value-of) = %v, want InstrumentSibling", got)
	}
}
