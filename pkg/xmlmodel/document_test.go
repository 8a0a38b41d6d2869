package xmlmodel

import (
	"strings"
	"testing"
)

const sampleSheet = `<?xml version="1.0"?>
<xsl:stylesheet xmlns:xsl="http://www.w3.org/1999/XSL/Transform" version="1.0">
  <xsl:template match="/">
    <out>
      <xsl:value-of select="."/>
    </out>
  </xsl:template>
</xsl:stylesheet>
`

func TestLoadReader_LinesAndNamespace(t *testing.T) {
	doc, err := LoadReader(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	root, err := doc.StylesheetRoot()
	if err != nil {
		t.Fatalf("StylesheetRoot: %v", err)
	}
	if root.Line != 2 {
		t.Errorf("root.Line = %d, want 2", root.Line)
	}
	if v := doc.Version(); v != "1.0" {
		t.Errorf("Version() = %q, want 1.0", v)
	}

	var template *Node
	for _, e := range root.Elements() {
		if e.InXSLTNamespace() && e.Name.Local == "template" {
			template = e
			break
		}
	}
	if template == nil {
		t.Fatal("xsl:template not found")
	}
	if template.Line != 3 {
		t.Errorf("template.Line = %d, want 3", template.Line)
	}
}

func TestEnsureDebugNamespace_Idempotent(t *testing.T) {
	doc, err := LoadReader(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	p1, err := doc.EnsureDebugNamespace()
	if err != nil {
		t.Fatalf("EnsureDebugNamespace: %v", err)
	}
	if p1 != DebugPrefix {
		t.Errorf("prefix = %q, want %q", p1, DebugPrefix)
	}

	root, _ := doc.StylesheetRoot()
	before := len(root.NSDecls)

	p2, err := doc.EnsureDebugNamespace()
	if err != nil {
		t.Fatalf("second EnsureDebugNamespace: %v", err)
	}
	if p2 != p1 {
		t.Errorf("second call returned different prefix: %q vs %q", p2, p1)
	}
	if len(root.NSDecls) != before {
		t.Errorf("EnsureDebugNamespace is not idempotent: NSDecls grew from %d to %d", before, len(root.NSDecls))
	}
}

func TestInsertBeforeAndSerialize(t *testing.T) {
	doc, err := LoadReader(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if _, err := doc.EnsureDebugNamespace(); err != nil {
		t.Fatalf("EnsureDebugNamespace: %v", err)
	}

	root, _ := doc.StylesheetRoot()
	var valueOf *Node
	for _, e := range root.Elements() {
		if e.InXSLTNamespace() && e.Name.Local == "value-of" {
			valueOf = e
		}
	}
	if valueOf == nil {
		t.Fatal("xsl:value-of not found")
	}

	probe := NewElement(QualifiedXSLTName("value-of"), Attribute{Name: QName{Local: "select"}, Value: "dbg:break(4,.)"})
	if err := InsertBefore(valueOf, probe); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `dbg:break(4,.)`) {
		t.Errorf("serialized output missing inserted probe: %s", s)
	}
	if !strings.Contains(s, `xmlns:dbg="urn:xslt-debugger"`) {
		t.Errorf("serialized output missing dbg namespace declaration: %s", s)
	}
}

func TestStripNamespace_RemovesDebugElements(t *testing.T) {
	doc, err := LoadReader(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	doc.EnsureDebugNamespace()

	root, _ := doc.StylesheetRoot()
	template := root.Elements()[1] // [0] is the stylesheet root itself
	probe := NewElement(QualifiedDebugName("marker"))
	InsertFirstChild(template, probe)

	stripped := StripNamespace(doc.Root, NSDebug)
	for _, e := range stripped.Elements() {
		if e.InDebugNamespace() {
			t.Errorf("StripNamespace left a dbg element in place: %+v", e)
		}
	}
}
