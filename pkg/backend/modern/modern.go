// Package modern implements the debugger backend for stylesheets declared
// version="2.0" or version="3.0", including the xsl:function instrumentation
// growth point when Options.InstrumentFunctions is set.
package modern

import (
	"github.com/imdj360/xsltdbg/pkg/backend/codecsrt"
	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// Backend is the Modern (XSLT 2.0/3.0) variant of dbgengine.Backend.
type Backend struct{}

// New returns a Modern backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "modern" }

func (b *Backend) Compile(doc *xmlmodel.Document, hook probe.Hook) (dbgengine.Runner, error) {
	return codecsrt.Compile(b.Name(), doc, hook)
}
