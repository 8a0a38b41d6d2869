// Package legacy implements the debugger backend for stylesheets declared
// version="1.0". The instrumentation pass already refuses to run against a
// version="2.0" or "3.0" stylesheet when Backend == "legacy"; this package only has to
// wire the resulting DOM into the shared midbel/codecs runtime.
package legacy

import (
	"github.com/imdj360/xsltdbg/pkg/backend/codecsrt"
	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// Backend is the Legacy (XSLT 1.0) variant of dbgengine.Backend.
type Backend struct{}

// New returns a Legacy backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "legacy" }

func (b *Backend) Compile(doc *xmlmodel.Document, hook probe.Hook) (dbgengine.Runner, error) {
	return codecsrt.Compile(b.Name(), doc, hook)
}
