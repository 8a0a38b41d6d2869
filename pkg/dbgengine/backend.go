package dbgengine

import (
	"fmt"

	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// CompileError is a static compilation diagnostic with an original-source
// position.
type CompileError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation error: %s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Runner drives one compiled, instrumented stylesheet over one input
// document. onDiagnostic is called once per line the backend's
// native message/diagnostic stream produces, in order, before Run returns.
type Runner interface {
	Run(inputPath, outputPath string, onDiagnostic func(line string)) error
}

// Backend is the common façade the Engine Abstraction asks each variant to
// present over two interchangeable variants (Legacy 1.0, Modern 2.0/3.0).
// Shared logic — DOM load, instrumentation, event plumbing — lives in
// Engine, above this interface; Compile only has to turn an already
// instrumented DOM into something that can run and that calls back into
// hook on every dbg:break/dbg:var invocation.
type Backend interface {
	// Name identifies the backend for diagnostics ("legacy" or "modern").
	Name() string
	// Compile registers hook's callbacks as the dbg namespace's extension
	// functions and prepares doc for execution. A *CompileError indicates a
	// static compilation failure with an original-source position.
	Compile(doc *xmlmodel.Document, hook probe.Hook) (Runner, error)
}
