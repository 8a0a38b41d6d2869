// Package codecsrt is the shared implementation behind the legacy and
// modern backends: both wrap the same github.com/midbel/codecs XSLT/XPath
// engine, since no standalone XSLT-1.0-only Go library exists as a
// separate alternative. The two backends differ only in name and in the
// version restriction the instrumentation pass already enforces before
// Compile is ever reached; the engine-wiring code itself is not duplicated
// per variant.
package codecsrt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/midbel/codecs/xml"
	"github.com/midbel/codecs/xpath"
	"github.com/midbel/codecs/xslt"

	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// Compile materializes the instrumented DOM to a temporary file (the
// midbel/codecs loader resolves xsl:import/xsl:include relative to a file
// on disk, not an in-memory tree), loads it, registers the dbg:break and
// dbg:var extension functions against the stylesheet's own evaluation
// environment, and returns a Runner. Every xslt.Context the engine creates
// for this stylesheet (one per template invocation, via its internal
// createContext/clone) derives its function scope from that environment, so
// registering there once, before the first Execute, is enough to make both
// probes visible for the life of the compiled Runner.
func Compile(backendName string, doc *xmlmodel.Document, hook probe.Hook) (dbgengine.Runner, error) {
	dir, err := os.MkdirTemp("", "xsltdbg-"+backendName+"-*")
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", backendName, err)
	}
	path := filepath.Join(dir, "instrumented.xsl")
	if err := doc.WriteFile(path); err != nil {
		return nil, fmt.Errorf("%s backend: %w", backendName, err)
	}

	sheet, err := xslt.Load(path, dir)
	if err != nil {
		return nil, translateCompileError(backendName, doc, err)
	}

	registerProbeFunctions(sheet, hook)

	return &runner{sheet: sheet}, nil
}

// translateCompileError wraps a raw codecs compilation error with the
// original stylesheet path, so the Engine Abstraction can surface it as a
// (file, line, column, message) diagnostic. codecs doesn't
// expose structured position info in the pack's retrieved surface, so line
// and column are left at the caller's original path/0 until that surface is
// confirmed; the message itself still carries whatever position text the
// engine embedded.
func translateCompileError(backendName string, doc *xmlmodel.Document, cause error) error {
	return &dbgengine.CompileError{
		File:    doc.Path,
		Message: fmt.Sprintf("%s backend: %v", backendName, cause),
	}
}

// registerProbeFunctions wires dbg:break and dbg:var into sheet.Env, the
// exported environment every xslt.Context the engine creates for this
// stylesheet encloses (xslt.Context has no exported constructor, so this is
// the one reachable hook before the stylesheet is ever executed).
func registerProbeFunctions(sheet *xslt.Stylesheet, hook probe.Hook) {
	sheet.Env.RegisterFunc(xmlmodel.DebugPrefix+":"+probe.FunctionBreak, func(ctx xpath.Context, args []xpath.Expr) (xpath.Sequence, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("dbg:break: expected at least 2 arguments, got %d", len(args))
		}
		line, err := evalInt(ctx, args[0])
		if err != nil {
			return nil, fmt.Errorf("dbg:break: line argument: %w", err)
		}
		ctxNode, err := evalSeq(ctx, args[1])
		if err != nil {
			return nil, fmt.Errorf("dbg:break: context argument: %w", err)
		}

		ev := probe.BreakEvent{Line: line, Context: ctxNode, Depth: contextDepth(ctx)}
		if len(args) > 2 {
			raw, err := evalString(ctx, args[2])
			if err != nil {
				return nil, fmt.Errorf("dbg:break: descriptor argument: %w", err)
			}
			match, name := probe.ParseTemplateDescriptor(raw)
			ev.TemplateEntry = true
			ev.TemplateMatch = match
			ev.TemplateName = name
		}

		hook.OnBreak(ev)
		return nil, nil // probes always return empty-sequence()
	})

	sheet.Env.RegisterFunc(xmlmodel.DebugPrefix+":"+probe.FunctionVar, func(ctx xpath.Context, args []xpath.Expr) (xpath.Sequence, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("dbg:var: expected 2 arguments, got %d", len(args))
		}
		name, err := evalString(ctx, args[0])
		if err != nil {
			return nil, fmt.Errorf("dbg:var: name argument: %w", err)
		}
		value, err := evalString(ctx, args[1])
		if err != nil {
			return nil, fmt.Errorf("dbg:var: value argument: %w", err)
		}
		hook.OnVar(probe.VarEvent{Name: name, Value: value})
		return nil, nil
	})
}

// contextDepth recovers the backend's call-stack depth for this probe
// invocation. The evaluator hands every registered function the xslt.Context
// it is currently evaluating against (as the xpath.Context interface
// argument); that concrete context's Depth field increases by one on every
// nested template/context clone, which is exactly the signal
// stepctl.Controller needs to detect a template exit. Anything that doesn't
// evaluate through an *xslt.Context leaves depth at 0.
func contextDepth(ctx xpath.Context) int {
	if xc, ok := ctx.(*xslt.Context); ok {
		return xc.Depth
	}
	return 0
}

func evalSeq(ctx xpath.Context, e xpath.Expr) (xpath.Sequence, error) {
	return e.Eval(ctx)
}

func evalString(ctx xpath.Context, e xpath.Expr) (string, error) {
	seq, err := evalSeq(ctx, e)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(fmt.Sprint(seq)), nil
}

func evalInt(ctx xpath.Context, e xpath.Expr) (int, error) {
	s, err := evalString(ctx, e)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// runner drives one compiled stylesheet over one input document.
type runner struct {
	sheet *xslt.Stylesheet
}

func (r *runner) Run(inputPath, outputPath string, onDiagnostic func(line string)) error {
	node, err := r.sheet.LoadDocument(inputPath)
	if err != nil {
		return fmt.Errorf("load input %s: %w", inputPath, err)
	}
	doc, ok := node.(*xml.Document)
	if !ok {
		return fmt.Errorf("load input %s: expected a document root, got %T", inputPath, node)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output %s: %w", outputPath, err)
	}
	defer out.Close()

	if err := r.sheet.Generate(out, doc); err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	return nil
}
