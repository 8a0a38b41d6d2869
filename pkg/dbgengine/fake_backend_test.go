package dbgengine

import (
	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// fakeBackend replays a scripted sequence of probe events instead of
// actually compiling/running a stylesheet, so Engine's orchestration can be
// tested without a real XSLT processor.
type fakeBackend struct {
	compileErr error
	script     []probeStep
	runErr     error
}

type probeStep struct {
	breakEv *probe.BreakEvent
	varEv   *probe.VarEvent
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Compile(doc *xmlmodel.Document, hook probe.Hook) (Runner, error) {
	if b.compileErr != nil {
		return nil, b.compileErr
	}
	return &fakeRunner{hook: hook, script: b.script, runErr: b.runErr}, nil
}

type fakeRunner struct {
	hook   probe.Hook
	script []probeStep
	runErr error
}

func (r *fakeRunner) Run(inputPath, outputPath string, onDiagnostic func(string)) error {
	for _, step := range r.script {
		if step.breakEv != nil {
			r.hook.OnBreak(*step.breakEv)
		}
		if step.varEv != nil {
			r.hook.OnVar(*step.varEv)
		}
	}
	return r.runErr
}
