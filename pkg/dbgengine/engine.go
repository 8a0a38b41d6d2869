// Package dbgengine implements the Engine Abstraction: the
// common façade the adapter drives, shared above two interchangeable
// backends (Legacy 1.0, Modern 2.0/3.0).
package dbgengine

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/imdj360/xsltdbg/pkg/instrument"
	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/session"
	"github.com/imdj360/xsltdbg/pkg/stepctl"
	"github.com/imdj360/xsltdbg/pkg/tracelog"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// LogLevel gates diagnostic verbosity only; it never changes instrumentation
// decisions.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogLog
	LogTrace
	LogTraceAll
)

// Options are the launch-time named parameters.
type Options struct {
	StylesheetPath      string
	InputPath           string
	OutputPath          string // "" selects the <outDir>/<stylesheetName>.out.xml convention
	Engine              string // "legacy" | "modern"
	StopOnEntry         bool
	LogLevel            LogLevel
	InstrumentFunctions bool

	// Trace, if non-nil, receives the internal diagnostic trail (pkg/tracelog).
	// It is gated by LogLevel: Log and above gets compile/instrument
	// summaries, Trace and above also gets step-command events, and TraceAll
	// also gets per-probe dispatch events. It is
	// independent of the adapter-facing output event stream emitted through
	// Events.
	Trace *tracelog.Writer
}

// Exit codes.
const (
	ExitSuccess         = 0
	ExitCompilationFail = 1
	ExitRuntimeFail     = 2
	ExitTerminatedByUser = 130
)

// Engine is the per-session façade. One Engine is bound 1:1 to
// one session.
type Engine struct {
	mu sync.Mutex

	backend Backend
	events  Events

	state *session.State
	ctl   *stepctl.Controller

	file           string // normalized stylesheet path, the breakpoint table key
	result         *instrument.Result
	userTerminated bool
	doneCh         chan struct{}
	trace          *tracelog.Writer
	logLevel       LogLevel
}

// New returns an Idle engine that will use backend to compile and run
// transforms, delivering events to sink.
func New(backend Backend, events Events) *Engine {
	return &Engine{
		backend: backend,
		events:  events,
		state:   session.New(),
	}
}

func (e *Engine) illegal(cmd string) error {
	st := e.state.Status()
	msg := fmt.Sprintf("illegal command %q in state %s", cmd, st.Kind)
	e.events.Output(msg)
	return fmt.Errorf("dbgengine: %s", msg)
}

// Start begins a background transformation. It returns once the
// background goroutine has been launched, not once the transform finishes.
func (e *Engine) Start(opts Options) error {
	e.mu.Lock()
	if st := e.state.Status(); st.Kind != session.Idle && st.Kind != session.Terminated {
		e.mu.Unlock()
		return e.illegal("start")
	}
	e.state.Reset()
	e.userTerminated = false
	e.file = filepath.Clean(opts.StylesheetPath)
	e.doneCh = make(chan struct{})
	e.trace = opts.Trace
	e.logLevel = opts.LogLevel
	e.mu.Unlock()

	e.state.SetStatus(session.Status{Kind: session.Running})
	go e.run(opts)
	return nil
}

// Wait blocks until the most recently started run reaches Terminated. It
// exists for tests and CLI front ends driving the engine synchronously; the
// adapter itself never needs it, since completion is reported via the
// terminated event.
func (e *Engine) Wait() {
	e.mu.Lock()
	ch := e.doneCh
	e.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (e *Engine) run(opts Options) {
	defer close(e.doneCh)

	doc, err := xmlmodel.Load(opts.StylesheetPath)
	if err != nil {
		e.events.Output(err.Error())
		e.terminate(ExitCompilationFail)
		return
	}

	result, err := instrument.Run(doc, instrument.Options{
		Backend:             opts.Engine,
		InstrumentFunctions: opts.InstrumentFunctions,
	})
	if err != nil {
		e.events.Output(err.Error())
		e.terminate(ExitCompilationFail)
		return
	}
	e.mu.Lock()
	e.result = result
	e.mu.Unlock()

	if opts.LogLevel >= LogLog {
		for _, d := range result.Diagnostics {
			e.events.Output(d)
		}
		if opts.Trace != nil {
			opts.Trace.EmitInstrumentComplete(len(result.InstrumentedLines), result.VariableCaptures)
		}
	}

	ctl := stepctl.New(e.state, &controllerSink{events: e.events}, opts.StopOnEntry)
	e.mu.Lock()
	e.ctl = ctl
	e.mu.Unlock()

	hook := &probeHook{file: e.file, ctl: ctl, state: e.state, events: e.events, trace: opts.Trace, traceAll: opts.LogLevel >= LogTraceAll}

	if opts.Trace != nil && opts.LogLevel >= LogLog {
		opts.Trace.EmitCompileStart(opts.Engine, opts.StylesheetPath)
	}
	compileStart := time.Now()
	runner, err := e.backend.Compile(doc, hook)
	if opts.Trace != nil && opts.LogLevel >= LogLog {
		opts.Trace.EmitCompileComplete(opts.Engine, time.Since(compileStart), err)
	}
	if err != nil {
		e.events.Output(err.Error())
		e.terminate(ExitCompilationFail)
		return
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		ext := filepath.Ext(opts.StylesheetPath)
		base := opts.StylesheetPath[:len(opts.StylesheetPath)-len(ext)]
		outputPath = base + ".out.xml"
	}

	runErr := runner.Run(opts.InputPath, outputPath, func(line string) {
		if ev, ok := probe.DecodeDiagnosticLine(line); ok {
			hook.OnVar(ev)
			return
		}
		e.events.Output(line)
	})

	e.mu.Lock()
	terminatedByUser := e.userTerminated
	e.mu.Unlock()

	switch {
	case terminatedByUser:
		e.terminate(ExitTerminatedByUser)
	case runErr != nil:
		e.events.Output(runErr.Error())
		e.terminate(ExitRuntimeFail)
	default:
		e.terminate(ExitSuccess)
	}
}

func (e *Engine) terminate(code int) {
	e.state.SetStatus(session.Status{Kind: session.Terminated, ExitCode: code})
	e.events.Terminated(code)
	e.mu.Lock()
	tw := e.trace
	e.mu.Unlock()
	if tw != nil {
		tw.EmitSessionTerminated(code)
	}
}

// SetBreakpoints replaces file's breakpoint set and reports verified status
// per line.
func (e *Engine) SetBreakpoints(file string, lines []int) []BreakpointStatus {
	normalized := e.state.SetBreakpoints(file, lines)

	e.mu.Lock()
	result := e.result
	known := e.file
	e.mu.Unlock()

	statuses := make([]BreakpointStatus, 0, len(normalized))
	for _, l := range normalized {
		verified := result != nil && filepath.Clean(file) == known && result.InstrumentedLines[l]
		statuses = append(statuses, BreakpointStatus{Line: l, Verified: verified})
	}
	e.events.BreakpointsResolved(file, statuses)
	return statuses
}

func (e *Engine) pausedController(cmd string) (*stepctl.Controller, error) {
	e.mu.Lock()
	ctl := e.ctl
	e.mu.Unlock()
	if ctl == nil || e.state.Status().Kind != session.Paused {
		return nil, e.illegal(cmd)
	}
	return ctl, nil
}

func (e *Engine) traceStepCommand(cmd string) {
	e.mu.Lock()
	tw, level := e.trace, e.logLevel
	e.mu.Unlock()
	if tw != nil && level >= LogTrace {
		tw.EmitStepCommand(cmd)
	}
}

// Continue is only valid while Paused.
func (e *Engine) Continue() error {
	ctl, err := e.pausedController("continue")
	if err != nil {
		return err
	}
	e.traceStepCommand("continue")
	ctl.Continue()
	return nil
}

// StepIn is only valid while Paused.
func (e *Engine) StepIn() error {
	ctl, err := e.pausedController("stepIn")
	if err != nil {
		return err
	}
	e.traceStepCommand("stepIn")
	ctl.StepIn()
	return nil
}

// StepOver is only valid while Paused.
func (e *Engine) StepOver() error {
	ctl, err := e.pausedController("stepOver")
	if err != nil {
		return err
	}
	e.traceStepCommand("stepOver")
	ctl.StepOver()
	return nil
}

// StepOut is only valid while Paused.
func (e *Engine) StepOut() error {
	ctl, err := e.pausedController("stepOut")
	if err != nil {
		return err
	}
	e.traceStepCommand("stepOut")
	ctl.StepOut()
	return nil
}

// Terminate is always valid; it forces shutdown.
func (e *Engine) Terminate() error {
	e.mu.Lock()
	if e.state.Status().Kind == session.Terminated {
		e.mu.Unlock()
		return nil
	}
	if e.ctl == nil {
		// Never started, or failed before the controller existed.
		e.mu.Unlock()
		e.terminate(ExitTerminatedByUser)
		return nil
	}
	e.userTerminated = true
	ctl := e.ctl
	e.mu.Unlock()
	ctl.Terminate()
	return nil
}

// Status returns the engine's current session status.
func (e *Engine) Status() session.Status {
	return e.state.Status()
}

// Variables returns a snapshot of the flat variable scope.
func (e *Engine) Variables() map[string]string {
	return e.state.Variables()
}
