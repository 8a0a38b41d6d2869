package dbgengine

import (
	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/session"
	"github.com/imdj360/xsltdbg/pkg/stepctl"
	"github.com/imdj360/xsltdbg/pkg/tracelog"
)

// probeHook implements probe.Hook, the contract a backend calls into on
// every dbg:break/dbg:var invocation. It runs on the
// transforming thread (T1): OnBreak may block inside the step controller.
type probeHook struct {
	file     string
	ctl      *stepctl.Controller
	state    *session.State
	events   Events
	trace    *tracelog.Writer
	traceAll bool // only LogTraceAll gets a tracelog entry per probe
}

func (h *probeHook) OnBreak(ev probe.BreakEvent) {
	if h.traceAll && h.trace != nil {
		h.trace.EmitProbeDispatch("break", ev.Line)
	}
	if ev.TemplateEntry {
		match, name := ev.TemplateMatch, ev.TemplateName
		descriptor := match
		if descriptor == "" {
			descriptor = name
		}
		h.events.Output("[template-entry] " + descriptor)
	}
	h.ctl.HandleProbe(h.file, ev)
}

func (h *probeHook) OnVar(ev probe.VarEvent) {
	if h.traceAll && h.trace != nil {
		h.trace.EmitProbeDispatch("var", 0)
	}
	h.state.SetVar(ev.Name, ev.Value)
	h.events.VariableCaptured(ev.Name, ev.Value)
}

// controllerSink adapts stepctl's EventSink to Events.Stopped.
type controllerSink struct {
	events Events
}

func (s *controllerSink) Stopped(file string, line int, reason session.Reason, frame int) {
	s.events.Stopped(file, line, reason)
}
