package dbgengine

import "github.com/imdj360/xsltdbg/pkg/session"

// BreakpointStatus is one line of a setBreakpoints response.
type BreakpointStatus struct {
	Line     int
	Verified bool
}

// Events is the adapter-facing event vocabulary. The Engine
// Abstraction delivers these by direct callback on the transforming thread
// (T1); the adapter is expected to hand them off to its own queue.
type Events interface {
	Stopped(file string, line int, reason session.Reason)
	Output(text string)
	Terminated(exitCode int)
	VariableCaptured(name, value string)
	BreakpointsResolved(file string, lines []BreakpointStatus)
}
