package mcpadapter

import (
	"sync"

	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/session"
)

// recordingEvents implements dbgengine.Events by buffering output lines
// instead of streaming them anywhere, since an MCP tool call is a single
// request/response round trip with no open channel back to the caller
// between calls. Status, variables, and breakpoint verification are all
// queryable directly from the Engine, so this only needs to remember what
// Output delivers — the one event with no other accessor.
type recordingEvents struct {
	mu     sync.Mutex
	output []string
}

func newRecordingEvents() *recordingEvents {
	return &recordingEvents{}
}

func (r *recordingEvents) Stopped(file string, line int, reason session.Reason) {}

func (r *recordingEvents) Output(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output = append(r.output, text)
}

func (r *recordingEvents) Terminated(exitCode int) {}

func (r *recordingEvents) VariableCaptured(name, value string) {}

func (r *recordingEvents) BreakpointsResolved(file string, lines []dbgengine.BreakpointStatus) {}

// recentOutput drains and returns everything captured by Output since the
// last drain, so repeated "status" polls don't repeat old lines.
func (r *recordingEvents) recentOutput() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.output
	r.output = nil
	return out
}
