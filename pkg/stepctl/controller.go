// Package stepctl implements the Step Controller: the state
// machine that decides, for every probe invocation, whether to pause the
// transforming thread or let it run on.
package stepctl

import (
	"sync"

	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/session"
)

// Mode is the controller's current stepping intent.
type Mode int

const (
	Continue Mode = iota
	StepIn
	StepOver
	StepOut
)

// Command is what the adapter thread (T2) puts into the rendezvous to
// resume the transforming thread with a new mode.
type Command struct {
	Mode     Mode
	Baseline int // StepOver: the frame the step started from
	Target   int // StepOut: the frame to return below
}

// EventSink receives the controller's stopped notifications, delivered by
// direct callback on the transforming thread.
type EventSink interface {
	Stopped(file string, line int, reason session.Reason, frame int)
}

// Controller is the central per-session state machine. It is
// not safe for use by more than one transforming thread, matching the
// single-T1 concurrency model.
type Controller struct {
	mu sync.Mutex

	state       *session.State
	sink        EventSink
	rendez      *session.Rendezvous[Command]
	stopOnEntry bool

	mode     Mode
	baseline int
	target   int

	lastDepth       int
	lastPausedFrame int
	firstPauseDone  bool
	terminated      bool
}

// New returns a controller backed by state, delivering pause notifications
// to sink. When stopOnEntry is set, the controller starts in StepIn mode so
// the very first probe pauses unconditionally, with reason Entry.
func New(state *session.State, sink EventSink, stopOnEntry bool) *Controller {
	mode := Continue
	if stopOnEntry {
		mode = StepIn
	}
	return &Controller{
		state:       state,
		sink:        sink,
		rendez:      session.NewRendezvous[Command](),
		stopOnEntry: stopOnEntry,
		mode:        mode,
	}
}

// HandleProbe is called synchronously on the transforming thread for every
// probe invocation. It updates the frame counter, decides whether to pause,
// and if so blocks until the adapter thread supplies the next Command.
func (c *Controller) HandleProbe(file string, ev probe.BreakEvent) {
	c.mu.Lock()

	if ev.Depth < c.lastDepth {
		for i := 0; i < c.lastDepth-ev.Depth; i++ {
			c.state.ExitFrame()
		}
	}
	if ev.TemplateEntry {
		c.state.EnterFrame()
	}
	c.lastDepth = ev.Depth
	frame := c.state.Frame()

	if c.terminated {
		c.mu.Unlock()
		return
	}

	pause := c.shouldPauseLocked(file, ev.Line, frame)
	if !pause {
		c.mu.Unlock()
		return
	}

	reason := c.reasonForLocked(file, ev.Line)
	c.lastPausedFrame = frame
	c.mu.Unlock()

	c.state.SetStatus(session.Status{Kind: session.Paused, File: file, Line: ev.Line, Reason: reason})
	c.sink.Stopped(file, ev.Line, reason, frame)

	cmd := c.rendez.Take()

	c.mu.Lock()
	c.mode = cmd.Mode
	c.baseline = cmd.Baseline
	c.target = cmd.Target
	c.mu.Unlock()

	c.state.SetStatus(session.Status{Kind: session.Running})
}

func (c *Controller) shouldPauseLocked(file string, line, frame int) bool {
	bp := c.state.HasBreakpoint(file, line)
	switch c.mode {
	case Continue:
		return bp
	case StepIn:
		return true
	case StepOver:
		return frame <= c.baseline || bp
	case StepOut:
		return frame < c.target || bp
	default:
		return bp
	}
}

func (c *Controller) reasonForLocked(file string, line int) session.Reason {
	if c.state.HasBreakpoint(file, line) {
		c.firstPauseDone = true
		return session.ReasonBreakpoint
	}
	if !c.firstPauseDone && c.stopOnEntry {
		c.firstPauseDone = true
		return session.ReasonEntry
	}
	c.firstPauseDone = true
	return session.ReasonStep
}

// Continue resumes a paused transformation and runs it until a breakpoint.
func (c *Controller) Continue() { c.rendez.Put(Command{Mode: Continue}) }

// StepIn resumes and pauses again at the next probe, unconditionally.
func (c *Controller) StepIn() { c.rendez.Put(Command{Mode: StepIn}) }

// StepOver resumes and pauses again once the frame drops to or below the
// frame recorded at the last pause.
func (c *Controller) StepOver() {
	c.mu.Lock()
	base := c.lastPausedFrame
	c.mu.Unlock()
	c.rendez.Put(Command{Mode: StepOver, Baseline: base})
}

// StepOut resumes and pauses again once the frame drops strictly below the
// frame recorded at the last pause.
func (c *Controller) StepOut() {
	c.mu.Lock()
	target := c.lastPausedFrame
	c.mu.Unlock()
	c.rendez.Put(Command{Mode: StepOut, Target: target})
}

// Terminate unblocks a paused transforming thread in Continue mode and
// marks the controller so any further probe becomes a no-op.
func (c *Controller) Terminate() {
	c.mu.Lock()
	c.terminated = true
	c.mu.Unlock()
	c.rendez.Put(Command{Mode: Continue})
}

// PausedFrame returns the frame counter value recorded at the most recent pause.
func (c *Controller) PausedFrame() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPausedFrame
}
