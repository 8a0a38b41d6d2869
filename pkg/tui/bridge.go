package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/session"
)

// --- Tea messages delivered from the engine's event callbacks ---

type stoppedMsg struct {
	file   string
	line   int
	reason session.Reason
}

type outputMsg struct{ text string }

type terminatedMsg struct{ exitCode int }

type variableCapturedMsg struct{ name, value string }

type breakpointsResolvedMsg struct {
	file  string
	lines []dbgengine.BreakpointStatus
}

// bridgeEvents implements dbgengine.Events by forwarding every callback as a
// tea.Msg onto a channel the Bubble Tea program drains with a listen
// command — the same "callback thread writes, program loop reads" shape
// an RPC-client bridge would use, with the transport replaced by a plain
// Go channel since the engine already runs in-process.
//
// The channel is large enough to never block the transforming thread (T1)
// on a slow terminal redraw; Output in particular can be called once per
// diagnostic line during a run.
type bridgeEvents struct {
	ch chan tea.Msg
}

func newBridgeEvents() *bridgeEvents {
	return &bridgeEvents{ch: make(chan tea.Msg, 256)}
}

func (b *bridgeEvents) Stopped(file string, line int, reason session.Reason) {
	b.ch <- stoppedMsg{file: file, line: line, reason: reason}
}

func (b *bridgeEvents) Output(text string) {
	b.ch <- outputMsg{text: text}
}

func (b *bridgeEvents) Terminated(exitCode int) {
	b.ch <- terminatedMsg{exitCode: exitCode}
}

func (b *bridgeEvents) VariableCaptured(name, value string) {
	b.ch <- variableCapturedMsg{name: name, value: value}
}

func (b *bridgeEvents) BreakpointsResolved(file string, lines []dbgengine.BreakpointStatus) {
	b.ch <- breakpointsResolvedMsg{file: file, lines: lines}
}

// listen returns a tea.Cmd that waits for the next engine event.
func (b *bridgeEvents) listen() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.ch
		if !ok {
			return engineClosedMsg{}
		}
		return msg
	}
}

// engineClosedMsg signals the event channel was closed (never happens in
// practice — the engine outlives the TUI process — kept for symmetry with
// a defensive stop condition for Update's listen loop, even though the
// engine in practice outlives the TUI process).
type engineClosedMsg struct{}
