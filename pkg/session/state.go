// Package session implements the debugger's Session State: the
// breakpoint table, variable store, frame counter, status, and the
// single-slot rendezvous mailbox that a step controller blocks the
// transforming thread on.
package session

import (
	"sort"
	"sync"
)

// Reason is why a Paused status was entered.
type Reason string

const (
	ReasonEntry      Reason = "entry"
	ReasonBreakpoint Reason = "breakpoint"
	ReasonStep       Reason = "step"
	ReasonException  Reason = "exception"
)

// Kind is the coarse session status.
type Kind int

const (
	Idle Kind = iota
	Running
	Paused
	Terminated
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Status is the session's current stop tuple. File/Line/Reason are
// meaningful only when Kind == Paused; ExitCode only when Kind == Terminated.
type Status struct {
	Kind     Kind
	File     string
	Line     int
	Reason   Reason
	ExitCode int
}

// State bundles the breakpoint table, variable store, frame counter and
// status behind one mutex.
type State struct {
	mu sync.Mutex

	bps    map[string]map[int]bool
	vars   map[string]string
	frame  int
	status Status
}

// New returns a fresh, Idle session state.
func New() *State {
	return &State{
		bps:    make(map[string]map[int]bool),
		vars:   make(map[string]string),
		status: Status{Kind: Idle},
	}
}

// SetBreakpoints replaces file's breakpoint set and returns the normalized
// (deduplicated, sorted) line list.
func (s *State) SetBreakpoints(file string, lines []int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[int]bool, len(lines))
	for _, l := range lines {
		set[l] = true
	}
	s.bps[file] = set

	out := make([]int, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// HasBreakpoint reports whether line is a set breakpoint in file.
func (s *State) HasBreakpoint(file string, line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bps[file][line]
}

// Breakpoints returns the current, sorted breakpoint lines for file.
func (s *State) Breakpoints(file string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.bps[file]))
	for l := range s.bps[file] {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// SetVar overwrites name's last observed value.
func (s *State) SetVar(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

// Var returns name's last observed value.
func (s *State) Var(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vars[name]
	return v, ok
}

// Variables returns a point-in-time copy of the whole flat variable scope.
func (s *State) Variables() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// ClearVariables empties the variable store.
func (s *State) ClearVariables() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars = make(map[string]string)
}

// EnterFrame increments the frame counter on a template entry and returns
// the new value.
func (s *State) EnterFrame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame++
	return s.frame
}

// ExitFrame decrements the frame counter, floored at 0. The counter is 0 on
// start and 0 on terminate for a well-nested run; the floor guards against
// over-counting a detected exit on a malformed trace.
func (s *State) ExitFrame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame > 0 {
		s.frame--
	}
	return s.frame
}

// Frame returns the current frame counter value.
func (s *State) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Status returns the current session status.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus replaces the current session status.
func (s *State) SetStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// Reset returns the state to Idle/start condition: variables cleared, frame
// counter zeroed, status Idle. The breakpoint table survives resets — it is
// mutable for the lifetime of a session.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars = make(map[string]string)
	s.frame = 0
	s.status = Status{Kind: Idle}
}
