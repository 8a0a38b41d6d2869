package stepctl

import (
	"testing"
	"time"

	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/session"
)

type stoppedEvent struct {
	file   string
	line   int
	reason session.Reason
	frame  int
}

type fakeSink struct {
	ch chan stoppedEvent
}

func newFakeSink() *fakeSink {
	return &fakeSink{ch: make(chan stoppedEvent, 16)}
}

func (f *fakeSink) Stopped(file string, line int, reason session.Reason, frame int) {
	f.ch <- stoppedEvent{file, line, reason, frame}
}

func (f *fakeSink) next(t *testing.T) stoppedEvent {
	t.Helper()
	select {
	case ev := <-f.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a stopped event")
		return stoppedEvent{}
	}
}

func (f *fakeSink) expectNone(t *testing.T) {
	t.Helper()
	select {
	case ev := <-f.ch:
		t.Fatalf("expected no stopped event, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestController_ContinuePausesOnlyAtBreakpoints(t *testing.T) {
	state := session.New()
	state.SetBreakpoints("a.xsl", []int{20})
	sink := newFakeSink()
	c := New(state, sink, false)

	done := make(chan struct{})
	go func() {
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 10})
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 20})
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 30})
		close(done)
	}()

	ev := sink.next(t)
	if ev.line != 20 || ev.reason != session.ReasonBreakpoint {
		t.Fatalf("got %+v, want line 20 reason breakpoint", ev)
	}
	c.Continue()
	<-done
	sink.expectNone(t)
}

func TestController_StepInPausesEveryProbe(t *testing.T) {
	state := session.New()
	sink := newFakeSink()
	c := New(state, sink, false)
	c.mode = StepIn

	done := make(chan struct{})
	go func() {
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 1})
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 2})
		close(done)
	}()

	ev1 := sink.next(t)
	if ev1.line != 1 || ev1.reason != session.ReasonStep {
		t.Fatalf("got %+v, want line 1 reason step", ev1)
	}
	c.StepIn()

	ev2 := sink.next(t)
	if ev2.line != 2 {
		t.Fatalf("got %+v, want line 2", ev2)
	}
	c.StepIn()
	<-done
}

func TestController_StepOverBound(t *testing.T) {
	state := session.New()
	sink := newFakeSink()
	c := New(state, sink, false)
	c.mode = StepIn

	done := make(chan struct{})
	go func() {
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 1, Depth: 1, TemplateEntry: true}) // frame 1, pause
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 2, Depth: 2, TemplateEntry: true}) // frame 2
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 3, Depth: 2})                      // frame 2
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 4, Depth: 1})                      // depth drop -> frame 1, pause
		close(done)
	}()

	first := sink.next(t)
	if first.frame != 1 {
		t.Fatalf("first pause frame = %d, want 1", first.frame)
	}
	c.StepOver() // baseline = 1

	second := sink.next(t)
	if second.line != 4 {
		t.Fatalf("expected next pause at line 4, got %+v", second)
	}
	if second.frame > first.frame {
		t.Errorf("step-over bound violated: frame %d > baseline %d", second.frame, first.frame)
	}
	c.Continue()
	<-done
}

func TestController_StepOutBound(t *testing.T) {
	state := session.New()
	sink := newFakeSink()
	c := New(state, sink, false)
	c.mode = StepIn

	done := make(chan struct{})
	go func() {
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 1, Depth: 1, TemplateEntry: true}) // frame 1, pause
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 2, Depth: 2, TemplateEntry: true}) // frame 2
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 3, Depth: 2})                      // frame 2
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 4, Depth: 1})                      // frame 1
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 5, Depth: 0})                      // frame 0, pause
		close(done)
	}()

	first := sink.next(t)
	if first.frame != 1 {
		t.Fatalf("first pause frame = %d, want 1", first.frame)
	}
	c.StepOut() // target = 1

	second := sink.next(t)
	if second.line != 5 {
		t.Fatalf("expected next pause at line 5, got %+v", second)
	}
	if second.frame >= first.frame {
		t.Errorf("step-out bound violated: frame %d >= target %d", second.frame, first.frame)
	}
	c.Continue()
	<-done
}

func TestController_EntryReasonOnlyOnFirstPause(t *testing.T) {
	state := session.New()
	sink := newFakeSink()
	c := New(state, sink, true) // starts in StepIn so the first probe always pauses

	done := make(chan struct{})
	go func() {
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 1, TemplateEntry: true})
		c.HandleProbe("a.xsl", probe.BreakEvent{Line: 2})
		close(done)
	}()

	first := sink.next(t)
	if first.reason != session.ReasonEntry {
		t.Errorf("first pause reason = %v, want Entry", first.reason)
	}
	c.StepIn()

	second := sink.next(t)
	if second.reason != session.ReasonStep {
		t.Errorf("second pause reason = %v, want Step", second.reason)
	}
	c.Continue()
	<-done
}
