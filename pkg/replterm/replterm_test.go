package replterm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/probe"
	"github.com/imdj360/xsltdbg/pkg/session"
	"github.com/imdj360/xsltdbg/pkg/xmlmodel"
)

// noopBackend never produces any probes; Run returns immediately.
type noopBackend struct{}

func (noopBackend) Name() string { return "noop" }
func (noopBackend) Compile(doc *xmlmodel.Document, hook probe.Hook) (dbgengine.Runner, error) {
	return noopRunner{}, nil
}

type noopRunner struct{}

func (noopRunner) Run(inputPath, outputPath string, onDiagnostic func(string)) error { return nil }

type discardEvents struct{}

func (discardEvents) Stopped(string, int, session.Reason)              {}
func (discardEvents) Output(string)                                    {}
func (discardEvents) Terminated(int)                                   {}
func (discardEvents) VariableCaptured(string, string)                  {}
func (discardEvents) BreakpointsResolved(string, []dbgengine.BreakpointStatus) {}

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	engine := dbgengine.New(noopBackend{}, discardEvents{})
	var buf bytes.Buffer
	return New(engine, &buf), &buf
}

func TestDispatch_VarsWithNoCaptures(t *testing.T) {
	c, buf := newTestConsole(t)
	if quit := c.dispatch([]string{"vars"}); quit {
		t.Error("vars should not quit the console")
	}
	if !strings.Contains(buf.String(), "no variables captured") {
		t.Errorf("output = %q, want a no-captures message", buf.String())
	}
}

func TestDispatch_ContinueBeforeStartIsIllegal(t *testing.T) {
	c, buf := newTestConsole(t)
	c.dispatch([]string{"continue"})
	if !strings.Contains(buf.String(), "error:") {
		t.Errorf("output = %q, want an error for continue before start", buf.String())
	}
}

func TestDispatch_Quit(t *testing.T) {
	c, _ := newTestConsole(t)
	if quit := c.dispatch([]string{"quit"}); !quit {
		t.Error("quit should return true")
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	c, buf := newTestConsole(t)
	c.dispatch([]string{"frobnicate"})
	if !strings.Contains(buf.String(), "unknown command") {
		t.Errorf("output = %q, want an unknown-command message", buf.String())
	}
}

func TestDispatch_WatchEvaluatesOverVariables(t *testing.T) {
	c, buf := newTestConsole(t)
	c.dispatch([]string{"watch", `1+1`})
	if !strings.Contains(buf.String(), "2") {
		t.Errorf("output = %q, want watch result 2", buf.String())
	}
}
