package mcpadapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/imdj360/xsltdbg/pkg/config"
	"github.com/imdj360/xsltdbg/pkg/session"
	"github.com/imdj360/xsltdbg/pkg/watch"
)

// HandleStart implements the xsltdbg/start MCP tool.
func (a *Adapter) HandleStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	stylesheetPath, _ := args["stylesheetPath"].(string)
	inputPath, _ := args["inputPath"].(string)
	if stylesheetPath == "" || inputPath == "" {
		return errorResult("stylesheetPath and inputPath arguments are required"), nil
	}
	outputPath, _ := args["outputPath"].(string)
	engine, _ := args["engine"].(string)

	stopOnEntry, _ := args["stopOnEntry"].(string)
	instrumentFunctions, _ := args["instrumentFunctions"].(string)

	opts := &config.LaunchOptions{
		StylesheetPath:      stylesheetPath,
		InputPath:           inputPath,
		OutputPath:          outputPath,
		Engine:              engine,
		StopOnEntry:         stopOnEntry == "true",
		InstrumentFunctions: instrumentFunctions == "true",
	}
	if opts.Engine == "" {
		opts.Engine = "modern"
	}

	if errs := config.Validate(opts); len(errs) != 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return errorResult(strings.Join(msgs, "; ")), nil
	}

	if err := a.startSession(opts); err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(fmt.Sprintf("session started: %s via %s engine", stylesheetPath, opts.Engine)), nil
}

// HandleContinue implements the xsltdbg/continue MCP tool.
func (a *Adapter) HandleContinue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}
	return a.runCommand(eng.Continue())
}

// HandleStepIn implements the xsltdbg/stepIn MCP tool.
func (a *Adapter) HandleStepIn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}
	return a.runCommand(eng.StepIn())
}

// HandleStepOver implements the xsltdbg/stepOver MCP tool.
func (a *Adapter) HandleStepOver(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}
	return a.runCommand(eng.StepOver())
}

// HandleStepOut implements the xsltdbg/stepOut MCP tool.
func (a *Adapter) HandleStepOut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}
	return a.runCommand(eng.StepOut())
}

// HandleTerminate implements the xsltdbg/terminate MCP tool.
func (a *Adapter) HandleTerminate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}
	return a.runCommand(eng.Terminate())
}

func (a *Adapter) runCommand(err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult("ok"), nil
}

// HandleSetBreakpoints implements the xsltdbg/setBreakpoints MCP tool.
func (a *Adapter) HandleSetBreakpoints(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}

	args := req.GetArguments()
	file, _ := args["file"].(string)
	rawLines, _ := args["lines"].(string)
	if file == "" || rawLines == "" {
		return errorResult("file and lines arguments are required"), nil
	}

	var lines []int
	for _, part := range strings.Split(rawLines, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid line number %q: %v", part, err)), nil
		}
		lines = append(lines, n)
	}

	statuses := eng.SetBreakpoints(file, lines)
	var sb strings.Builder
	for _, st := range statuses {
		fmt.Fprintf(&sb, "line %d: verified=%t\n", st.Line, st.Verified)
	}
	return textResult(sb.String()), nil
}

// HandleVars implements the xsltdbg/vars MCP tool.
func (a *Adapter) HandleVars(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}
	vars := eng.Variables()
	if len(vars) == 0 {
		return textResult("no variables captured."), nil
	}
	var sb strings.Builder
	for k, v := range vars {
		fmt.Fprintf(&sb, "%s = %q\n", k, v)
	}
	return textResult(sb.String()), nil
}

// HandleWatch implements the xsltdbg/watch MCP tool.
func (a *Adapter) HandleWatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return errorResult(errNoSession.Error()), nil
	}
	args := req.GetArguments()
	expression, _ := args["expression"].(string)
	if expression == "" {
		return errorResult("expression argument is required"), nil
	}
	result, err := watch.Evaluate(expression, eng.Variables())
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(result), nil
}

// HandleStatus implements the xsltdbg/status MCP tool.
func (a *Adapter) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := a.currentEngine()
	if eng == nil {
		return textResult("no session started."), nil
	}
	st := eng.Status()

	var sb strings.Builder
	fmt.Fprintf(&sb, "status: %s\n", st.Kind)
	if st.Kind == session.Paused {
		fmt.Fprintf(&sb, "at %s:%d (%s)\n", st.File, st.Line, st.Reason)
	}
	if st.Kind == session.Terminated {
		fmt.Fprintf(&sb, "exit code: %d\n", st.ExitCode)
	}

	if events := a.currentEvents(); events != nil {
		for _, line := range events.recentOutput() {
			fmt.Fprintf(&sb, "output: %s\n", line)
		}
	}
	return textResult(sb.String()), nil
}

// HandleSchema implements the xsltdbg/schema MCP tool.
func (a *Adapter) HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := config.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(msg)},
		IsError: true,
	}
}
