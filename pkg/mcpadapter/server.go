package mcpadapter

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with xsltdbg's debug tools registered,
// via mcp-go's NewMCPServer + AddTool.
func NewServer(version string) *server.MCPServer {
	a := NewAdapter()
	s := server.NewMCPServer(
		"xsltdbg",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("xsltdbg/start",
			mcp.WithDescription("Start a new debug session for an XSLT stylesheet"),
			mcp.WithString("stylesheetPath", mcp.Required(), mcp.Description("Path to the XSLT stylesheet to debug")),
			mcp.WithString("inputPath", mcp.Required(), mcp.Description("Path to the XML input document")),
			mcp.WithString("outputPath", mcp.Description("Path to write the transform result (defaults to <stylesheet>.out.xml)")),
			mcp.WithString("engine", mcp.Description("Backend engine: \"legacy\" or \"modern\" (default modern)")),
			mcp.WithString("stopOnEntry", mcp.Description("\"true\" to pause at the first instrumented line")),
			mcp.WithString("instrumentFunctions", mcp.Description("\"true\" to add a dbg:break probe to each xsl:function's xsl:sequence body (modern engine only)")),
		),
		a.HandleStart,
	)

	s.AddTool(
		mcp.NewTool("xsltdbg/continue",
			mcp.WithDescription("Resume a paused session until the next breakpoint or termination")),
		a.HandleContinue,
	)
	s.AddTool(
		mcp.NewTool("xsltdbg/stepIn",
			mcp.WithDescription("Step into the next template invocation or instruction")),
		a.HandleStepIn,
	)
	s.AddTool(
		mcp.NewTool("xsltdbg/stepOver",
			mcp.WithDescription("Step over the current instruction without descending into called templates")),
		a.HandleStepOver,
	)
	s.AddTool(
		mcp.NewTool("xsltdbg/stepOut",
			mcp.WithDescription("Run until the current template returns to its caller")),
		a.HandleStepOut,
	)

	s.AddTool(
		mcp.NewTool("xsltdbg/setBreakpoints",
			mcp.WithDescription("Replace the breakpoint set for a stylesheet file"),
			mcp.WithString("file", mcp.Required(), mcp.Description("Stylesheet path the breakpoints apply to")),
			mcp.WithString("lines", mcp.Required(), mcp.Description("Comma-separated source line numbers to break on")),
		),
		a.HandleSetBreakpoints,
	)

	s.AddTool(
		mcp.NewTool("xsltdbg/vars",
			mcp.WithDescription("List captured variables in the current session")),
		a.HandleVars,
	)
	s.AddTool(
		mcp.NewTool("xsltdbg/watch",
			mcp.WithDescription("Evaluate an expr-lang expression against the captured variables"),
			mcp.WithString("expression", mcp.Required(), mcp.Description("expr-lang expression referencing captured variable names")),
		),
		a.HandleWatch,
	)
	s.AddTool(
		mcp.NewTool("xsltdbg/status",
			mcp.WithDescription("Report the current session status and any new output")),
		a.HandleStatus,
	)
	s.AddTool(
		mcp.NewTool("xsltdbg/terminate",
			mcp.WithDescription("Force-terminate the current session")),
		a.HandleTerminate,
	)

	s.AddTool(
		mcp.NewTool("xsltdbg/schema",
			mcp.WithDescription("Export the launch-options JSON Schema")),
		a.HandleSchema,
	)

	return s
}
