// Package mcpadapter exposes the debug engine as an MCP tool server
// (mark3labs/mcp-go) for AI-agent callers that drive a session through
// request/response tool calls rather than the DAP wire protocol.
//
// mcp.NewTool/AddTool registration shape, same textResult/errorResult
// CallToolResult helpers. Unlike a stateless request/response handler (which
// functions operating on one runbook file per call), a debug session is
// stateful across calls — continue/stepIn/vars all act on the run Start
// began — so handlers here are methods on an Adapter that holds the one
// live *dbgengine.Engine plus a recordingEvents sink that buffers output
// lines for the status tool to read back.
package mcpadapter

import (
	"sync"

	"github.com/imdj360/xsltdbg/pkg/backend/legacy"
	"github.com/imdj360/xsltdbg/pkg/backend/modern"
	"github.com/imdj360/xsltdbg/pkg/config"
	"github.com/imdj360/xsltdbg/pkg/dbgengine"
)

// Adapter owns the one debug session an MCP server instance drives. A new
// Engine is constructed on every "xsltdbg/start" call, so terminated
// sessions can be restarted without restarting the MCP server process.
type Adapter struct {
	mu     sync.Mutex
	engine *dbgengine.Engine
	events *recordingEvents
}

// NewAdapter returns an Adapter with no active session; the first
// "xsltdbg/start" call creates one.
func NewAdapter() *Adapter {
	return &Adapter{}
}

func (a *Adapter) startSession(opts *config.LaunchOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	backend, err := resolveBackend(opts.Engine)
	if err != nil {
		return err
	}

	a.events = newRecordingEvents()
	a.engine = dbgengine.New(backend, a.events)
	return a.engine.Start(opts.ToEngineOptions(nil))
}

func resolveBackend(name string) (dbgengine.Backend, error) {
	switch name {
	case "", "modern":
		return modern.New(), nil
	case "legacy":
		return legacy.New(), nil
	default:
		return nil, unknownEngineError(name)
	}
}

func (a *Adapter) currentEngine() *dbgengine.Engine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine
}

func (a *Adapter) currentEvents() *recordingEvents {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events
}
