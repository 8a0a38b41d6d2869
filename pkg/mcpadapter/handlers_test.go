package mcpadapter

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestHandleStart_MissingArguments(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleStart(context.Background(), newRequest(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing stylesheetPath/inputPath")
	}
}

func TestHandleStart_UnknownEngine(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleStart(context.Background(), newRequest(map[string]any{
		"stylesheetPath": "a.xsl",
		"inputPath":      "a.xml",
		"engine":         "bogus",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for unknown engine value")
	}
}

func TestHandleStart_RejectsInstrumentFunctionsOnLegacy(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleStart(context.Background(), newRequest(map[string]any{
		"stylesheetPath":      "a.xsl",
		"inputPath":           "a.xml",
		"engine":              "legacy",
		"instrumentFunctions": "true",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected a domain validation error")
	}
}

func TestHandleContinue_NoSessionIsError(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleContinue(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error when no session has been started")
	}
}

func TestHandleStatus_NoSessionReportsIdle(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleStatus(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Error("status before start should not be an error")
	}
}

func TestHandleWatch_NoSessionIsError(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleWatch(context.Background(), newRequest(map[string]any{"expression": "1+1"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error when no session has been started")
	}
}

func TestHandleSchema_ProducesContent(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleSchema(context.Background(), newRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Error("expected schema generation to succeed")
	}
	if len(result.Content) == 0 {
		t.Error("expected schema content")
	}
}

func TestHandleSetBreakpoints_NoSessionIsError(t *testing.T) {
	a := NewAdapter()
	result, err := a.HandleSetBreakpoints(context.Background(), newRequest(map[string]any{
		"file":  "a.xsl",
		"lines": "5,10",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error when no session has been started")
	}
}
