package tracelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestWriter_Emit(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "session-1")

	if err := tw.Emit(EventProbeDispatch, map[string]any{"kind": "break", "line": 4}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var evt Event
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}
	if evt.Type != EventProbeDispatch {
		t.Errorf("Type = %q, want %q", evt.Type, EventProbeDispatch)
	}
	if evt.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want %q", evt.SessionID, "session-1")
	}
	if evt.Data["line"].(float64) != 4 {
		t.Errorf("Data[line] = %v, want 4", evt.Data["line"])
	}
}

func TestWriter_EmitCompileComplete_WithError(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "session-1")

	if err := tw.EmitCompileComplete("modern", 10*time.Millisecond, errors.New("bad syntax")); err != nil {
		t.Fatalf("EmitCompileComplete: %v", err)
	}

	var evt Event
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.Data["error"] != "bad syntax" {
		t.Errorf("Data[error] = %v, want %q", evt.Data["error"], "bad syntax")
	}
	if evt.Data["backend"] != "modern" {
		t.Errorf("Data[backend] = %v, want %q", evt.Data["backend"], "modern")
	}
}

func TestWriter_EmitInstrumentComplete(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "session-1")

	if err := tw.EmitInstrumentComplete(12, 3); err != nil {
		t.Fatalf("EmitInstrumentComplete: %v", err)
	}

	var evt Event
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.Data["instrumented_lines"].(float64) != 12 {
		t.Errorf("Data[instrumented_lines] = %v, want 12", evt.Data["instrumented_lines"])
	}
	if evt.Data["variable_captures"].(float64) != 3 {
		t.Errorf("Data[variable_captures] = %v, want 3", evt.Data["variable_captures"])
	}
}

func TestWriter_MultipleEmitsAppendJSONL(t *testing.T) {
	var buf bytes.Buffer
	tw := NewWriter(&buf, "session-1")

	tw.EmitStepCommand("continue")
	tw.EmitSessionTerminated(0)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %s", len(lines), buf.String())
	}
}
