// Package probe implements the extension-function contract and diagnostic
// message decoder: the only channel through which a
// running transformation talks back to the debugger.
package probe

import "strings"

// Function-local names of the two extension functions registered in the
// debug namespace.
const (
	FunctionBreak = "break"
	FunctionVar   = "var"
)

// BreakEvent is one dbg:break invocation, decoded from the raw arguments the
// backend's extension-function call supplies. Context is the opaque node the
// backend passed as the second argument; it is carried, never inspected,
// since XPath evaluation against it is out of core scope.
type BreakEvent struct {
	Line    int
	Context any

	// Depth is the backend's notion of call-stack depth at this probe (e.g.
	// midbel/codecs' xslt.Context.Depth). The step controller uses a
	// decrease in Depth between consecutive probes to detect template exits,
	// which cannot be instrumented directly at the DOM level. Backends that
	// expose no such signal leave it 0, which degrades frame tracking to
	// entry-only counting.
	Depth int

	// TemplateEntry and the two fields below are set only for the
	// template-entry marker probe; ordinary probes leave them zero.
	TemplateEntry bool
	TemplateMatch string // set iff the template used match=
	TemplateName  string // set iff the template used name=
}

// VarEvent is one decoded "[DBG] var NAME VALUE" diagnostic line, or one
// dbg:var(name, value) extension-function call on a backend with no native
// diagnostic channel.
type VarEvent struct {
	Name  string
	Value string
}

// Hook is what a backend calls into on every probe invocation. Calls happen
// synchronously on the transforming thread (T1); OnBreak blocks until the
// step controller grants continuation, OnVar never blocks.
type Hook interface {
	OnBreak(ev BreakEvent)
	OnVar(ev VarEvent)
}

// ParseTemplateDescriptor decodes the third dbg:break argument the
// instrumentation pass encodes for template-entry probes (pkg/instrument's
// "match:PATTERN" / "name:NAME" convention) back into a BreakEvent's
// template fields.
func ParseTemplateDescriptor(raw string) (match, name string) {
	switch {
	case strings.HasPrefix(raw, "match:"):
		return strings.TrimPrefix(raw, "match:"), ""
	case strings.HasPrefix(raw, "name:"):
		return "", strings.TrimPrefix(raw, "name:")
	default:
		return "", raw
	}
}

const diagnosticPrefix = "[DBG] var "

// DecodeDiagnosticLine parses one line of a backend's diagnostic-message
// stream. Lines of the form "[DBG] var NAME VALUE" decode to a VarEvent;
// every other line is not this channel's concern and ok is false (the
// Engine Abstraction passes it through as a plain output event instead).
func DecodeDiagnosticLine(line string) (ev VarEvent, ok bool) {
	if !strings.HasPrefix(line, diagnosticPrefix) {
		return VarEvent{}, false
	}
	rest := strings.TrimPrefix(line, diagnosticPrefix)
	name, value, found := strings.Cut(rest, " ")
	if !found {
		return VarEvent{}, false
	}
	return VarEvent{Name: name, Value: value}, true
}
