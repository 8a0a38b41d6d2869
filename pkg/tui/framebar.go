package tui

import (
	"fmt"

	"github.com/imdj360/xsltdbg/pkg/session"
)

// frameBar renders the current stopped frame (file:line, reason) and key
// runbook step's status) to render a debug session's stop tuple instead
//.
type frameBar struct {
	status session.Status

	width int
}

func newFrameBar() frameBar {
	return frameBar{}
}

// SetStatus updates the frame bar from the engine's latest status.
func (f *frameBar) SetStatus(st session.Status) {
	f.status = st
}

// View renders the frame bar.
func (f *frameBar) View(overlay overlayKind) string {
	var line1 string
	switch f.status.Kind {
	case session.Idle:
		line1 = "  not started"
	case session.Running:
		line1 = "  " + statusRunningStyle.Render(GlyphRunning+" running")
	case session.Paused:
		line1 = frameLabelStyle.Render("Stopped at: ") +
			frameValueStyle.Render(fmt.Sprintf("%s:%d", f.status.File, f.status.Line)) +
			frameLabelStyle.Render("  reason: ") +
			frameValueStyle.Render(string(f.status.Reason))
	case session.Terminated:
		line1 = statusTerminatedStyle.Render(fmt.Sprintf("%s terminated (exit %d)", GlyphTerminated, f.status.ExitCode))
	}

	content := line1 + "\n\n" + keyBarStyle.Render(
		keyBarText(f.status.Kind == session.Paused, f.status.Kind == session.Terminated, overlay))

	return frameBarStyle.Width(f.width - 4).Render(content)
}
