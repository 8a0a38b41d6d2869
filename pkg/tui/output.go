package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// outputPanel renders scrollable diagnostic output from dbgengine.Events'
// Output callback: runtime errors, compile diagnostics, and any
// text lines the instrumented transform writes that aren't decoded as a
// probe diagnostic. There is one running log for the whole session, unlike
// a per-step output buffer, since a debug session has no step list.
type outputPanel struct {
	viewport viewport.Model
	log      strings.Builder

	width  int
	height int
	ready  bool
}

func newOutputPanel() outputPanel {
	return outputPanel{}
}

// SetSize updates the viewport dimensions.
func (p *outputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height

	contentW := width - 4  // border padding
	contentH := height - 3 // title + border

	if contentW < 1 {
		contentW = 1
	}
	if contentH < 1 {
		contentH = 1
	}

	if !p.ready {
		p.viewport = viewport.New(contentW, contentH)
		p.ready = true
	} else {
		p.viewport.Width = contentW
		p.viewport.Height = contentH
	}
	p.viewport.SetContent(p.log.String())
}

// AppendLine adds one line of output and scrolls to the bottom.
func (p *outputPanel) AppendLine(text string) {
	p.log.WriteString(text)
	p.log.WriteString("\n")
	if p.ready {
		p.viewport.SetContent(p.log.String())
		p.viewport.GotoBottom()
	}
}

// Update handles viewport-specific messages (mouse scroll, etc.).
func (p *outputPanel) Update(msg tea.Msg) {
	if p.ready {
		p.viewport, _ = p.viewport.Update(msg)
	}
}

// PageUp scrolls the viewport up.
func (p *outputPanel) PageUp() {
	if p.ready {
		p.viewport.HalfViewUp()
	}
}

// PageDown scrolls the viewport down.
func (p *outputPanel) PageDown() {
	if p.ready {
		p.viewport.HalfViewDown()
	}
}

// View renders the output panel.
func (p *outputPanel) View() string {
	title := panelTitle.Render("Output")

	var content string
	if p.ready {
		content = p.viewport.View()
	} else {
		content = "  waiting for the transform to start..."
	}

	scrollInfo := ""
	if p.ready && p.viewport.TotalLineCount() > p.viewport.VisibleLineCount() {
		pct := p.viewport.ScrollPercent() * 100
		scrollInfo = fmt.Sprintf(" %3.0f%%", pct)
	}

	header := title
	if scrollInfo != "" {
		padding := p.width - 4 - len("Output") - len(scrollInfo)
		if padding < 0 {
			padding = 0
		}
		header = title + strings.Repeat(" ", padding) + keyDescStyle.Render(scrollInfo)
	}

	return panelBorder.Width(p.width).Height(p.height).Render(
		header + "\n" + content,
	)
}
