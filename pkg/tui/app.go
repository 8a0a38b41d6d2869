package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/imdj360/xsltdbg/pkg/backend/legacy"
	"github.com/imdj360/xsltdbg/pkg/backend/modern"
	"github.com/imdj360/xsltdbg/pkg/config"
	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/session"
	"github.com/imdj360/xsltdbg/pkg/tracelog"
)

// --- Overlay state ---

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayVars
	overlayHelp
)

const helpMarkdown = `# xsltdbg

| key | action |
|---|---|
| c | continue |
| i | step in |
| o | step over |
| u | step out |
| v | show captured variables |
| t | terminate the session |
| PgUp/PgDn | scroll output |
| q | quit |
`

// --- Model ---

// Model is the top-level Bubble Tea model for the debug TUI.
type Model struct {
	engine *dbgengine.Engine
	events *bridgeEvents

	output  outputPanel
	frame   frameBar
	spinner spinner.Model

	overlay overlayKind

	varOrder []string
	vars     map[string]string

	stylesheet string
	engineName string

	fatalErr string

	width  int
	height int
}

// Run resolves a backend from opts.Engine, starts a session against it, and
// runs the Bubble Tea program until the user quits. It blocks until the
// program exits; the underlying Engine is terminated on return if it hasn't
// already reached session.Terminated.
func Run(opts *config.LaunchOptions, trace *tracelog.Writer) error {
	backend, err := resolveBackend(opts.Engine)
	if err != nil {
		return err
	}

	events := newBridgeEvents()
	engine := dbgengine.New(backend, events)
	if err := engine.Start(opts.ToEngineOptions(trace)); err != nil {
		return err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		engine:     engine,
		events:     events,
		output:     newOutputPanel(),
		frame:      newFrameBar(),
		spinner:    sp,
		vars:       make(map[string]string),
		stylesheet: filepath.Base(opts.StylesheetPath),
		engineName: opts.Engine,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	if st := engine.Status(); st.Kind != session.Terminated {
		_ = engine.Terminate()
	}
	return err
}

func resolveBackend(name string) (dbgengine.Backend, error) {
	switch name {
	case "", "modern":
		return modern.New(), nil
	case "legacy":
		return legacy.New(), nil
	default:
		return nil, fmt.Errorf("tui: unknown engine %q — use \"legacy\" or \"modern\"", name)
	}
}

// Init returns the initial commands: start the spinner and listen for the
// first engine event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.events.listen())
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case stoppedMsg:
		m.frame.SetStatus(session.Status{Kind: session.Paused, File: msg.file, Line: msg.line, Reason: msg.reason})
		m.output.AppendLine(fmt.Sprintf("%s stopped at %s:%d (%s)", GlyphPaused, msg.file, msg.line, msg.reason))
		cmds = append(cmds, m.events.listen())

	case outputMsg:
		m.output.AppendLine(msg.text)
		cmds = append(cmds, m.events.listen())

	case terminatedMsg:
		m.frame.SetStatus(session.Status{Kind: session.Terminated, ExitCode: msg.exitCode})
		m.output.AppendLine(fmt.Sprintf("%s session terminated, exit code %d", GlyphTerminated, msg.exitCode))
		cmds = append(cmds, m.events.listen())

	case variableCapturedMsg:
		if _, seen := m.vars[msg.name]; !seen {
			m.varOrder = append(m.varOrder, msg.name)
		}
		m.vars[msg.name] = msg.value
		cmds = append(cmds, m.events.listen())

	case breakpointsResolvedMsg:
		verified := 0
		for _, st := range msg.lines {
			if st.Verified {
				verified++
			}
		}
		m.output.AppendLine(fmt.Sprintf("breakpoints resolved for %s: %d/%d verified", msg.file, verified, len(msg.lines)))
		cmds = append(cmds, m.events.listen())

	case engineClosedMsg:
		// Nothing further will arrive; stop listening.
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	if m.overlay != overlayNone {
		if msg.String() == "esc" {
			m.overlay = overlayNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Help):
		m.overlay = overlayHelp
	case key.Matches(msg, keys.Vars):
		m.overlay = overlayVars
	case key.Matches(msg, keys.Continue):
		m.report(m.engine.Continue())
	case key.Matches(msg, keys.StepIn):
		m.report(m.engine.StepIn())
	case key.Matches(msg, keys.StepOver):
		m.report(m.engine.StepOver())
	case key.Matches(msg, keys.StepOut):
		m.report(m.engine.StepOut())
	case key.Matches(msg, keys.Terminate):
		m.report(m.engine.Terminate())
	case key.Matches(msg, keys.PgUp):
		m.output.PageUp()
	case key.Matches(msg, keys.PgDown):
		m.output.PageDown()
	default:
		m.output.Update(msg)
	}

	return m, nil
}

func (m *Model) report(err error) {
	if err != nil {
		m.output.AppendLine(errorStyle.Render("error: " + err.Error()))
	}
}

func (m *Model) layoutPanels() {
	if m.width == 0 || m.height == 0 {
		return
	}
	headerH := 1
	frameH := 6
	mainH := m.height - headerH - frameH
	if mainH < 4 {
		mainH = 4
	}
	m.output.SetSize(m.width, mainH)
	m.frame.width = m.width
}

// View renders the complete TUI.
func (m Model) View() string {
	if m.fatalErr != "" {
		return errorStyle.Render("fatal: "+m.fatalErr) + "\n\nPress q to quit."
	}

	switch m.overlay {
	case overlayVars:
		return m.renderVarsOverlay()
	case overlayHelp:
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	main := m.output.View()
	frame := m.frame.View(m.overlay)

	return header + "\n" + main + "\n" + frame
}

func (m Model) renderVarsOverlay() string {
	contentW := m.width - 8
	if contentW < 40 {
		contentW = 40
	}

	var sb strings.Builder
	sb.WriteString(panelTitle.Render("Captured Variables"))
	sb.WriteString("\n\n")
	if len(m.varOrder) == 0 {
		sb.WriteString(keyDescStyle.Render("no variables captured yet."))
	}
	for _, name := range m.varOrder {
		sb.WriteString(varsNameStyle.Render(name))
		sb.WriteString(" = ")
		sb.WriteString(varsValueStyle.Render(fmt.Sprintf("%q", m.vars[name])))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(keyBarStyle.Render(keyBarText(false, false, overlayVars)))

	box := overlayBorder.Width(contentW).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelpOverlay() string {
	contentW := m.width - 12
	if contentW < 40 {
		contentW = 40
	}
	box := overlayBorder.Width(contentW).Render(renderMarkdownWidth(helpMarkdown, contentW-4))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderHeader builds the top header line.
func (m Model) renderHeader() string {
	title := headerStyle.Render("xsltdbg")
	badge := engineBadgeStyle.Render(m.engineName)

	var status string
	switch m.frame.status.Kind {
	case session.Terminated:
		status = statusTerminatedStyle.Render(fmt.Sprintf("%s terminated", GlyphTerminated))
	case session.Paused:
		status = statusPausedStyle.Render(fmt.Sprintf("%s paused", GlyphPaused))
	default:
		status = m.spinner.View() + " running"
	}

	left := title + " " + badge + "  " + frameValueStyle.Render(m.stylesheet)
	right := status

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}
