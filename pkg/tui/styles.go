// Package tui implements a terminal user interface for interactive XSLT
// debugging: a Bubble Tea app driving a dbgengine.Engine directly in-process
//, rendering
// the current stopped frame, captured variables, and transform output live.
//
// bubbles/viewport scrolling output panel, same glamour-rendered help
// overlay — adapted from a runbook-step viewer to a stopped-frame viewer.
package tui

import "github.com/charmbracelet/lipgloss"

// Status glyphs — convey meaning without relying on color alone.
const (
	GlyphRunning    = "▸"
	GlyphPaused     = "⏸"
	GlyphTerminated = "✓"
	GlyphFailed     = "✗"
	GlyphBreakpoint = "●"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorBlue   = lipgloss.Color("39")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

// --- Header styles ---

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan).
	Padding(0, 1)

var engineBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorYellow).
	Padding(0, 1)

// --- Panel styles ---

var (
	panelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)

	panelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Padding(0, 1)

	outputStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// --- Frame bar styles ---

var (
	frameBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			BorderTop(true).
			BorderBottom(true).
			BorderLeft(true).
			BorderRight(true).
			Padding(0, 1)

	frameLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	frameValueStyle = lipgloss.NewStyle().
				Foreground(colorWhite)

	statusPausedStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	statusRunningStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	statusTerminatedStyle = lipgloss.NewStyle().
				Foreground(colorCyan).
				Bold(true)
)

// --- Key bar styles ---

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	keyBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// --- Error style ---

var errorStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)

// --- Spinner style ---

var spinnerStyle = lipgloss.NewStyle().
	Foreground(colorYellow)

// --- Variables overlay styles ---

var (
	overlayBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(1, 2)

	varsNameStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	varsValueStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)
