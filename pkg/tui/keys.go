package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all TUI key bindings.
type keyMap struct {
	Continue key.Binding
	StepIn   key.Binding
	StepOver key.Binding
	StepOut  key.Binding
	Vars     key.Binding
	Terminate key.Binding
	Quit     key.Binding
	Help     key.Binding
	PgUp     key.Binding
	PgDown   key.Binding
}

var keys = keyMap{
	Continue: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "continue"),
	),
	StepIn: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "step in"),
	),
	StepOver: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "step over"),
	),
	StepOut: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "step out"),
	),
	Vars: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "vars"),
	),
	Terminate: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "terminate"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	PgUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "scroll up"),
	),
	PgDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "scroll down"),
	),
}

// keyBarText renders the context-sensitive key hint string.
func keyBarText(paused bool, terminated bool, overlay overlayKind) string {
	if overlay == overlayVars {
		return keyStyle.Render("Esc") + keyDescStyle.Render(":close") + "  " +
			keyStyle.Render("q") + keyDescStyle.Render(":quit")
	}
	if overlay == overlayHelp {
		return keyStyle.Render("Esc") + keyDescStyle.Render(":close") + "  " +
			keyStyle.Render("q") + keyDescStyle.Render(":quit")
	}

	if terminated {
		return keyStyle.Render("v") + keyDescStyle.Render(":vars") + "  " +
			keyStyle.Render("q") + keyDescStyle.Render(":quit")
	}
	if paused {
		return keyStyle.Render("c") + keyDescStyle.Render(":continue") + "  " +
			keyStyle.Render("i") + keyDescStyle.Render(":step in") + "  " +
			keyStyle.Render("o") + keyDescStyle.Render(":step over") + "  " +
			keyStyle.Render("u") + keyDescStyle.Render(":step out") + "  " +
			keyStyle.Render("v") + keyDescStyle.Render(":vars") + "  " +
			keyStyle.Render("t") + keyDescStyle.Render(":terminate") + "  " +
			keyStyle.Render("q") + keyDescStyle.Render(":quit") + "  " +
			keyStyle.Render("?") + keyDescStyle.Render(":help")
	}
	return keyStyle.Render("PgUp/Dn") + keyDescStyle.Render(":scroll output") + "  " +
		keyStyle.Render("t") + keyDescStyle.Render(":terminate") + "  " +
		keyStyle.Render("q") + keyDescStyle.Render(":quit") + "  " +
		keyStyle.Render("?") + keyDescStyle.Render(":help")
}
