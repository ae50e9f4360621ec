package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Driver     key.Binding
	Admin      key.Binding
	Enter      key.Binding
	Back       key.Binding
	Delete     key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Lunch      key.Binding
	Confirm    key.Binding
	Tab        key.Binding
	PrevTab    key.Binding
	Range      key.Binding
	Export     key.Binding
	New        key.Binding
	Toggle     key.Binding
	Remove     key.Binding
	OpenNote   key.Binding
	CloseNote  key.Binding
	Meeting    key.Binding
	Header     key.Binding
	Save       key.Binding
	TextExport key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Driver: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "driver"),
	),
	Admin: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "admin"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Delete: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("⌫", "delete digit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev page"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next page"),
	),
	Lunch: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "waive lunch"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev tab"),
	),
	Range: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "date range"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	New: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "toggle active"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	OpenNote: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "open notification"),
	),
	CloseNote: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "dismiss"),
	),
	Meeting: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "add meeting"),
	),
	Header: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "edit header"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	TextExport: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "export text"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// helpKeys adapts a list of bindings to help.KeyMap for one screen.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding { return h }

func (h helpKeys) FullHelp() [][]key.Binding {
	var groups [][]key.Binding
	for i := 0; i < len(h); i += 4 {
		end := min(i+4, len(h))
		groups = append(groups, h[i:end])
	}
	return groups
}
