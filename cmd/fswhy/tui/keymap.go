package tui

import (
	"math"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jamesainslie/fswhy/pkg/fswhy/view"
)

// keyMap holds the explorer key bindings.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Toggle      key.Binding
	Enter       key.Binding
	Digit       key.Binding
	Backspace   key.Binding
	Sort        key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Logs        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "right", "l"),
			key.WithHelp("space", "toggle"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("0-9 enter", "toggle row"),
		),
		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse all"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logs"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Enter, k.Sort, k.Logs, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Toggle, k.Enter, k.Sort, k.ExpandAll, k.CollapseAll},
		{k.Logs, k.Help, k.Quit},
	}
}

// actionFor maps a key press to a view action. pageSize is the number of
// tree rows on screen. ok is false for keys the view does not handle.
func (k keyMap) actionFor(msg tea.KeyMsg, pageSize int) (view.Action, bool) {
	pageSize = max(pageSize, 1)

	switch {
	case key.Matches(msg, k.Quit):
		return view.Quit(), true
	case key.Matches(msg, k.Digit):
		return view.InputDigit(msg.Runes[0]), true
	case key.Matches(msg, k.Backspace):
		return view.InputBackspace(), true
	case key.Matches(msg, k.Enter):
		return view.Enter(), true
	case key.Matches(msg, k.Up):
		return view.MoveUp(), true
	case key.Matches(msg, k.Down):
		return view.MoveDown(), true
	case key.Matches(msg, k.PageUp):
		return view.MoveBy(-pageSize), true
	case key.Matches(msg, k.PageDown):
		return view.MoveBy(pageSize), true
	case key.Matches(msg, k.Top):
		return view.MoveBy(math.MinInt), true
	case key.Matches(msg, k.Bottom):
		return view.MoveBy(math.MaxInt), true
	case key.Matches(msg, k.Toggle):
		return view.ToggleAtCursor(), true
	case key.Matches(msg, k.Sort):
		return view.ToggleSort(), true
	case key.Matches(msg, k.ExpandAll):
		return view.ExpandAll(), true
	case key.Matches(msg, k.CollapseAll):
		return view.CollapseAll(), true
	}
	return view.Action{}, false
}
