package view

import (
	"fmt"
)

type actionKind uint8

const (
	actMove actionKind = iota
	actToggleAtCursor
	actToggle
	actToggleSort
	actEnter
	actDigit
	actBackspace
	actExpandAll
	actCollapseAll
	actQuit
)

// Action is a single input to State.Update. Build one with the
// constructor functions below.
type Action struct {
	kind  actionKind
	delta int
	index int
	digit rune
}

// MoveUp moves the cursor one row up.
func MoveUp() Action { return Action{kind: actMove, delta: -1} }

// MoveDown moves the cursor one row down.
func MoveDown() Action { return Action{kind: actMove, delta: 1} }

// MoveBy moves the cursor by delta rows, saturating at both ends.
func MoveBy(delta int) Action { return Action{kind: actMove, delta: delta} }

// ToggleAtCursor expands or collapses the directory under the cursor.
func ToggleAtCursor() Action { return Action{kind: actToggleAtCursor} }

// Toggle expands or collapses the directory at row index and moves the
// cursor there.
func Toggle(index int) Action { return Action{kind: actToggle, index: index} }

// ToggleSort switches between name and size ordering.
func ToggleSort() Action { return Action{kind: actToggleSort} }

// Enter submits the typed row number, or toggles at the cursor when
// nothing has been typed.
func Enter() Action { return Action{kind: actEnter} }

// InputDigit appends d to the typed row number. Non-digits are ignored.
func InputDigit(d rune) Action { return Action{kind: actDigit, digit: d} }

// InputBackspace removes the last typed digit.
func InputBackspace() Action { return Action{kind: actBackspace} }

// ExpandAll expands every directory in the tree.
func ExpandAll() Action { return Action{kind: actExpandAll} }

// CollapseAll collapses everything except the root.
func CollapseAll() Action { return Action{kind: actCollapseAll} }

// Quit ends the session.
func Quit() Action { return Action{kind: actQuit} }

// String describes the action for logs.
func (a Action) String() string {
	switch a.kind {
	case actMove:
		return fmt.Sprintf("move(%+d)", a.delta)
	case actToggleAtCursor:
		return "toggle-at-cursor"
	case actToggle:
		return fmt.Sprintf("toggle(%d)", a.index)
	case actToggleSort:
		return "toggle-sort"
	case actEnter:
		return "enter"
	case actDigit:
		return fmt.Sprintf("digit(%q)", a.digit)
	case actBackspace:
		return "backspace"
	case actExpandAll:
		return "expand-all"
	case actCollapseAll:
		return "collapse-all"
	case actQuit:
		return "quit"
	default:
		return "unknown"
	}
}
