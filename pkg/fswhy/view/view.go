// Package view projects a scanned tree into the flat, ordered list of rows
// shown on screen, and applies user actions to the session state that
// drives that projection: the expanded set, cursor, sort mode, typed row
// number and status line.
//
// State is not safe for concurrent use. The tree it reads is never modified.
package view

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
)

// Errors reported by Update. They are recoverable: the status line is set
// and the rest of the state is left as it was.
var (
	ErrIndexNotFound = errors.New("index not found")
	ErrNotToggleable = errors.New("cannot toggle a file")
	ErrInvalidInput  = errors.New("invalid row number")
)

var logger = logging.Get("view")

// Item is one visible row.
type Item struct {
	ID    tree.NodeID
	Depth int
}

// Status is the message shown under the tree.
type Status struct {
	Message string
	IsError bool
}

// InputMode reports whether a row number is being typed.
type InputMode int

// Input modes.
const (
	InputEmpty InputMode = iota
	InputAccumulating
)

// State is the interactive session state over a tree.
type State struct {
	tree     *tree.Tree
	expanded map[tree.NodeID]struct{}
	cursor   int
	sort     SortMode
	input    string
	status   *Status
}

// Option configures a new State.
type Option func(*State)

// WithSortMode sets the initial sort mode.
func WithSortMode(m SortMode) Option {
	return func(s *State) {
		s.sort = m
	}
}

// WithExpandDepth expands every directory shallower than depth. The
// default of 1 expands only the root; 0 starts fully collapsed.
func WithExpandDepth(depth int) Option {
	return func(s *State) {
		s.expanded = make(map[tree.NodeID]struct{})
		s.tree.Walk(func(id tree.NodeID, d int) bool {
			if d >= depth {
				return false
			}
			if s.tree.Node(id).IsDir() {
				s.expanded[id] = struct{}{}
			}
			return true
		})
	}
}

// New returns a State over t with the root expanded and the cursor on
// the root.
func New(t *tree.Tree, opts ...Option) *State {
	s := &State{
		tree:     t,
		expanded: make(map[tree.NodeID]struct{}),
	}
	if t.Len() > 0 && t.Node(tree.RootID).IsDir() {
		s.expanded[tree.RootID] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tree returns the tree being viewed.
func (s *State) Tree() *tree.Tree { return s.tree }

// Cursor returns the selected row index.
func (s *State) Cursor() int { return s.cursor }

// SortMode returns the current sort mode.
func (s *State) SortMode() SortMode { return s.sort }

// Input returns the digits typed so far.
func (s *State) Input() string { return s.input }

// InputMode reports whether digits have been typed.
func (s *State) InputMode() InputMode {
	if s.input == "" {
		return InputEmpty
	}
	return InputAccumulating
}

// Status returns the status line, if any.
func (s *State) Status() (Status, bool) {
	if s.status == nil {
		return Status{}, false
	}
	return *s.status, true
}

// IsExpanded reports whether the directory id is in the expanded set.
func (s *State) IsExpanded(id tree.NodeID) bool {
	_, ok := s.expanded[id]
	return ok
}

// Flatten returns the visible rows: a pre-order walk from the root that
// descends only into expanded directories, with siblings in the current
// sort order.
func (s *State) Flatten() []Item {
	if s.tree.Len() == 0 {
		return nil
	}
	items := make([]Item, 0, 64)
	return s.collect(tree.RootID, 0, items)
}

func (s *State) collect(id tree.NodeID, depth int, items []Item) []Item {
	items = append(items, Item{ID: id, Depth: depth})
	if !s.IsExpanded(id) {
		return items
	}
	for _, child := range ordered(s.tree, id, s.sort) {
		items = s.collect(child, depth+1, items)
	}
	return items
}

// Selected returns the row under the cursor.
func (s *State) Selected() (Item, bool) {
	items := s.Flatten()
	if len(items) == 0 {
		return Item{}, false
	}
	return items[s.cursor], true
}

// Update applies an action. quit is true for Quit. A non-nil error means
// the action was rejected; the status line already describes it.
func (s *State) Update(a Action) (quit bool, err error) {
	switch a.kind {
	case actMove:
		s.input = ""
		s.status = nil
		s.moveCursor(a.delta)

	case actToggleAtCursor:
		s.input = ""
		err = s.toggle(s.cursor)

	case actToggle:
		s.input = ""
		if err = s.toggle(a.index); err == nil {
			s.setCursor(a.index)
		}

	case actToggleSort:
		s.input = ""
		s.status = nil
		s.withCursorOnSameNode(func() {
			s.sort = s.sort.Next()
		})

	case actEnter:
		err = s.enter()

	case actDigit:
		if a.digit >= '0' && a.digit <= '9' {
			s.input += string(a.digit)
			s.status = nil
		}

	case actBackspace:
		if s.input != "" {
			s.input = s.input[:len(s.input)-1]
		}

	case actExpandAll:
		s.input = ""
		s.expandAll()

	case actCollapseAll:
		s.input = ""
		s.collapseAll()

	case actQuit:
		return true, nil
	}

	if err != nil {
		s.status = &Status{Message: err.Error(), IsError: true}
		logger.Debug("action rejected", "action", a, "error", err)
	}
	return false, err
}

func (s *State) enter() error {
	buf := s.input
	s.input = ""

	if buf == "" {
		return s.toggle(s.cursor)
	}

	index, err := strconv.Atoi(buf)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, buf)
	}
	if err := s.toggle(index); err != nil {
		return err
	}
	s.setCursor(index)
	return nil
}

// toggle flips the expanded membership of the directory at row index.
// Descendants keep their own membership, so re-expanding restores them.
func (s *State) toggle(index int) error {
	items := s.Flatten()
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d", ErrIndexNotFound, index)
	}

	id := items[index].ID
	n := s.tree.Node(id)
	if !n.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotToggleable, n.Name)
	}

	if s.IsExpanded(id) {
		delete(s.expanded, id)
	} else {
		s.expanded[id] = struct{}{}
	}
	s.status = nil
	s.setCursor(s.cursor)
	return nil
}

func (s *State) expandAll() {
	s.withCursorOnSameNode(func() {
		count := 0
		for id := tree.NodeID(0); int(id) < s.tree.Len(); id++ {
			if s.tree.Node(id).IsDir() {
				s.expanded[id] = struct{}{}
				count++
			}
		}
		s.status = &Status{Message: fmt.Sprintf("expanded %d directories", count)}
	})
}

func (s *State) collapseAll() {
	s.withCursorOnSameNode(func() {
		s.expanded = make(map[tree.NodeID]struct{})
		if s.tree.Len() > 0 && s.tree.Node(tree.RootID).IsDir() {
			s.expanded[tree.RootID] = struct{}{}
		}
		s.status = &Status{Message: "collapsed all directories"}
	})
}

// withCursorOnSameNode runs fn and then moves the cursor to the row of the
// node it was on before, or that node's nearest visible ancestor.
func (s *State) withCursorOnSameNode(fn func()) {
	item, ok := s.Selected()
	fn()
	if !ok {
		s.setCursor(0)
		return
	}

	items := s.Flatten()
	rows := make(map[tree.NodeID]int, len(items))
	for i, it := range items {
		rows[it.ID] = i
	}
	for id := item.ID; id != tree.NoParent; id = s.tree.Node(id).Parent {
		if row, ok := rows[id]; ok {
			s.setCursor(row)
			return
		}
	}
	s.setCursor(0)
}

func (s *State) moveCursor(delta int) {
	n := len(s.Flatten())
	delta = max(-n, min(delta, n))
	s.setCursor(s.cursor + delta)
}

// setCursor clamps i to the visible rows.
func (s *State) setCursor(i int) {
	n := len(s.Flatten())
	switch {
	case n == 0 || i < 0:
		s.cursor = 0
	case i >= n:
		s.cursor = n - 1
	default:
		s.cursor = i
	}
}
