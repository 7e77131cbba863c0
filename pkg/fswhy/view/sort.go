package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
)

// SortMode selects how siblings are ordered in the view. Directories
// always come before files.
type SortMode int

// Sort modes.
const (
	// SortNameAscending orders by path, the tree's own order.
	SortNameAscending SortMode = iota

	// SortSizeDescending orders by size, largest first, then by path.
	SortSizeDescending
)

// ErrInvalidSortMode is returned by ParseSortMode.
var ErrInvalidSortMode = errors.New("invalid sort mode")

// String returns "name" or "size".
func (m SortMode) String() string {
	if m == SortSizeDescending {
		return "size"
	}
	return "name"
}

// Next returns the other sort mode.
func (m SortMode) Next() SortMode {
	if m == SortSizeDescending {
		return SortNameAscending
	}
	return SortSizeDescending
}

// ParseSortMode accepts "name" or "size".
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "":
		return SortNameAscending, nil
	case "size":
		return SortSizeDescending, nil
	default:
		return SortNameAscending, fmt.Errorf("%w: %q (want name or size)", ErrInvalidSortMode, s)
	}
}

// ordered returns the children of id in the given mode. The tree already
// stores name order, so only size order allocates.
func ordered(t *tree.Tree, id tree.NodeID, mode SortMode) []tree.NodeID {
	children := t.Node(id).Children
	if mode != SortSizeDescending || len(children) < 2 {
		return children
	}

	sorted := slices.Clone(children)
	slices.SortStableFunc(sorted, func(a, b tree.NodeID) int {
		na, nb := t.Node(a), t.Node(b)
		if na.IsDir() != nb.IsDir() {
			if na.IsDir() {
				return -1
			}
			return 1
		}
		if na.Size != nb.Size {
			if na.Size > nb.Size {
				return -1
			}
			return 1
		}
		return strings.Compare(na.Path, nb.Path)
	})
	return sorted
}
