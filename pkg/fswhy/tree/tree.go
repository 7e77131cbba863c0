// Package tree builds an immutable, size-annotated snapshot of a directory
// hierarchy. Nodes live in a flat arena and are addressed by NodeID; the
// root is always RootID. Children are stored in canonical order:
// directories before files, then by full path ascending.
package tree

import (
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// Kind distinguishes files from directories.
type Kind uint8

// Node kinds.
const (
	File Kind = iota
	Directory
)

// String returns "file" or "dir".
func (k Kind) String() string {
	if k == Directory {
		return "dir"
	}
	return "file"
}

// NodeID addresses a node inside its Tree.
type NodeID int

// RootID is the ID of the root node of every tree.
const RootID NodeID = 0

// NoParent is the Parent of the root node.
const NoParent NodeID = -1

// Node is a single file or directory.
type Node struct {
	// Path is the absolute path of the entry.
	Path string

	// Name is the final path element.
	Name string

	// Kind is File or Directory.
	Kind Kind

	// Size is the byte length for files and the sum of all
	// children sizes for directories.
	Size int64

	// Parent is NoParent for the root.
	Parent NodeID

	// Children are in canonical order. Always empty for files.
	Children []NodeID
}

// IsDir reports whether the node is a directory.
func (n Node) IsDir() bool {
	return n.Kind == Directory
}

// Tree is the result of a scan. It is never modified after Build returns,
// so it may be shared freely between goroutines.
type Tree struct {
	nodes   []Node
	skipped []types.ScanError
	stats   types.ScanStats
}

// Root returns RootID.
func (t *Tree) Root() NodeID {
	return RootID
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID. It panics if id is out of range,
// like a slice index would. The returned Children slice must not be modified.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Valid reports whether id addresses a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Size is shorthand for t.Node(id).Size.
func (t *Tree) Size(id NodeID) int64 {
	return t.nodes[id].Size
}

// Depth returns the distance from the root (root = 0).
func (t *Tree) Depth(id NodeID) int {
	depth := 0
	for p := t.nodes[id].Parent; p != NoParent; p = t.nodes[p].Parent {
		depth++
	}
	return depth
}

// Skipped returns the entries that could not be read during the scan.
func (t *Tree) Skipped() []types.ScanError {
	return t.skipped
}

// Stats returns the scan summary.
func (t *Tree) Stats() types.ScanStats {
	return t.stats
}

// Walk visits every node in canonical pre-order starting at the root.
// Returning false from fn skips that node's children.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	if len(t.nodes) == 0 {
		return
	}

	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{RootID, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(f.id, f.depth) {
			continue
		}
		children := t.nodes[f.id].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}
