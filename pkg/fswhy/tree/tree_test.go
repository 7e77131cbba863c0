package tree

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T) *Tree {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 10)
	writeFile(t, filepath.Join(root, "sub", "b.txt"), 20)
	writeFile(t, filepath.Join(root, "sub", "inner", "c.png"), 5)

	tr, err := Build(context.Background(), root, Options{})
	require.NoError(t, err)
	return tr
}

func TestTreeWalk(t *testing.T) {
	tr := buildFixture(t)

	t.Run("visits everything with depths", func(t *testing.T) {
		var names []string
		var depths []int
		tr.Walk(func(id NodeID, depth int) bool {
			names = append(names, tr.Node(id).Name)
			depths = append(depths, depth)
			return true
		})
		assert.Equal(t, []string{filepath.Base(tr.Node(RootID).Path), "sub", "inner", "c.png", "b.txt", "a.txt"}, names)
		assert.Equal(t, []int{0, 1, 2, 3, 2, 1}, depths)
	})

	t.Run("false skips children", func(t *testing.T) {
		var names []string
		tr.Walk(func(id NodeID, depth int) bool {
			names = append(names, tr.Node(id).Name)
			return depth < 1
		})
		assert.Equal(t, []string{filepath.Base(tr.Node(RootID).Path), "sub", "a.txt"}, names)
	})

	t.Run("empty tree", func(t *testing.T) {
		called := false
		(&Tree{}).Walk(func(NodeID, int) bool {
			called = true
			return true
		})
		assert.False(t, called)
	})
}

func TestTreeDepthAndValid(t *testing.T) {
	tr := buildFixture(t)

	assert.Equal(t, 0, tr.Depth(RootID))
	tr.Walk(func(id NodeID, depth int) bool {
		assert.Equal(t, depth, tr.Depth(id))
		return true
	})

	assert.True(t, tr.Valid(RootID))
	assert.True(t, tr.Valid(NodeID(tr.Len()-1)))
	assert.False(t, tr.Valid(NodeID(tr.Len())))
	assert.False(t, tr.Valid(NoParent))
}

func TestNodeCategory(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{Node{Name: "photos", Kind: Directory}, "Directory"},
		{Node{Name: "IMG_001.JPG", Kind: File}, "Image"},
		{Node{Name: "backup.tar", Kind: File}, "Archive"},
		{Node{Name: "Makefile", Kind: File}, "File"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.node.Category(), tt.node.Name)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "dir", Directory.String())
	assert.Equal(t, "file", File.String())
}
