package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
)

// buildTree writes files (relative path -> size) under a temp dir and scans it.
func buildTree(t *testing.T, files map[string]int) *tree.Tree {
	t.Helper()
	root := t.TempDir()
	for rel, size := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	}
	tr, err := tree.Build(context.Background(), root, tree.Options{})
	require.NoError(t, err)
	return tr
}

// scenarioTree is root/(a.txt 10B, sub/(b.txt 20B)).
func scenarioTree(t *testing.T) *tree.Tree {
	return buildTree(t, map[string]int{
		"a.txt":     10,
		"sub/b.txt": 20,
	})
}

func names(s *State) []string {
	var out []string
	for i, it := range s.Flatten() {
		if i == 0 {
			out = append(out, "root")
			continue
		}
		out = append(out, s.Tree().Node(it.ID).Name)
	}
	return out
}

func depths(s *State) []int {
	var out []int
	for _, it := range s.Flatten() {
		out = append(out, it.Depth)
	}
	return out
}

func rowOf(t *testing.T, s *State, name string) int {
	t.Helper()
	for i, it := range s.Flatten() {
		if s.Tree().Node(it.ID).Name == name {
			return i
		}
	}
	t.Fatalf("%q not visible", name)
	return -1
}

func TestScenario(t *testing.T) {
	tr := scenarioTree(t)
	s := New(tr)

	assert.Equal(t, []string{"root", "sub", "a.txt"}, names(s))
	assert.Equal(t, []int{0, 1, 1}, depths(s))
	assert.Equal(t, int64(30), tr.Size(tr.Root()))

	quit, err := s.Update(Toggle(rowOf(t, s, "sub")))
	require.NoError(t, err)
	assert.False(t, quit)

	assert.Equal(t, []string{"root", "sub", "b.txt", "a.txt"}, names(s))
	assert.Equal(t, []int{0, 1, 2, 1}, depths(s))
	assert.Equal(t, 1, s.Cursor())
}

func TestToggleAtCursorOnFile(t *testing.T) {
	s := New(scenarioTree(t))
	_, err := s.Update(MoveBy(2))
	require.NoError(t, err)
	require.Equal(t, 2, s.Cursor())

	before := names(s)
	_, err = s.Update(ToggleAtCursor())

	require.ErrorIs(t, err, ErrNotToggleable)
	assert.Equal(t, before, names(s))
	assert.Equal(t, 2, s.Cursor())
	assert.True(t, s.IsExpanded(tree.RootID))

	status, ok := s.Status()
	require.True(t, ok)
	assert.True(t, status.IsError)
	assert.Contains(t, status.Message, "a.txt")
}

// fifteenRows returns a state whose initial view has exactly 15 rows:
// the root plus 14 directories d00..d13.
func fifteenRows(t *testing.T) *State {
	files := make(map[string]int)
	for i := 0; i < 14; i++ {
		files[fmt.Sprintf("d%02d/f.bin", i)] = i + 1
	}
	s := New(buildTree(t, files))
	require.Len(t, s.Flatten(), 15)
	return s
}

func TestTypedIndex(t *testing.T) {
	t.Run("digits then enter toggle that row", func(t *testing.T) {
		s := fifteenRows(t)

		_, err := s.Update(InputDigit('1'))
		require.NoError(t, err)
		_, err = s.Update(InputDigit('2'))
		require.NoError(t, err)
		assert.Equal(t, "12", s.Input())
		assert.Equal(t, InputAccumulating, s.InputMode())

		_, err = s.Update(Enter())
		require.NoError(t, err)

		assert.Equal(t, 12, s.Cursor())
		assert.Equal(t, "", s.Input())
		assert.Equal(t, InputEmpty, s.InputMode())
		item := s.Flatten()[12]
		assert.Equal(t, "d11", s.Tree().Node(item.ID).Name)
		assert.True(t, s.IsExpanded(item.ID))
		assert.Len(t, s.Flatten(), 16)
	})

	t.Run("out of range index", func(t *testing.T) {
		s := fifteenRows(t)

		s.Update(InputDigit('9'))
		s.Update(InputDigit('9'))
		_, err := s.Update(Enter())

		require.ErrorIs(t, err, ErrIndexNotFound)
		assert.Equal(t, "", s.Input())
		assert.Equal(t, 0, s.Cursor())
		assert.Len(t, s.Flatten(), 15)

		status, ok := s.Status()
		require.True(t, ok)
		assert.True(t, status.IsError)
	})

	t.Run("typed file index", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(InputDigit('2'))
		_, err := s.Update(Enter())
		require.ErrorIs(t, err, ErrNotToggleable)
		assert.Equal(t, 0, s.Cursor())
		assert.Equal(t, "", s.Input())
	})

	t.Run("overflowing number", func(t *testing.T) {
		s := New(scenarioTree(t))
		for _, d := range "99999999999999999999999" {
			s.Update(InputDigit(d))
		}
		_, err := s.Update(Enter())
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, "", s.Input())
	})

	t.Run("enter with empty buffer toggles at cursor", func(t *testing.T) {
		s := New(scenarioTree(t))
		_, err := s.Update(Enter())
		require.NoError(t, err)
		assert.Equal(t, []string{"root"}, names(s))
		assert.False(t, s.IsExpanded(tree.RootID))
	})

	t.Run("backspace", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(InputBackspace())
		assert.Equal(t, "", s.Input())

		s.Update(InputDigit('4'))
		s.Update(InputDigit('2'))
		s.Update(InputBackspace())
		assert.Equal(t, "4", s.Input())
	})

	t.Run("non-digit is ignored", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(InputDigit('x'))
		assert.Equal(t, InputEmpty, s.InputMode())
	})

	t.Run("digit clears status", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(Toggle(99))
		_, ok := s.Status()
		require.True(t, ok)

		s.Update(InputDigit('1'))
		_, ok = s.Status()
		assert.False(t, ok)
	})

	t.Run("other actions clear the buffer", func(t *testing.T) {
		for _, a := range []Action{MoveUp(), MoveDown(), ToggleAtCursor(), Toggle(0), ToggleSort(), ExpandAll(), CollapseAll()} {
			s := New(scenarioTree(t))
			s.Update(InputDigit('1'))
			s.Update(a)
			assert.Equal(t, "", s.Input(), a.String())
		}
	})
}

func TestToggle(t *testing.T) {
	t.Run("twice is identity", func(t *testing.T) {
		s := New(scenarioTree(t))
		before := s.Flatten()

		_, err := s.Update(Toggle(1))
		require.NoError(t, err)
		_, err = s.Update(Toggle(1))
		require.NoError(t, err)

		assert.Equal(t, before, s.Flatten())
		assert.False(t, s.IsExpanded(s.Flatten()[1].ID))
	})

	t.Run("collapse keeps descendant membership", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(Toggle(1))
		require.Len(t, s.Flatten(), 4)

		s.Update(Toggle(0))
		assert.Equal(t, []string{"root"}, names(s))

		s.Update(Toggle(0))
		assert.Equal(t, []string{"root", "sub", "b.txt", "a.txt"}, names(s))
	})

	t.Run("bad index leaves state unchanged", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(MoveDown())
		before := s.Flatten()

		for _, idx := range []int{-1, 3, 1000} {
			_, err := s.Update(Toggle(idx))
			require.ErrorIs(t, err, ErrIndexNotFound)
			assert.Equal(t, before, s.Flatten())
			assert.Equal(t, 1, s.Cursor())
		}
	})

	t.Run("collapsing re-clamps the cursor", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(Toggle(1))
		s.Update(MoveBy(10))
		require.Equal(t, 3, s.Cursor())

		_, err := s.Update(Toggle(0))
		require.NoError(t, err)
		assert.Equal(t, 0, s.Cursor())
	})

	t.Run("success clears error status", func(t *testing.T) {
		s := New(scenarioTree(t))
		s.Update(Toggle(50))
		s.Update(Toggle(1))
		_, ok := s.Status()
		assert.False(t, ok)
	})
}

func TestCursorMovement(t *testing.T) {
	s := New(scenarioTree(t))

	s.Update(MoveUp())
	assert.Equal(t, 0, s.Cursor())

	s.Update(MoveDown())
	s.Update(MoveDown())
	s.Update(MoveDown())
	assert.Equal(t, 2, s.Cursor())

	s.Update(MoveBy(-1))
	assert.Equal(t, 1, s.Cursor())

	s.Update(MoveBy(int(^uint(0) >> 1)))
	assert.Equal(t, 2, s.Cursor())

	s.Update(MoveBy(-int(^uint(0) >> 1)))
	assert.Equal(t, 0, s.Cursor())

	s.Update(Toggle(50))
	s.Update(MoveDown())
	_, ok := s.Status()
	assert.False(t, ok, "movement clears status")
}

func TestCursorAlwaysInRange(t *testing.T) {
	s := New(buildTree(t, map[string]int{
		"a/b/c/d.bin": 1,
		"a/e.bin":     2,
		"f/g.bin":     3,
		"h.bin":       4,
	}))

	actions := []Action{
		ExpandAll(), MoveBy(7), Toggle(1), MoveDown(), ToggleSort(), ToggleAtCursor(),
		CollapseAll(), MoveBy(-3), Enter(), MoveDown(), ExpandAll(), MoveBy(4), Toggle(0),
		Toggle(0), ToggleSort(), MoveBy(100), CollapseAll(),
	}
	for _, a := range actions {
		s.Update(a)
		n := len(s.Flatten())
		require.GreaterOrEqual(t, s.Cursor(), 0, a.String())
		require.Less(t, s.Cursor(), n, a.String())
	}
}

func TestFlattenProjection(t *testing.T) {
	s := New(buildTree(t, map[string]int{
		"a/b/c.bin": 1,
		"a/d.bin":   2,
		"e/f.bin":   3,
		"g.bin":     4,
	}), WithExpandDepth(10))

	items := s.Flatten()
	tr := s.Tree()
	assert.Equal(t, tr.Len(), len(items), "fully expanded view shows every node")

	seen := make(map[tree.NodeID]int)
	for i, it := range items {
		seen[it.ID] = it.Depth
		if i == 0 {
			assert.Equal(t, tree.RootID, it.ID)
			assert.Equal(t, 0, it.Depth)
			continue
		}
		parent := tr.Node(it.ID).Parent
		parentDepth, ok := seen[parent]
		require.True(t, ok, "parent must precede child")
		assert.Equal(t, parentDepth+1, it.Depth)
	}
}

func TestSortModes(t *testing.T) {
	tr := buildTree(t, map[string]int{
		"alpha/x.bin": 1,
		"zeta/x.bin":  500,
		"a_small.bin": 2,
		"b_tie.bin":   50,
		"m_tie.bin":   50,
		"z_huge.bin":  900,
	})
	before := append([]tree.NodeID(nil), tr.Node(tr.Root()).Children...)

	s := New(tr)
	assert.Equal(t, []string{"root", "alpha", "zeta", "a_small.bin", "b_tie.bin", "m_tie.bin", "z_huge.bin"}, names(s))

	_, err := s.Update(ToggleSort())
	require.NoError(t, err)
	assert.Equal(t, SortSizeDescending, s.SortMode())
	assert.Equal(t, []string{"root", "zeta", "alpha", "z_huge.bin", "b_tie.bin", "m_tie.bin", "a_small.bin"}, names(s))

	assert.Equal(t, before, tr.Node(tr.Root()).Children, "tree is not mutated")

	s.Update(ToggleSort())
	assert.Equal(t, SortNameAscending, s.SortMode())
	assert.Equal(t, "alpha", names(s)[1])
}

func TestSortSizeOrdersWithinKind(t *testing.T) {
	tr := buildTree(t, map[string]int{
		"a.bin":  5,
		"b.bin":  70,
		"c.bin":  30,
		"adir/x": 1,
		"zdir/x": 99,
		"mdir/x": 40,
	})
	s := New(tr, WithSortMode(SortSizeDescending))
	assert.Equal(t, []string{"root", "zdir", "mdir", "adir", "b.bin", "c.bin", "a.bin"}, names(s))
}

func TestToggleSortKeepsCursorOnNode(t *testing.T) {
	s := New(buildTree(t, map[string]int{
		"a.bin": 1,
		"b.bin": 100,
		"c.bin": 50,
	}))
	s.Update(MoveBy(1))
	require.Equal(t, "a.bin", s.Tree().Node(s.Flatten()[s.Cursor()].ID).Name)

	s.Update(ToggleSort())
	item, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "a.bin", s.Tree().Node(item.ID).Name)
	assert.Equal(t, 3, s.Cursor())
}

func TestExpandCollapseAll(t *testing.T) {
	s := New(buildTree(t, map[string]int{
		"a/b/c.bin": 1,
		"a/d.bin":   2,
		"e.bin":     3,
	}))
	require.Len(t, s.Flatten(), 3)

	_, err := s.Update(ExpandAll())
	require.NoError(t, err)
	assert.Len(t, s.Flatten(), s.Tree().Len())
	status, ok := s.Status()
	require.True(t, ok)
	assert.False(t, status.IsError)
	assert.Equal(t, "expanded 3 directories", status.Message)

	s.Update(MoveBy(3))
	require.Equal(t, "c.bin", s.Tree().Node(s.Flatten()[s.Cursor()].ID).Name)

	_, err = s.Update(CollapseAll())
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "e.bin"}, names(s))
	assert.Equal(t, 1, s.Cursor(), "cursor moves to the visible ancestor")
}

func TestExpandDepthOption(t *testing.T) {
	tr := buildTree(t, map[string]int{
		"a/b/c.bin": 1,
		"d.bin":     2,
	})

	assert.Equal(t, []string{"root"}, names(New(tr, WithExpandDepth(0))))
	assert.Equal(t, []string{"root", "a", "d.bin"}, names(New(tr, WithExpandDepth(1))))
	assert.Equal(t, []string{"root", "a", "b", "d.bin"}, names(New(tr, WithExpandDepth(2))))
}

func TestFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "only.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 9), 0o644))
	tr, err := tree.Build(context.Background(), path, tree.Options{})
	require.NoError(t, err)

	s := New(tr)
	assert.Len(t, s.Flatten(), 1)

	_, err = s.Update(ToggleAtCursor())
	assert.ErrorIs(t, err, ErrNotToggleable)

	s.Update(MoveBy(5))
	assert.Equal(t, 0, s.Cursor())
}

func TestQuit(t *testing.T) {
	s := New(scenarioTree(t))
	quit, err := s.Update(Quit())
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SortMode
		wantErr bool
	}{
		{"name", SortNameAscending, false},
		{"SIZE", SortSizeDescending, false},
		{"", SortNameAscending, false},
		{"date", SortNameAscending, true},
	}
	for _, tt := range tests {
		got, err := ParseSortMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSortMode)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, "name", SortNameAscending.String())
	assert.Equal(t, "size", SortSizeDescending.String())
}
