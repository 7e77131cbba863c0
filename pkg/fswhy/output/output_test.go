package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
	"github.com/jamesainslie/fswhy/pkg/fswhy/view"
)

// scenarioState scans root/(a.txt 10B, sub/(b.txt 20B)) and returns the
// initial view over it.
func scenarioState(t *testing.T, opts ...view.Option) *view.State {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 10), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), make([]byte, 20), 0o644))

	tr, err := tree.Build(context.Background(), root, tree.Options{})
	require.NoError(t, err)
	return view.New(tr, opts...)
}

func TestNewResult(t *testing.T) {
	s := scenarioState(t)
	r := NewResult(s)

	require.Len(t, r.Rows, 3)
	assert.Equal(t, s.Tree().Node(tree.RootID).Path, r.Source)
	assert.Equal(t, "name", r.Sort)
	assert.Equal(t, int64(30), r.TotalSize())

	root, sub, file := r.Rows[0], r.Rows[1], r.Rows[2]
	assert.True(t, root.Expanded)
	assert.InDelta(t, 100.0, root.Percent, 1e-9)

	assert.Equal(t, "sub", sub.Name)
	assert.True(t, sub.IsDir())
	assert.False(t, sub.Expanded)
	assert.Equal(t, 1, sub.Depth)
	assert.Equal(t, "Directory", sub.Category)

	assert.Equal(t, "a.txt", file.Name)
	assert.Equal(t, 2, file.Index)
	assert.Equal(t, "file", file.Kind)
	assert.Equal(t, "10 B", file.SizeHuman)
	assert.Equal(t, "Document", file.Category)
	assert.InDelta(t, 33.333, file.Percent, 0.01)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "plain", "pretty", "yaml"}, Available())

	_, err := Get("xml")
	assert.Error(t, err)

	reg := NewRegistry()
	reg.Register("plain", func() Formatter { return &PlainFormatter{} })
	f, err := reg.Get("plain")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)
}

func TestPlainFormatter(t *testing.T) {
	s := scenarioState(t)
	base := s.Tree().Node(tree.RootID).Name

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, NewResult(s)))

	want := strings.Join([]string{
		"--- File Tree (Total: 3) ---",
		"0 [-] " + base + " (30 B)",
		"1   [+] sub (20 B)",
		"2       a.txt (10 B)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPlainFormatterExpanded(t *testing.T) {
	s := scenarioState(t, view.WithExpandDepth(2))

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, NewResult(s)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "1   [-] sub (20 B)", lines[2])
	assert.Equal(t, "2         b.txt (20 B)", lines[3])
}

func TestPlainSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{7578, "7.4 KB"},
		{48128819, "45.9 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plainSize(tt.size), "size %d", tt.size)
	}
}

func TestJSONFormatter(t *testing.T) {
	s := scenarioState(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", NewResult(s)))

	var doc struct {
		Source string `json:"source"`
		Sort   string `json:"sort"`
		Stats  struct {
			Dirs  int64 `json:"dirs"`
			Files int64 `json:"files"`
			Bytes int64 `json:"bytes"`
		} `json:"stats"`
		Rows []Row `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "name", doc.Sort)
	assert.Equal(t, int64(2), doc.Stats.Dirs)
	assert.Equal(t, int64(2), doc.Stats.Files)
	assert.Equal(t, int64(30), doc.Stats.Bytes)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "sub", doc.Rows[1].Name)
	assert.Equal(t, "dir", doc.Rows[1].Kind)
}

func TestJSONFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, &Result{}))
	assert.Contains(t, buf.String(), `"rows": []`)
}

func TestYAMLFormatter(t *testing.T) {
	s := scenarioState(t, view.WithSortMode(view.SortSizeDescending))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "yaml", NewResult(s)))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "size", doc["sort"])

	rows, ok := doc["rows"].([]any)
	require.True(t, ok)
	assert.Len(t, rows, 3)
}

func TestPrettyFormatter(t *testing.T) {
	s := scenarioState(t)
	r := NewResult(s)
	r.Stats.Skipped = 12
	for i := 0; i < 12; i++ {
		r.Skipped = append(r.Skipped, types.ScanError{Path: fmt.Sprintf("/locked/%d", i), Error: "permission denied"})
	}

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, r))
	out := buf.String()

	assert.Contains(t, out, r.Source)
	assert.Contains(t, out, "SIZE")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "sub/")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "30 B")
	assert.Contains(t, out, "Skipped: 12")
	assert.Contains(t, out, "/locked/0: permission denied")
	assert.Contains(t, out, "... and 2 more")
	assert.NotContains(t, out, "/locked/11")
}

func TestPrettyFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, &Result{Source: "/nowhere"}))
	assert.Contains(t, buf.String(), "Nothing to show")
}
