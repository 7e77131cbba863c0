package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
)

func writeTestFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// buildTestTree creates root/(a.txt 10B, sub/(b.txt 20B)) and scans it.
func buildTestTree(t *testing.T) *tree.Tree {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.txt"), 10)
	writeTestFile(t, filepath.Join(root, "sub", "b.txt"), 20)

	tr, err := tree.Build(context.Background(), root, tree.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tr
}
