package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// ErrRootUnreadable is matched by the error Build returns when the root
// itself cannot be read.
var ErrRootUnreadable = errors.New("root unreadable")

// ErrSymlinkCycle is recorded for a symlink that points at one of its
// own ancestor directories.
var ErrSymlinkCycle = errors.New("symlink cycle")

// RootError is returned by Build when the root path cannot be read.
// It matches both ErrRootUnreadable and the underlying error.
type RootError struct {
	Path string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

// Unwrap exposes ErrRootUnreadable and the cause to errors.Is and errors.As.
func (e *RootError) Unwrap() []error {
	return []error{ErrRootUnreadable, e.Err}
}

// Options configures Build.
type Options struct {
	// Exclude contains glob patterns. Matching entries, and everything
	// under matching directories, are left out of the tree.
	Exclude []string

	// OneFileSystem skips directories on a different device than the root.
	OneFileSystem bool

	// Progress receives live counters. Nil disables progress reporting.
	Progress *Progress
}

var logger = logging.Get("scanner")

// Build scans root and returns the resulting tree.
//
// Entries that cannot be read are skipped, logged, and listed in
// Tree.Skipped; the rest of the scan continues. A failure to read the root
// itself returns a *RootError. Build walks the filesystem sequentially and
// returns ctx.Err() if ctx is cancelled.
func Build(ctx context.Context, root string, opts Options) (*Tree, error) {
	start := time.Now()

	excludes, err := compileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}

	progress := opts.Progress
	if progress == nil {
		progress = NewProgress()
	}
	defer progress.finish()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &RootError{Path: root, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &RootError{Path: abs, Err: err}
	}

	b := &builder{
		ctx:      ctx,
		tree:     &Tree{},
		excludes: excludes,
		progress: progress,
	}

	if opts.OneFileSystem {
		dev, err := deviceOf(abs)
		if err != nil {
			logger.Warn("one-file-system disabled", "path", abs, "error", err)
		} else {
			b.rootDev = dev
			b.sameDevice = true
		}
	}

	logger.Info("scan started", "path", abs)

	if info.IsDir() {
		if _, err := b.dir(abs, info, NoParent, nil); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &RootError{Path: abs, Err: err}
		}
	} else {
		b.file(abs, info, NoParent)
	}

	t := b.tree
	t.stats = types.ScanStats{
		Dirs:    progress.dirs.Load(),
		Files:   progress.files.Load(),
		Bytes:   t.nodes[RootID].Size,
		Skipped: int64(len(t.skipped)),
		Elapsed: time.Since(start),
	}

	logger.Info("scan complete",
		"path", abs,
		"dirs", t.stats.Dirs,
		"files", t.stats.Files,
		"bytes", t.stats.Bytes,
		"skipped", t.stats.Skipped,
		"elapsed", t.stats.Elapsed)

	return t, nil
}

type builder struct {
	ctx        context.Context
	tree       *Tree
	excludes   excludeSet
	progress   *Progress
	rootDev    uint64
	sameDevice bool
}

type entry struct {
	path string
	info fs.FileInfo
}

// dir reads a directory and appends it and its subtree to the arena.
// Nothing is appended if the directory itself cannot be read.
func (b *builder) dir(path string, info fs.FileInfo, parent NodeID, ancestors []fs.FileInfo) (NodeID, error) {
	if err := b.ctx.Err(); err != nil {
		return 0, err
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}

	b.progress.enterDir(path)
	ancestors = append(ancestors, info)
	children := b.resolve(path, dirEntries, ancestors)
	sortCanonical(children)

	id := b.add(Node{
		Path:   path,
		Name:   filepath.Base(path),
		Kind:   Directory,
		Parent: parent,
	})

	ids := make([]NodeID, 0, len(children))
	var size int64
	for _, c := range children {
		var childID NodeID
		if c.info.IsDir() {
			childID, err = b.dir(c.path, c.info, id, ancestors)
			if err != nil {
				if ctxErr := b.ctx.Err(); ctxErr != nil {
					return 0, ctxErr
				}
				b.skip(c.path, err)
				continue
			}
		} else {
			childID = b.file(c.path, c.info, id)
		}
		ids = append(ids, childID)
		size += b.tree.nodes[childID].Size
	}

	b.tree.nodes[id].Children = ids
	b.tree.nodes[id].Size = size
	return id, nil
}

func (b *builder) file(path string, info fs.FileInfo, parent NodeID) NodeID {
	size := info.Size()
	b.progress.addFile(size)
	return b.add(Node{
		Path:   path,
		Name:   filepath.Base(path),
		Kind:   File,
		Size:   size,
		Parent: parent,
	})
}

func (b *builder) add(n Node) NodeID {
	b.tree.nodes = append(b.tree.nodes, n)
	return NodeID(len(b.tree.nodes) - 1)
}

// resolve stats each directory entry, following symlinks, and drops
// excluded, unreadable, cyclic and foreign-device entries.
func (b *builder) resolve(dir string, dirEntries []os.DirEntry, ancestors []fs.FileInfo) []entry {
	out := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())

		if b.excludes.match(path) {
			logger.Debug("excluded", "path", path)
			continue
		}

		info, err := de.Info()
		if err != nil {
			b.skip(path, err)
			continue
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				b.skip(path, err)
				continue
			}
			if target.IsDir() && isAncestor(target, ancestors) {
				b.skip(path, ErrSymlinkCycle)
				continue
			}
			info = target
		}

		if info.IsDir() && b.sameDevice {
			dev, err := deviceOf(path)
			if err != nil {
				b.skip(path, err)
				continue
			}
			if dev != b.rootDev {
				logger.Debug("other filesystem", "path", path)
				continue
			}
		}

		out = append(out, entry{path: path, info: info})
	}
	return out
}

func (b *builder) skip(path string, err error) {
	b.progress.addSkipped()
	b.tree.skipped = append(b.tree.skipped, types.ScanError{Path: path, Error: err.Error()})
	logger.Warn("entry skipped", "path", path, "error", err)
}

func isAncestor(info fs.FileInfo, ancestors []fs.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}

// sortCanonical orders directories before files, then by path.
func sortCanonical(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.info.IsDir() != b.info.IsDir() {
			return a.info.IsDir()
		}
		return a.path < b.path
	})
}
