package tree

import (
	"context"
	"io/fs"
	"runtime"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Estimate is a quick, approximate count of what Build will visit.
type Estimate struct {
	Entries int64
	Bytes   int64
}

// EstimateSize pre-counts the entries under root with a parallel walk so
// the scan can report a percentage. Symlinks are not followed and
// unreadable entries are ignored, so the result is only a hint.
func EstimateSize(ctx context.Context, root string, exclude []string) (Estimate, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return Estimate{}, err
	}

	var entries, bytes atomic.Int64
	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: walkWorkers(runtime.NumCPU()),
	}

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil
		}
		if path != root && excludes.match(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		entries.Add(1)
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				bytes.Add(info.Size())
			}
		}
		return nil
	})

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Estimate{}, ctxErr
	}
	if walkErr != nil {
		return Estimate{}, walkErr
	}

	// Build counts the root directory as well.
	return Estimate{Entries: entries.Load() + 1, Bytes: bytes.Load()}, nil
}

// Directory walking is metadata bound and gains from more workers than
// cores, up to a point.
const (
	minWalkWorkers = 8
	maxWalkWorkers = 64
)

// walkWorkers sizes the estimate walk for cpus cores.
func walkWorkers(cpus int) int {
	return min(max(cpus, minWalkWorkers), maxWalkWorkers)
}
