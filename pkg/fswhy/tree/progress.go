package tree

import (
	"sync/atomic"
)

// Progress exposes live scan counters. Build writes to it from the scanning
// goroutine; any other goroutine may call Snapshot at any time.
type Progress struct {
	dirs      atomic.Int64
	files     atomic.Int64
	bytes     atomic.Int64
	skipped   atomic.Int64
	estimated atomic.Int64
	current   atomic.Value
	done      atomic.Bool
}

// NewProgress returns a zeroed Progress.
func NewProgress() *Progress {
	p := &Progress{}
	p.current.Store("")
	return p
}

// Snapshot is a point-in-time copy of the Progress counters.
type Snapshot struct {
	Dirs    int64
	Files   int64
	Bytes   int64
	Skipped int64

	// Estimated is the expected number of entries, or zero if unknown.
	Estimated int64

	// Current is the directory being read.
	Current string

	// Done is set once Build returns.
	Done bool
}

// Snapshot returns the current counters.
func (p *Progress) Snapshot() Snapshot {
	current, _ := p.current.Load().(string)
	return Snapshot{
		Dirs:      p.dirs.Load(),
		Files:     p.files.Load(),
		Bytes:     p.bytes.Load(),
		Skipped:   p.skipped.Load(),
		Estimated: p.estimated.Load(),
		Current:   current,
		Done:      p.done.Load(),
	}
}

// SetEstimate records the expected number of entries, usually from Estimate.
func (p *Progress) SetEstimate(entries int64) {
	p.estimated.Store(entries)
}

// Entries is the number of entries visited so far.
func (s Snapshot) Entries() int64 {
	return s.Dirs + s.Files + s.Skipped
}

// Fraction returns scan completion in [0, 1]. Without an estimate it
// returns 0 until the scan is done. It never reports 1 before Done, since
// the estimate may be short.
func (s Snapshot) Fraction() float64 {
	if s.Done {
		return 1
	}
	if s.Estimated <= 0 {
		return 0
	}
	f := float64(s.Entries()) / float64(s.Estimated)
	if f > 0.99 {
		f = 0.99
	}
	return f
}

func (p *Progress) enterDir(path string) {
	p.dirs.Add(1)
	p.current.Store(path)
}

func (p *Progress) addFile(size int64) {
	p.files.Add(1)
	p.bytes.Add(size)
}

func (p *Progress) addSkipped() {
	p.skipped.Add(1)
}

func (p *Progress) finish() {
	p.done.Store(true)
}
