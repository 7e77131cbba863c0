package logging

import "sync"

// DefaultBufferSize is the number of entries the TUI log panel keeps.
const DefaultBufferSize = 200

// LogBuffer holds recent log entries in a ring buffer.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	maxSize int
	start   int // oldest entry
	count   int
}

// NewLogBuffer creates a buffer holding at most maxSize entries.
func NewLogBuffer(maxSize int) *LogBuffer {
	if maxSize <= 0 {
		maxSize = DefaultBufferSize
	}
	return &LogBuffer{
		entries: make([]LogEntry, maxSize),
		maxSize: maxSize,
	}
}

// Add appends an entry, overwriting the oldest one when full.
func (b *LogBuffer) Add(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.start + b.count) % b.maxSize
	b.entries[idx] = entry

	if b.count < b.maxSize {
		b.count++
	} else {
		b.start = (b.start + 1) % b.maxSize
	}
}

// Last returns the most recent n entries, oldest first.
func (b *LogBuffer) Last(n int) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > b.count {
		n = b.count
	}
	if n < 0 {
		n = 0
	}

	result := make([]LogEntry, n)
	offset := b.count - n
	for i := 0; i < n; i++ {
		result[i] = b.entries[(b.start+offset+i)%b.maxSize]
	}
	return result
}

// Entries returns a copy of every buffered entry, oldest first.
func (b *LogBuffer) Entries() []LogEntry {
	return b.Last(b.Len())
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// CountAtLeast returns how many buffered entries are at or above level.
func (b *LogBuffer) CountAtLeast(level Level) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for i := 0; i < b.count; i++ {
		if b.entries[(b.start+i)%b.maxSize].Level >= level {
			n++
		}
	}
	return n
}
