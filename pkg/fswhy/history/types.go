// Package history records a summary of every completed scan in a Badger
// database so later runs can show how a directory has grown or shrunk.
package history

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// KeySeparator separates the root from the rest of a key.
const KeySeparator = '\x00'

// Record summarizes one completed scan.
type Record struct {
	ID        string        `json:"id" yaml:"id"`
	Root      string        `json:"root" yaml:"root"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	TotalSize int64         `json:"total_size" yaml:"total_size"`
	Files     int64         `json:"files" yaml:"files"`
	Dirs      int64         `json:"dirs" yaml:"dirs"`
	Skipped   int64         `json:"skipped" yaml:"skipped"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// NewRecord builds a record for a scan of root that finished at t.
func NewRecord(root string, stats types.ScanStats, t time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Root:      root,
		Timestamp: t.UTC(),
		TotalSize: stats.Bytes,
		Files:     stats.Files,
		Dirs:      stats.Dirs,
		Skipped:   stats.Skipped,
		Duration:  stats.Elapsed,
	}
}

// Encode serializes the record.
func (r *Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Decode deserializes data into the record.
func (r *Record) Decode(data []byte) error {
	return json.Unmarshal(data, r)
}

// Key orders records by root, then by time.
// Format: <root>\x00<unix nanos, big endian><id>
func (r *Record) Key() []byte {
	key := MakeKeyPrefix(r.Root)
	key = binary.BigEndian.AppendUint64(key, uint64(r.Timestamp.UnixNano()))
	return append(key, r.ID...)
}

// MakeKeyPrefix returns the prefix for all records of root.
func MakeKeyPrefix(root string) []byte {
	return []byte(root + string(KeySeparator))
}
