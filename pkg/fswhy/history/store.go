package history

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
)

// ErrNotFound is returned when no record exists for a root.
var ErrNotFound = errors.New("no history for path")

var logger = logging.Get("history")

// Store wraps Badger for history operations. It is safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens or creates a history store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a record.
func (s *Store) Add(rec Record) error {
	value, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("encoding history record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(rec.Key(), value)
	})
	if err != nil {
		return fmt.Errorf("writing history record: %w", err)
	}

	logger.Debug("scan recorded", "root", rec.Root, "id", rec.ID, "bytes", rec.TotalSize)
	return nil
}

// List returns up to limit records for root, newest first. An empty root
// lists every root. A limit of zero or less returns everything.
func (s *Store) List(root string, limit int) ([]Record, error) {
	if root == "" {
		return s.listAll(limit)
	}

	prefix := MakeKeyPrefix(root)
	var records []Record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// In reverse mode Seek finds the last key <= the target.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			if err := it.Item().Value(rec.Decode); err != nil {
				return err
			}
			records = append(records, rec)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return records, nil
}

func (s *Store) listAll(limit int) ([]Record, error) {
	var records []Record

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(rec.Decode); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Latest returns the newest record for root.
func (s *Store) Latest(root string) (Record, error) {
	records, err := s.List(root, 1)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	return records[0], nil
}

// Clear removes all records for root and returns how many were removed.
func (s *Store) Clear(root string) (int, error) {
	prefix := MakeKeyPrefix(root)
	removed := 0

	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := txn.Delete(it.Item().KeyCopy(nil)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return removed, nil
}

// Deltas returns, for each record, the size change since the previous
// scan of the same root. records must be newest first, as List returns
// them. The oldest record of each root has OK unset.
func Deltas(records []Record) []Delta {
	deltas := make([]Delta, len(records))
	for i, rec := range records {
		for j := i + 1; j < len(records); j++ {
			if records[j].Root == rec.Root {
				deltas[i] = Delta{Bytes: rec.TotalSize - records[j].TotalSize, OK: true}
				break
			}
		}
	}
	return deltas
}

// Delta is the size change between two scans of the same root.
type Delta struct {
	Bytes int64
	OK    bool
}
