package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(root string, size int64, at time.Time) Record {
	return NewRecord(root, types.ScanStats{Bytes: size, Files: 2, Dirs: 1, Elapsed: time.Second}, at)
}

func TestStoreAddList(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Add(record("/data", 100, base)))
	require.NoError(t, store.Add(record("/data", 300, base.Add(2*time.Hour))))
	require.NoError(t, store.Add(record("/data", 200, base.Add(time.Hour))))
	require.NoError(t, store.Add(record("/data2", 999, base.Add(3*time.Hour))))

	t.Run("newest first for one root", func(t *testing.T) {
		records, err := store.List("/data", 0)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []int64{300, 200, 100}, []int64{records[0].TotalSize, records[1].TotalSize, records[2].TotalSize})
		for _, r := range records {
			assert.Equal(t, "/data", r.Root)
		}
	})

	t.Run("prefix does not leak into sibling roots", func(t *testing.T) {
		records, err := store.List("/data2", 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, int64(999), records[0].TotalSize)
	})

	t.Run("limit", func(t *testing.T) {
		records, err := store.List("/data", 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(300), records[0].TotalSize)
	})

	t.Run("all roots", func(t *testing.T) {
		records, err := store.List("", 0)
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, "/data2", records[0].Root)
		assert.Equal(t, int64(100), records[3].TotalSize)

		limited, err := store.List("", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("round trips fields", func(t *testing.T) {
		latest, err := store.Latest("/data")
		require.NoError(t, err)
		assert.NotEmpty(t, latest.ID)
		assert.Equal(t, int64(2), latest.Files)
		assert.Equal(t, int64(1), latest.Dirs)
		assert.Equal(t, time.Second, latest.Duration)
		assert.True(t, latest.Timestamp.Equal(base.Add(2*time.Hour)))
	})
}

func TestStoreLatestMissing(t *testing.T) {
	store := openStore(t)
	_, err := store.Latest("/nowhere")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreClear(t *testing.T) {
	store := openStore(t)
	now := time.Now()
	require.NoError(t, store.Add(record("/a", 1, now)))
	require.NoError(t, store.Add(record("/a", 2, now.Add(time.Minute))))
	require.NoError(t, store.Add(record("/b", 3, now)))

	removed, err := store.Clear("/a")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	records, err := store.List("/a", 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = store.List("/b", 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Add(record("/x", 5, time.Now())))
	require.NoError(t, store.Close())

	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()

	latest, err := store.Latest("/x")
	require.NoError(t, err)
	assert.Equal(t, int64(5), latest.TotalSize)
}

func TestDeltas(t *testing.T) {
	now := time.Now()
	records := []Record{
		record("/a", 500, now),
		record("/b", 10, now.Add(-time.Minute)),
		record("/a", 200, now.Add(-time.Hour)),
		record("/a", 250, now.Add(-2*time.Hour)),
	}

	deltas := Deltas(records)
	require.Len(t, deltas, 4)
	assert.Equal(t, Delta{Bytes: 300, OK: true}, deltas[0])
	assert.Equal(t, Delta{}, deltas[1])
	assert.Equal(t, Delta{Bytes: -50, OK: true}, deltas[2])
	assert.Equal(t, Delta{}, deltas[3])
}
