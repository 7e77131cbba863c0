package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/fswhy/pkg/fswhy/config"
	"github.com/jamesainslie/fswhy/pkg/fswhy/history"
	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// resetViperForTest resets the global viper to defaults, with history and
// logs kept under a temp dir.
func resetViperForTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())
	viper.Set("history.path", filepath.Join(dir, "history"))
	viper.Set("logging.path", filepath.Join(dir, "fswhy.log"))
	configErr = nil
	return dir
}

// scanFixture creates root/(a.txt 10B, sub/b.txt 20B).
func scanFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 10), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), make([]byte, 20), 0o644))
	return root
}

func TestResolveScanPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := resolveScanPath("~/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), got)

	got, err = resolveScanPath("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "path %q is not absolute", got)
	assert.True(t, strings.HasSuffix(got, filepath.Join("relative", "dir")))

	// Missing paths resolve; the scan reports them
	_, err = resolveScanPath("/does/not/exist")
	assert.NoError(t, err)
}

func TestHistoryEnabled(t *testing.T) {
	resetViperForTest(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.True(t, historyEnabled(cfg))

	viper.Set("no_history", true)
	assert.False(t, historyEnabled(cfg))

	viper.Set("no_history", false)
	cfg.History.Enabled = false
	assert.False(t, historyEnabled(cfg))
}

func TestLoadConfig_ReturnsReadError(t *testing.T) {
	resetViperForTest(t)
	configErr = config.ErrInvalidConfig
	t.Cleanup(func() { configErr = nil })

	_, err := loadConfig()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunNonInteractiveScan_JSON(t *testing.T) {
	resetViperForTest(t)
	viper.Set("expand_depth", 2)
	cfg, err := loadConfig()
	require.NoError(t, err)
	root := scanFixture(t)

	var buf bytes.Buffer
	require.NoError(t, runNonInteractiveScan(&buf, cfg, root, "json"))

	var doc struct {
		Source string `json:"source"`
		Rows   []struct {
			Index int    `json:"index"`
			Name  string `json:"name"`
			Size  int64  `json:"size"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, root, doc.Source)
	require.Len(t, doc.Rows, 4)
	assert.Equal(t, int64(30), doc.Rows[0].Size)
	assert.Equal(t, "sub", doc.Rows[1].Name)
	assert.Equal(t, "b.txt", doc.Rows[2].Name)
	assert.Equal(t, "a.txt", doc.Rows[3].Name)

	// The scan was recorded
	store, err := history.Open(cfg.HistoryPath())
	require.NoError(t, err)
	defer store.Close()
	rec, err := store.Latest(root)
	require.NoError(t, err)
	assert.Equal(t, int64(30), rec.TotalSize)
	assert.Equal(t, int64(2), rec.Files)
}

func TestRunNonInteractiveScan_NoHistory(t *testing.T) {
	resetViperForTest(t)
	viper.Set("no_history", true)
	cfg, err := loadConfig()
	require.NoError(t, err)
	root := scanFixture(t)

	var buf bytes.Buffer
	require.NoError(t, runNonInteractiveScan(&buf, cfg, root, "plain"))
	assert.Contains(t, buf.String(), "a.txt")

	store, err := history.Open(cfg.HistoryPath())
	require.NoError(t, err)
	defer store.Close()
	_, err = store.Latest(root)
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestRunNonInteractiveScan_UnknownFormat(t *testing.T) {
	resetViperForTest(t)
	cfg, err := loadConfig()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = runNonInteractiveScan(&buf, cfg, scanFixture(t), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	assert.Empty(t, buf.String())
}

func TestRunNonInteractiveScan_MissingRoot(t *testing.T) {
	resetViperForTest(t)
	cfg, err := loadConfig()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = runNonInteractiveScan(&buf, cfg, filepath.Join(t.TempDir(), "missing"), "plain")
	assert.ErrorIs(t, err, tree.ErrRootUnreadable)
}

func TestRecordScanAndHistoryJSON(t *testing.T) {
	resetViperForTest(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	root := scanFixture(t)

	tr, err := tree.Build(t.Context(), root, tree.Options{})
	require.NoError(t, err)
	require.NoError(t, recordScan(cfg.HistoryPath(), tr))
	require.NoError(t, recordScan(cfg.HistoryPath(), tr))

	viper.Set("output", "json")
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, runHistory(cmd, []string{root}))

	var records []history.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, root, records[0].Root)
	assert.False(t, records[0].Timestamp.Before(records[1].Timestamp))
}

func TestRunHistory_ClearNeedsPath(t *testing.T) {
	resetViperForTest(t)
	historyClear = true
	t.Cleanup(func() { historyClear = false })

	err := runHistory(&cobra.Command{}, nil)
	assert.ErrorIs(t, err, errClearNeedsPath)
}

func TestWriteHistoryTable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []history.Record{
		{Root: "/data", Timestamp: now.Add(-time.Hour), TotalSize: 3 << 20, Files: 1200, Dirs: 10},
		{Root: "/data", Timestamp: now.Add(-48 * time.Hour), TotalSize: 2 << 20, Files: 1100, Dirs: 9},
	}

	var buf bytes.Buffer
	writeHistoryTable(&buf, records, now)
	out := buf.String()

	assert.Contains(t, out, "WHEN")
	assert.Contains(t, out, "1 hour ago")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "+"+types.FormatSize(1<<20))
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "Showing 2 entries")
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta history.Delta
		want  string
	}{
		{"first scan", history.Delta{}, "-"},
		{"grew", history.Delta{Bytes: 1024, OK: true}, "+" + types.FormatSize(1024)},
		{"shrank", history.Delta{Bytes: -300, OK: true}, "-" + types.FormatSize(300)},
		{"unchanged", history.Delta{OK: true}, "="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDelta(tt.delta))
		})
	}
}

func TestRunVersion(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	runVersion(cmd, nil)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "fswhy "+version+"\n"))
	assert.Contains(t, out, "commit:")
	assert.Contains(t, out, "os/arch:")
}

func TestRunConfigShow(t *testing.T) {
	resetViperForTest(t)
	t.Setenv("FSWHY_SORT", "size")

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, runConfigShow(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "using defaults")
	assert.Contains(t, out, "logging.components.cli:")
	assert.Contains(t, out, "FSWHY_SORT=size")
}
