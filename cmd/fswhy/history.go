package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fswhy/pkg/fswhy/history"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var historyCmd = &cobra.Command{
	Use:   "history [path]",
	Short: "View previous scans",
	Long: `View the history of completed scans, newest first.

Every scan records its root, total size, entry counts and duration. With a
path, only scans of that root are listed and the CHANGE column shows how
the total size moved since the previous scan.

Use -o json or -o yaml for machine-readable output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyLimit int
	historyClear bool
)

// errClearNeedsPath is returned for --clear without a path.
var errClearNeedsPath = errors.New("--clear requires a path")

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete the history of the given path")
	rootCmd.AddCommand(historyCmd)
}

// runHistory lists recent scans.
func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var root string
	if len(args) > 0 {
		if root, err = resolveScanPath(args[0]); err != nil {
			return err
		}
	}
	if historyClear && root == "" {
		return errClearNeedsPath
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if historyClear {
		n, err := store.Clear(root)
		if err != nil {
			return err
		}
		printInfo("Removed %d history entries for %s", n, root)
		return nil
	}

	records, err := store.List(root, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	switch format := viper.GetString("output"); format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(records))
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(nonNil(records))
	case "", "pretty", "plain":
	default:
		return fmt.Errorf("unknown output format %q for history: use pretty, json or yaml", format)
	}

	if len(records) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'fswhy [path]' to scan a directory.")
		return nil
	}

	writeHistoryTable(out, records, time.Now())
	return nil
}

func nonNil(records []history.Record) []history.Record {
	if records == nil {
		return []history.Record{}
	}
	return records
}

// writeHistoryTable prints records with the size change since the
// previous scan of the same root.
func writeHistoryTable(w io.Writer, records []history.Record, now time.Time) {
	deltas := history.Deltas(records)

	fmt.Fprintf(w, "\n%-16s  %-10s  %-11s  %9s  %7s  %7s  %s\n",
		"WHEN", "SIZE", "CHANGE", "FILES", "DIRS", "SKIPPED", "ROOT")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for i, rec := range records {
		fmt.Fprintf(w, "%-16s  %-10s  %-11s  %9s  %7s  %7s  %s\n",
			humanize.RelTime(rec.Timestamp, now, "ago", "from now"),
			types.FormatSize(rec.TotalSize),
			formatDelta(deltas[i]),
			humanize.Comma(rec.Files),
			humanize.Comma(rec.Dirs),
			humanize.Comma(rec.Skipped),
			rec.Root,
		)
	}

	fmt.Fprintln(w, strings.Repeat("-", 90))
	fmt.Fprintf(w, "\nShowing %d entries. Use --limit to see more.\n", len(records))
}

// formatDelta renders a size change as "+1.2 MiB", "-300 B" or "=".
func formatDelta(d history.Delta) string {
	switch {
	case !d.OK:
		return "-"
	case d.Bytes > 0:
		return "+" + types.FormatSize(d.Bytes)
	case d.Bytes < 0:
		return "-" + types.FormatSize(-d.Bytes)
	default:
		return "="
	}
}
