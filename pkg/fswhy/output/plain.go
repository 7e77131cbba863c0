package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// PlainFormatter prints the numbered tree without colors:
//
//	--- File Tree (Total: 4) ---
//	0 [-] project (45.9 MB)
//	1   [+] src (7.4 KB)
//	2       Cargo.toml (88 B)
//
// The row numbers are the ones accepted by the interactive prompt.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	width := len(strconv.Itoa(len(r.Rows)))

	fmt.Fprintf(w, "--- File Tree (Total: %d) ---\n", len(r.Rows))
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%*d %s%s %s (%s)\n",
			width, row.Index,
			strings.Repeat("  ", row.Depth),
			marker(row),
			row.Name,
			plainSize(row.Size))
	}
	return nil
}

// marker is [-] for an expanded directory, [+] for a collapsed one and
// blank for files.
func marker(row Row) string {
	switch {
	case !row.IsDir():
		return "   "
	case row.Expanded:
		return "[-]"
	default:
		return "[+]"
	}
}

// plainSize uses one decimal above a kilobyte, e.g. "7.4 KB".
func plainSize(size int64) string {
	const unit = 1024
	switch {
	case size < unit:
		return fmt.Sprintf("%d B", size)
	case size < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(size)/unit)
	case size < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", float64(size)/unit/unit)
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/unit/unit/unit)
	}
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
