package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// renderAppHeader renders the title line: app name, root path, total size
// and the active sort mode, with the sort mode right-aligned.
func renderAppHeader(root string, totalSize int64, sortMode string, width int) string {
	appName := titleStyle.Render("FSWHY")
	stats := mutedTextStyle.Render(fmt.Sprintf("  %s  •  %s", root, types.FormatSize(totalSize)))
	sortLabel := mutedTextStyle.Render("sort: ") + inputStyle.Render(sortMode)

	left := " " + appName + stats
	spacing := width - lipgloss.Width(left) - lipgloss.Width(sortLabel)
	if spacing < 1 {
		return left
	}
	return left + strings.Repeat(" ", spacing) + sortLabel
}

// renderScanMetrics renders the scan metrics line.
// Returns an empty string if there are no metrics to display.
func renderScanMetrics(stats types.ScanStats) string {
	var parts []string

	if stats.Dirs > 0 || stats.Files > 0 {
		parts = append(parts, fmt.Sprintf("Scanned: %s dirs, %s files",
			humanize.Comma(stats.Dirs),
			humanize.Comma(stats.Files)))
	}
	if stats.Elapsed > 0 {
		parts = append(parts, fmt.Sprintf("Time: %v", stats.Elapsed.Round(time.Millisecond)))
	}

	if len(parts) == 0 && stats.Skipped == 0 {
		return ""
	}

	line := mutedTextStyle.Render("  " + strings.Join(parts, "  |  "))
	if stats.Skipped > 0 {
		line += warningTextStyle.Render(fmt.Sprintf("  |  %s skipped (L for details)", humanize.Comma(stats.Skipped)))
	}
	return line
}
