package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// maxWarnings caps how many skipped entries are listed.
const maxWarnings = 10

// PrettyFormatter formats output with colors and styling using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	if len(r.Skipped) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Skipped))
	}
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s",
		LabelStyle.Render("Source:"), ValueStyle.Render(r.Source)))

	scanned := fmt.Sprintf("%s files, %s dirs in %s",
		humanize.Comma(r.Stats.Files),
		humanize.Comma(r.Stats.Dirs),
		formatDuration(r.Stats.Elapsed))
	lines = append(lines, fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Scanned:"), ValueStyle.Render(scanned),
		LabelStyle.Render("Sort:"), ValueStyle.Render(r.Sort)))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Rows) == 0 {
		return MutedStyle.Render("  Nothing to show") + "\n"
	}

	idxWidth := max(len(strconv.Itoa(len(r.Rows))), 1)
	sizeWidth := 8
	for _, row := range r.Rows {
		sizeWidth = max(sizeWidth, len(row.SizeHuman))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		TableHeaderStyle.Render(padLeft("#", idxWidth)),
		TableHeaderStyle.Render(padLeft("SIZE", sizeWidth)),
		TableHeaderStyle.Render(padLeft("%", 6)),
		TableHeaderStyle.Render("NAME")))

	for _, row := range r.Rows {
		name := FileStyle.Render(row.Name)
		if row.IsDir() {
			name = DirStyle.Render(row.Name + "/")
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s%s %s\n",
			MutedStyle.Render(padLeft(strconv.Itoa(row.Index), idxWidth)),
			SizeStyle.Render(padLeft(row.SizeHuman, sizeWidth)),
			MutedStyle.Render(fmt.Sprintf("%5.1f%%", row.Percent)),
			strings.Repeat("  ", row.Depth),
			marker(row),
			name))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Rows:"), ValueStyle.Render(strconv.Itoa(len(r.Rows)))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Total:"), SizeStyle.Render(types.FormatSize(r.TotalSize()))),
	}
	if r.Stats.Skipped > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("Skipped: %d", r.Stats.Skipped)))
	}
	parts = append(parts, MutedStyle.Render("Use -o plain for unformatted output"))

	return FooterBox.Render(strings.Join(parts, "  "))
}

func (f *PrettyFormatter) formatWarnings(skipped []types.ScanError) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Skipped entries:"))
	sb.WriteString("\n")

	for i, e := range skipped {
		if i == maxWarnings {
			sb.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %d more", len(skipped)-maxWarnings)))
			sb.WriteString("\n")
			break
		}
		sb.WriteString(WarningStyle.Render("  " + e.String()))
		sb.WriteString("\n")
	}
	return sb.String()
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
