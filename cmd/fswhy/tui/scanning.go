package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// ScanModel represents the scanning phase of the TUI.
type ScanModel struct {
	progress  tree.Snapshot
	spinner   spinner.Model
	startTime time.Time
	width     int
	height    int
	rootPath  string
	done      bool
	err       error
}

// NewScanModel creates a new scanning model.
func NewScanModel(rootPath string) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return ScanModel{
		spinner:   s,
		startTime: time.Now(),
		width:     80,
		height:    24,
		rootPath:  rootPath,
	}
}

// View renders the scanning model.
func (m ScanModel) View() string {
	var b strings.Builder

	contentWidth := max(m.width-4, 40)

	b.WriteString("\n")
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	if m.done {
		if m.err != nil {
			b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
			b.WriteString("\n\n")
			b.WriteString(mutedTextStyle.Render("  Press q to exit"))
		} else {
			b.WriteString(successTextStyle.Render("  Scan complete!"))
		}
	} else {
		current := m.progress.Current
		if current == "" {
			current = m.rootPath
		}
		b.WriteString(fmt.Sprintf("  %s Scanning: %s",
			m.spinner.View(),
			truncatePath(current, contentWidth-20)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderProgressBar(contentWidth))
	b.WriteString("\n\n")

	b.WriteString(m.renderStats(contentWidth))
	b.WriteString("\n")

	content := b.String()
	contentLines := strings.Count(content, "\n") + 1
	if available := m.height - 2; available > contentLines {
		content += strings.Repeat("\n", available-contentLines)
	}

	return outerBoxStyle.Width(m.width - 2).Render(content)
}

func (m ScanModel) renderHeader(width int) string {
	title := titleStyle.Render("  fswhy")
	hint := mutedTextStyle.Render("[q to stop]")

	spacing := max(width-lipgloss.Width(title)-lipgloss.Width(hint), 1)
	return title + strings.Repeat(" ", spacing) + hint
}

// renderProgressBar renders a determinate bar once an estimate is known,
// and an indeterminate pulse before that.
func (m ScanModel) renderProgressBar(width int) string {
	barWidth := max(width-10, 10)

	var bar strings.Builder
	bar.WriteString("  ")

	if m.progress.Estimated > 0 || m.progress.Done {
		frac := m.progress.Fraction()
		filled := int(frac * float64(barWidth))
		bar.WriteString(progressFillStyle.Render(strings.Repeat("█", filled)))
		bar.WriteString(progressEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
		bar.WriteString(fmt.Sprintf(" %3d%%", int(frac*100)))
		return bar.String()
	}

	elapsed := time.Since(m.startTime)
	position := int(elapsed.Seconds()*20) % (barWidth * 2)
	if position > barWidth {
		position = barWidth*2 - position
	}
	pulseWidth := max(barWidth/5, 3)
	for i := range barWidth {
		dist := i - position
		if dist < 0 {
			dist = -dist
		}
		if dist < pulseWidth {
			bar.WriteString(progressFillStyle.Render("█"))
		} else {
			bar.WriteString(progressEmptyStyle.Render("░"))
		}
	}
	return bar.String()
}

// renderStats renders the statistics boxes.
func (m ScanModel) renderStats(totalWidth int) string {
	boxWidth := max((totalWidth-12)/5, 10)

	boxes := []string{
		m.renderStatBox("Dirs", humanize.Comma(m.progress.Dirs), boxWidth),
		m.renderStatBox("Files", humanize.Comma(m.progress.Files), boxWidth),
		m.renderStatBox("Size", types.FormatSize(m.progress.Bytes), boxWidth),
		m.renderStatBox("Skipped", humanize.Comma(m.progress.Skipped), boxWidth),
		m.renderStatBox("Time", formatDuration(time.Since(m.startTime)), boxWidth),
	}

	parts := []string{"  "}
	for i, box := range boxes {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, box)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m ScanModel) renderStatBox(label, value string, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		center(statsLabelStyle.Render(label), width-4),
		center(statsValueStyle.Render(value), width-4))

	return statsBoxStyle.Width(width).Render(content)
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// SetProgress updates the progress snapshot.
func (m *ScanModel) SetProgress(p tree.Snapshot) {
	m.progress = p
}

// SetDone marks the scan as complete.
func (m *ScanModel) SetDone(err error) {
	m.done = true
	m.err = err
}

// IsDone returns true if the scan is complete.
func (m ScanModel) IsDone() bool {
	return m.done
}

// Error returns any error from the scan.
func (m ScanModel) Error() error {
	return m.err
}
