// Package tui provides the interactive terminal explorer for fswhy.
// It uses Charmbracelet's Bubble Tea, Lip Gloss, and Bubbles.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
)

var logger = logging.Get("tui")

// Color palette for the chrome around the tree. Tree rows use the theme.
var (
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#00D9FF")

	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#DC3545")

	mutedColor  = lipgloss.Color("#666666")
	subtleColor = lipgloss.Color("#444444")
	borderColor = lipgloss.Color("#333333")
)

// Box styles for containers.
var (
	// outerBoxStyle is the main container style.
	outerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)
)

// Text styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	successTextStyle = lipgloss.NewStyle().
				Foreground(successColor)

	warningTextStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	// inputStyle renders the pending row number.
	inputStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)
)

// Progress bar styles.
var (
	progressFillStyle = lipgloss.NewStyle().
				Foreground(successColor)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(subtleColor)
)

// Stats box styles.
var (
	statsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(borderColor).
			Padding(0, 2)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statsValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))
)

// Log panel styles.
var (
	logTimeStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	logComponentStyle = lipgloss.NewStyle().Foreground(accentColor)
	logDebugStyle     = lipgloss.NewStyle().Foreground(subtleColor)
	logInfoStyle      = lipgloss.NewStyle().Foreground(successColor)
	logWarnStyle      = lipgloss.NewStyle().Foreground(warningColor)
	logErrorStyle     = lipgloss.NewStyle().Foreground(dangerColor).Bold(true)
)

// rowStyles are the tree row styles derived from a Theme.
type rowStyles struct {
	dir       lipgloss.Style
	file      lipgloss.Style
	err       lipgloss.Style
	highlight lipgloss.Style
	size      lipgloss.Style
	index     lipgloss.Style
}

func newRowStyles(t Theme) rowStyles {
	base := lipgloss.NewStyle()
	return rowStyles{
		dir:       t.Dir.Apply(base.Bold(true)),
		file:      t.File.Apply(base),
		err:       t.Error.Apply(base),
		highlight: t.Highlight.Apply(base.Bold(true)),
		size:      t.Size.Apply(base),
		index:     t.Index.Apply(base),
	}
}

// renderDivider creates a horizontal divider line.
func renderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return dividerStyle.Render(strings.Repeat("─", width))
}

// truncatePath truncates a path to fit within maxLen, preserving the end.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[:max(maxLen, 0)]
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// center centers a string within the given width.
func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
