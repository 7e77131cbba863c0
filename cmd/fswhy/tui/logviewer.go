package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
)

// logPanelHeight is the number of lines the log panel takes when open,
// title included.
const logPanelHeight = 8

// filterEntriesByLevel returns entries at or above the specified level.
func filterEntriesByLevel(entries []logging.LogEntry, minLevel logging.Level) []logging.LogEntry {
	result := make([]logging.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= minLevel {
			result = append(result, e)
		}
	}
	return result
}

// logLevelStyle returns the style for a log level.
func logLevelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return logDebugStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

// logLevelChar returns a single character for the log level.
func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelInfo:
		return "I"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "?"
	}
}

// renderLogEntry renders a single entry as "HH:MM:SS [L] component: message key=value".
func renderLogEntry(entry logging.LogEntry, width int) string {
	comp := entry.Component
	if len(comp) > 10 {
		comp = comp[:10]
	}

	msg := entry.Message
	for i := 0; i+1 < len(entry.Fields); i += 2 {
		msg += fmt.Sprintf(" %v=%v", entry.Fields[i], entry.Fields[i+1])
	}

	// time(8) + space + [L](3) + space + component + ": "
	msgWidth := max(width-(8+1+3+1+len(comp)+2), 10)
	if len(msg) > msgWidth {
		msg = msg[:msgWidth-3] + "..."
	}

	return fmt.Sprintf("%s %s %s: %s",
		logTimeStyle.Render(entry.Time.Format("15:04:05")),
		logLevelStyle(entry.Level).Render("["+logLevelChar(entry.Level)+"]"),
		logComponentStyle.Render(comp),
		msg)
}

// renderLogPanel renders the newest entries at or above minLevel so that
// the most recent one is on the last line.
func renderLogPanel(entries []logging.LogEntry, minLevel logging.Level, width, height int) string {
	if height < 2 {
		return ""
	}

	var b strings.Builder
	filtered := filterEntriesByLevel(entries, minLevel)
	title := titleStyle.Render(fmt.Sprintf(" Logs [%s+] ", minLevel))
	b.WriteString(title + mutedTextStyle.Render(fmt.Sprintf("%d entries  [L] close", len(filtered))))
	b.WriteString("\n")

	rows := height - 1
	if len(filtered) > rows {
		filtered = filtered[len(filtered)-rows:]
	}
	if len(filtered) == 0 {
		b.WriteString(mutedTextStyle.Render("  no log entries"))
		b.WriteString("\n")
		rows--
	}
	for _, e := range filtered {
		b.WriteString(renderLogEntry(e, width))
		b.WriteString("\n")
	}
	for i := len(filtered); i < rows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// recentLogEntries returns what the TUI log buffer holds, or nil when
// logging runs without one.
func recentLogEntries() []logging.LogEntry {
	buf := logging.GetLogBuffer()
	if buf == nil {
		return nil
	}
	return buf.Last(logging.DefaultBufferSize)
}
