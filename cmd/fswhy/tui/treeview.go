package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
	"github.com/jamesainslie/fswhy/pkg/fswhy/view"
)

// Tree view icons using Unicode symbols.
const (
	iconExpanded  = "▼" // Black down-pointing triangle
	iconCollapsed = "▶" // Black right-pointing triangle
	iconFile      = " "
)

// TreeView renders the rows of a view.State and keeps the cursor row on
// screen. It never changes the state; all edits go through Update.
type TreeView struct {
	state  *view.State
	styles rowStyles
	offset int
}

// NewTreeView creates a TreeView over s using the colors from theme.
func NewTreeView(s *view.State, theme Theme) *TreeView {
	return &TreeView{
		state:  s,
		styles: newRowStyles(theme),
	}
}

// View renders the visible window of rows within the given dimensions.
func (tv *TreeView) View(width, height int) string {
	items := tv.state.Flatten()
	if len(items) == 0 {
		return center(mutedTextStyle.Render("Nothing to display"), width) + "\n"
	}

	visibleRows := max(height, 1)
	tv.ensureVisible(visibleRows, len(items))

	t := tv.state.Tree()
	total := t.Size(t.Root())
	indexWidth := len(strconv.Itoa(len(items) - 1))

	var b strings.Builder
	end := min(tv.offset+visibleRows, len(items))
	for i := tv.offset; i < end; i++ {
		b.WriteString(tv.renderRow(i, items[i], indexWidth, total, width))
		b.WriteString("\n")
	}
	for i := end - tv.offset; i < visibleRows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// ensureVisible adjusts offset so the cursor row lies in the window.
func (tv *TreeView) ensureVisible(visible, rows int) {
	cursor := tv.state.Cursor()
	if cursor < tv.offset {
		tv.offset = cursor
	} else if cursor >= tv.offset+visible {
		tv.offset = cursor - visible + 1
	}
	if maxOffset := rows - visible; tv.offset > maxOffset {
		tv.offset = maxOffset
	}
	if tv.offset < 0 {
		tv.offset = 0
	}
}

// renderRow renders one row: index, indentation, icon, name, then the
// size and share of the root right-aligned.
func (tv *TreeView) renderRow(index int, item view.Item, indexWidth int, total int64, width int) string {
	n := tv.state.Tree().Node(item.ID)

	icon := iconFile
	if n.IsDir() {
		icon = iconCollapsed
		if tv.state.IsExpanded(item.ID) {
			icon = iconExpanded
		}
	}

	name := n.Name
	if n.IsDir() {
		name += "/"
	}
	idx := fmt.Sprintf("%*d", indexWidth, index)
	left := fmt.Sprintf("%s %s%s %s", idx, strings.Repeat("  ", item.Depth), icon, name)
	right := fmt.Sprintf("%s %s", types.FormatSize(n.Size), formatPercent(n.Size, total))

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)

	if index == tv.state.Cursor() {
		return tv.styles.highlight.Width(width).Render(left + strings.Repeat(" ", padding) + right)
	}

	nameStyle := tv.styles.file
	if n.IsDir() {
		nameStyle = tv.styles.dir
	}

	var row strings.Builder
	row.WriteString(tv.styles.index.Render(idx))
	row.WriteString(" ")
	row.WriteString(strings.Repeat("  ", item.Depth))
	row.WriteString(nameStyle.Render(icon + " " + name))
	row.WriteString(strings.Repeat(" ", padding))
	row.WriteString(tv.styles.size.Render(right))
	return row.String()
}

// renderStatus renders the pending input or the current status message.
func (tv *TreeView) renderStatus() string {
	if tv.state.InputMode() == view.InputAccumulating {
		return inputStyle.Render("row: " + tv.state.Input() + "_")
	}
	st, ok := tv.state.Status()
	if !ok {
		return ""
	}
	if st.IsError {
		return tv.styles.err.Render("error: " + st.Message)
	}
	return successTextStyle.Render(st.Message)
}

func formatPercent(size, total int64) string {
	if total <= 0 {
		return "  0.0%"
	}
	return fmt.Sprintf("%5.1f%%", float64(size)/float64(total)*100)
}
