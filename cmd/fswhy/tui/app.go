package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
	"github.com/jamesainslie/fswhy/pkg/fswhy/view"
)

// AppState represents the current state of the application.
type AppState int

const (
	StateScanning AppState = iota
	StateExploring
	StateFailed
)

// progressInterval is how often the scanning screen re-reads the counters.
const progressInterval = 100 * time.Millisecond

// Options configures the TUI application.
type Options struct {
	Root          string
	Exclude       []string
	OneFileSystem bool
	SortMode      view.SortMode
	ExpandDepth   int
	Theme         Theme

	// OnScanComplete is called from the scan goroutine after a successful
	// build, before the explorer is shown.
	OnScanComplete func(*tree.Tree)
}

// Model is the main Bubble Tea model: a scanning screen that turns into
// the tree explorer once the build finishes.
type Model struct {
	state     AppState
	options   Options
	keys      keyMap
	help      help.Model
	scanModel ScanModel

	ctx      context.Context
	cancel   context.CancelFunc
	progress *tree.Progress
	scanErr  error

	view     *view.State
	treeView *TreeView
	showLogs bool

	width  int
	height int
}

// ScanCompleteMsg is sent when the build returns.
type ScanCompleteMsg struct {
	Tree *tree.Tree
	Err  error
}

// estimateMsg carries the result of the pre-count walk.
type estimateMsg struct {
	estimate tree.Estimate
	err      error
}

// progressTickMsg triggers a re-read of the scan counters.
type progressTickMsg struct{}

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateScanning,
		options:   opts,
		keys:      defaultKeyMap(),
		help:      help.New(),
		scanModel: NewScanModel(opts.Root),
		ctx:       ctx,
		cancel:    cancel,
		progress:  tree.NewProgress(),
		width:     80,
		height:    24,
	}
}

// Init starts the scan, the estimate and the progress ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanModel.spinner.Tick,
		m.startScan(),
		m.startEstimate(),
		tickProgress(),
	)
}

func tickProgress() tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// startScan builds the tree in a command so the UI keeps animating.
func (m Model) startScan() tea.Cmd {
	ctx, opts, progress := m.ctx, m.options, m.progress
	return func() tea.Msg {
		t, err := tree.Build(ctx, opts.Root, tree.Options{
			Exclude:       opts.Exclude,
			OneFileSystem: opts.OneFileSystem,
			Progress:      progress,
		})
		if err == nil && opts.OnScanComplete != nil {
			opts.OnScanComplete(t)
		}
		return ScanCompleteMsg{Tree: t, Err: err}
	}
}

func (m Model) startEstimate() tea.Cmd {
	ctx, root, exclude := m.ctx, m.options.Root, m.options.Exclude
	return func() tea.Msg {
		est, err := tree.EstimateSize(ctx, root, exclude)
		return estimateMsg{estimate: est, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scanModel.width = msg.Width
		m.scanModel.height = msg.Height
		m.help.Width = max(msg.Width-4, 0)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressTickMsg:
		if m.state != StateScanning {
			return m, nil
		}
		m.scanModel.SetProgress(m.progress.Snapshot())
		return m, tickProgress()

	case estimateMsg:
		if msg.err != nil {
			logger.Debug("estimate failed", "root", m.options.Root, "error", msg.err)
			return m, nil
		}
		m.progress.SetEstimate(msg.estimate.Entries)
		return m, nil

	case ScanCompleteMsg:
		m.scanModel.SetProgress(m.progress.Snapshot())
		m.scanModel.SetDone(msg.Err)
		if msg.Err != nil {
			if errors.Is(msg.Err, context.Canceled) {
				return m, tea.Quit
			}
			logger.Error("scan failed", "root", m.options.Root, "error", msg.Err)
			m.scanErr = msg.Err
			m.state = StateFailed
			return m, nil
		}
		m.startExplorer(msg.Tree)
		return m, nil

	case spinner.TickMsg:
		if m.state != StateScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.scanModel.spinner, cmd = m.scanModel.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) startExplorer(t *tree.Tree) {
	m.cancel()
	m.view = view.New(t,
		view.WithSortMode(m.options.SortMode),
		view.WithExpandDepth(m.options.ExpandDepth),
	)
	m.treeView = NewTreeView(m.view, m.options.Theme)
	m.state = StateExploring
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}

	switch m.state {
	case StateScanning:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}

	case StateFailed:
		if key.Matches(msg, m.keys.Quit) || msg.String() == "enter" {
			return m, tea.Quit
		}

	case StateExploring:
		switch {
		case key.Matches(msg, m.keys.Logs):
			m.showLogs = !m.showLogs
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		action, ok := m.keys.actionFor(msg, m.treeHeight())
		if !ok {
			return m, nil
		}
		// Rejected actions leave their message in the status line.
		quit, _ := m.view.Update(action)
		if quit {
			return m, tea.Quit
		}
	}

	return m, nil
}

// treeHeight is the number of tree rows that fit between the header and
// the footer.
func (m Model) treeHeight() int {
	// border(2) + header(2) + two dividers + status line
	fixed := 2 + 2 + 2 + 1
	fixed += lipgloss.Height(m.help.View(m.keys))
	if m.showLogs {
		fixed += logPanelHeight + 1
	}
	return max(m.height-fixed, 1)
}

// View renders the current state.
func (m Model) View() string {
	switch m.state {
	case StateScanning, StateFailed:
		return m.scanModel.View()
	case StateExploring:
		return m.renderExplorer()
	}
	return ""
}

func (m Model) renderExplorer() string {
	contentWidth := max(m.width-4, 20)
	t := m.view.Tree()

	var b strings.Builder
	b.WriteString(renderAppHeader(t.Node(t.Root()).Path, t.Size(t.Root()), m.view.SortMode().String(), contentWidth))
	b.WriteString("\n")
	b.WriteString(renderScanMetrics(t.Stats()))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	b.WriteString(m.treeView.View(contentWidth, m.treeHeight()))

	if m.showLogs {
		b.WriteString(renderDivider(contentWidth))
		b.WriteString("\n")
		b.WriteString(renderLogPanel(recentLogEntries(), logging.LevelInfo, contentWidth, logPanelHeight))
	}

	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderStatusLine shows the status message or, when there is none, the
// selected path and its category.
func (m Model) renderStatusLine(width int) string {
	if s := m.treeView.renderStatus(); s != "" {
		return s
	}
	item, ok := m.view.Selected()
	if !ok {
		return ""
	}
	n := m.view.Tree().Node(item.ID)
	return mutedTextStyle.Render(truncatePath(n.Path, max(width-len(n.Category())-3, 10)) + "  " + n.Category())
}

// Err returns the scan error that ended the session, if any.
func (m Model) Err() error {
	return m.scanErr
}

// Run starts the TUI application. It returns the scan error when the
// tree could not be built.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		m.cancel()
		return m.Err()
	}
	return nil
}
