package viewer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/custdesk/internal/store"
)

// chromeHeight is the number of lines around the table: title, banner,
// footer and help bar.
const chromeHeight = 6

// Model is the Bubble Tea model for the customer table.
// The table shows the most recent snapshot in the order the store returned it.
type Model struct {
	ctx      context.Context
	fetcher  Fetcher
	table    table.Model
	help     help.Model
	keys     keyMap
	snapshot store.Snapshot
	loading  bool
	loads    int
	width    int
	height   int
}

// NewModel creates a viewer backed by f. Nothing is fetched until Init runs.
func NewModel(ctx context.Context, f Fetcher) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tableStyles()),
	)
	return Model{
		ctx:     ctx,
		fetcher: f,
		table:   t,
		help:    help.New(),
		keys:    KeyMap(),
		loading: true,
	}
}

// Init fetches the first snapshot.
func (m Model) Init() tea.Cmd {
	return fetchCmd(m.ctx, m.fetcher)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := msg.Height - chromeHeight
		if h < 1 {
			h = 1
		}
		m.table.SetHeight(h)
		return m, nil

	case SnapshotMsg:
		return m.applySnapshot(msg.Snapshot), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m.refresh()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// refresh clears the displayed rows and re-queries the store.
// A refresh already in flight absorbs the key press.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.table.SetRows(nil)
	return m, fetchCmd(m.ctx, m.fetcher)
}

// applySnapshot replaces the table contents with snap.
func (m Model) applySnapshot(snap store.Snapshot) Model {
	m.loading = false
	m.loads++
	m.snapshot = snap

	rows := make([]table.Row, len(snap.Rows))
	for i, r := range snap.Rows {
		rows[i] = table.Row(r)
	}
	// Rows are cleared first so they are never rendered against a column set
	// of a different width.
	m.table.SetRows(nil)
	m.table.SetColumns(tableColumns(snap.Columns))
	m.table.SetRows(rows)
	m.table.SetCursor(0)
	return m
}

// Snapshot returns the snapshot currently on screen.
func (m Model) Snapshot() store.Snapshot {
	return m.snapshot
}

// View renders the title, table, status line and help bar.
func (m Model) View() string {
	title := titleStyle().Render(Title)

	var banner string
	switch {
	case m.loading:
		banner = dimStyle().Render("Loading...")
	case m.snapshot.Degraded:
		banner = warnStyle().Render(fmt.Sprintf("Records unavailable: %v", m.snapshot.Err))
	}

	footer := dimStyle().Render(m.footer())
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		banner,
		m.table.View(),
		footer,
		m.help.View(m.keys),
	)
}

func (m Model) footer() string {
	if m.loading {
		return ""
	}
	if m.snapshot.Degraded {
		return "showing placeholder row"
	}
	n := len(m.snapshot.Rows)
	if n == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", n)
}
