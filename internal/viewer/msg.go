// Package viewer implements the read-only customer table TUI and its plain
// text rendering for non-terminal output.
package viewer

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/custdesk/internal/store"
)

// Fetcher returns the current contents of the customer table.
// Implementations never fail; unreadable data comes back as a degraded snapshot.
type Fetcher interface {
	FetchAll(ctx context.Context) store.Snapshot
}

// SnapshotMsg carries the result of a Fetcher.FetchAll call.
type SnapshotMsg struct {
	Snapshot store.Snapshot
}

// fetchCmd returns a tea.Cmd that calls f.FetchAll and wraps the result in a
// SnapshotMsg.
func fetchCmd(ctx context.Context, f Fetcher) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: f.FetchAll(ctx)}
	}
}
