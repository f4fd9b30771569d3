package viewer

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/smileynet/custdesk/internal/customer"
	"github.com/smileynet/custdesk/internal/store"
)

// fakeFetcher returns queued snapshots in order, repeating the last one.
type fakeFetcher struct {
	snaps []store.Snapshot
	calls int
}

func (f *fakeFetcher) FetchAll(context.Context) store.Snapshot {
	i := f.calls
	if i >= len(f.snaps) {
		i = len(f.snaps) - 1
	}
	f.calls++
	return f.snaps[i]
}

func snapshotOf(rows ...[]string) store.Snapshot {
	return store.Snapshot{Columns: store.Columns, Rows: rows}
}

func adaRow() []string {
	return []string{"1", "Ada Lovelace", "1815-12-10", "ada@example.com", "555-0100", "1 Analytical Engine Way", "Email"}
}

func graceRow() []string {
	return []string{"2", "Grace Hopper", "", "grace@navy.mil", "", "", "Mail"}
}

// runCmd executes cmd and feeds its message back into m.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func loaded(t *testing.T, f Fetcher) Model {
	t.Helper()
	m := NewModel(context.Background(), f)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	m = updated.(Model)
	return runCmd(t, m, m.Init())
}

func TestModel_LoadRendersRowsInStoreOrder(t *testing.T) {
	// Given a store returning two rows, newest last
	f := &fakeFetcher{snaps: []store.Snapshot{snapshotOf(adaRow(), graceRow())}}

	// When the viewer loads
	m := loaded(t, f)

	// Then both rows show in the same order
	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][1] != "Ada Lovelace" || rows[1][1] != "Grace Hopper" {
		t.Errorf("row order = %q, %q", rows[0][1], rows[1][1])
	}
	if got := len(m.table.Columns()); got != len(store.Columns) {
		t.Errorf("columns = %d, want %d", got, len(store.Columns))
	}
	if m.loading {
		t.Error("loading should be false after snapshot")
	}
}

func TestModel_RefreshShowsExternalInsert(t *testing.T) {
	// Given a viewer that loaded one row
	f := &fakeFetcher{snaps: []store.Snapshot{
		snapshotOf(adaRow()),
		snapshotOf(adaRow(), graceRow()),
	}}
	m := loaded(t, f)

	// When r is pressed
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(Model)

	// Then rows are cleared until the re-query lands
	if got := len(m.table.Rows()); got != 0 {
		t.Errorf("rows during refresh = %d, want 0", got)
	}
	m = runCmd(t, m, cmd)
	if got := len(m.table.Rows()); got != 2 {
		t.Errorf("rows after refresh = %d, want 2", got)
	}
	if f.calls != 2 {
		t.Errorf("FetchAll calls = %d, want 2", f.calls)
	}
}

func TestModel_RefreshIgnoredWhileLoading(t *testing.T) {
	f := &fakeFetcher{snaps: []store.Snapshot{snapshotOf(adaRow())}}
	m := NewModel(context.Background(), f)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if cmd != nil {
		t.Error("refresh before the first load completes should be ignored")
	}
}

func TestModel_DegradedSnapshot(t *testing.T) {
	// Given a fetcher whose table is missing
	f := &fakeFetcher{snaps: []store.Snapshot{store.Fallback(errors.New("no such table: customers"))}}

	// When loaded
	m := loaded(t, f)

	// Then the placeholder row shows with a warning
	rows := m.table.Rows()
	if len(rows) != 1 || rows[0][0] != store.Placeholder {
		t.Errorf("rows = %v, want one placeholder row", rows)
	}
	if got := len(m.table.Columns()); got != len(store.FallbackColumns) {
		t.Errorf("columns = %d, want %d", got, len(store.FallbackColumns))
	}
	view := m.View()
	if !strings.Contains(view, "Records unavailable") {
		t.Errorf("View() missing degraded banner:\n%s", view)
	}
}

func TestModel_RecoversFromDegradedToFullColumns(t *testing.T) {
	f := &fakeFetcher{snaps: []store.Snapshot{
		store.Fallback(errors.New("no such table: customers")),
		snapshotOf(adaRow()),
	}}
	m := loaded(t, f)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = runCmd(t, m, cmd)

	if m.Snapshot().Degraded {
		t.Error("snapshot still degraded after recovery")
	}
	if got := len(m.table.Columns()); got != len(store.Columns) {
		t.Errorf("columns = %d, want %d", got, len(store.Columns))
	}
	if view := m.View(); !strings.Contains(view, "Ada Lovelace") {
		t.Errorf("View() missing recovered row:\n%s", view)
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(k.String(), func(t *testing.T) {
			m := loaded(t, &fakeFetcher{snaps: []store.Snapshot{snapshotOf()}})
			_, cmd := m.Update(k)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("command produced %T, want tea.QuitMsg", cmd())
			}
		})
	}
}

func TestModel_ViewShowsHeadingsAndCount(t *testing.T) {
	m := loaded(t, &fakeFetcher{snaps: []store.Snapshot{snapshotOf(adaRow())}})

	view := m.View()

	for _, want := range []string{Title, "Name", "Contact Method", "Ada Lovelace", "1 record"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestHeading(t *testing.T) {
	tests := map[string]string{
		"id":             "Id",
		"name":           "Name",
		"contact_method": "Contact Method",
	}
	for in, want := range tests {
		if got := Heading(in); got != want {
			t.Errorf("Heading(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyMap_ContainsExpected(t *testing.T) {
	var keys []string
	for _, b := range KeyMap().ShortHelp() {
		keys = append(keys, b.Keys()...)
	}
	for _, want := range []string{"up", "down", "r", "q"} {
		found := false
		for _, k := range keys {
			if k == want {
				found = true
			}
		}
		if !found {
			t.Errorf("KeyMap missing %q, got %v", want, keys)
		}
	}
}

// TestModel_Teatest_AgainstStore runs the viewer as a program against a real
// store, inserts a row behind its back, and refreshes.
func TestModel_Teatest_AgainstStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "customers.db")
	viewerStore, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer viewerStore.Close()
	entryStore, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer entryStore.Close()

	tm := teatest.NewTestModel(t, NewModel(ctx, viewerStore), teatest.WithInitialTermSize(140, 30))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "0 records")
	}, teatest.WithDuration(2*time.Second))

	if _, err := entryStore.Insert(ctx, customer.Record{Name: "Ada Lovelace", ContactMethod: "Email"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "1 record")
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	want := []string{"1", "Ada Lovelace", "", "", "", "", "Email"}
	if got := final.Snapshot().Rows; len(got) != 1 || !reflect.DeepEqual(got[0], want) {
		t.Errorf("final rows = %v, want [%v]", got, want)
	}
}
