package session

import (
	"errors"
	"os"
	"testing"
	"time"

	"freightbook/internal/core"
	"freightbook/internal/log"
	"freightbook/internal/storage"
)

func newTestSession(t *testing.T, autosaveMs int) (*Session, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), log.Discard())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s := New(store, log.Discard())
	cfg := s.Config()
	cfg.AutosaveMs = autosaveMs
	if err := store.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}
	// Reload so the session sees the test's autosave delay.
	s = New(store, log.Discard())
	return s, store
}

func TestCreateAndOpen(t *testing.T) {
	s, store := newTestSession(t, 600)

	tab, err := s.CreateAndOpen("2026-02-25", 3)
	if err != nil {
		t.Fatalf("CreateAndOpen: %v", err)
	}
	if len(tab.Rows) != 3 || tab.Rows[2].LoadDate != "2026-02-27" {
		t.Fatalf("table = %+v", tab)
	}
	// Persisted immediately.
	if store.LoadTableByID(tab.ID) == nil {
		t.Fatal("table not persisted on create")
	}
	// Touched into recents.
	cfg := store.LoadConfig()
	if len(cfg.RecentTableIDs) != 1 || cfg.RecentTableIDs[0] != tab.ID {
		t.Fatalf("recents = %v", cfg.RecentTableIDs)
	}
}

func TestCreateAndOpenRejectsBadDate(t *testing.T) {
	s, _ := newTestSession(t, 600)
	_, err := s.CreateAndOpen("25/02/2026", 3)
	if !errors.Is(err, core.ErrInvalidStartDate) {
		t.Fatalf("expected ErrInvalidStartDate, got %v", err)
	}
	if s.Current() != nil {
		t.Fatal("nothing should be open after a rejected create")
	}
}

func TestOpenMissingTable(t *testing.T) {
	s, _ := newTestSession(t, 600)
	_, err := s.Open("tbl_nope")
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestSetCellRecomputesAmount(t *testing.T) {
	s, _ := newTestSession(t, 600)
	if _, err := s.CreateAndOpen("2026-02-25", 3); err != nil {
		t.Fatal(err)
	}

	if err := s.SetCell(0, "freight", "100"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if got := s.Current().Rows[0].Amount; got != "" {
		t.Fatalf("amount with missing settleTons = %q", got)
	}
	if err := s.SetCell(0, "settleTons", "2.5"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if got := s.Current().Rows[0].Amount; got != "250" {
		t.Fatalf("amount = %q", got)
	}
	if !s.Dirty() {
		t.Fatal("edits should mark the session dirty")
	}
}

func TestSetCellValidation(t *testing.T) {
	s, _ := newTestSession(t, 600)
	if err := s.SetCell(0, "freight", "1"); !errors.Is(err, ErrNoOpenTable) {
		t.Fatalf("expected ErrNoOpenTable, got %v", err)
	}
	if _, err := s.CreateAndOpen("2026-02-25", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(5, "freight", "1"); !errors.Is(err, ErrRowOutOfRange) {
		t.Fatalf("expected ErrRowOutOfRange, got %v", err)
	}
	if err := s.SetCell(0, "color", "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSetStartDateShiftsRows(t *testing.T) {
	s, _ := newTestSession(t, 600)
	if _, err := s.CreateAndOpen("2026-02-25", 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStartDate("2026-03-01"); err != nil {
		t.Fatalf("SetStartDate: %v", err)
	}
	tab := s.Current()
	if tab.StartDate != "2026-03-01" || tab.Rows[2].LoadDate != "2026-03-03" {
		t.Fatalf("table = %+v", tab)
	}
	if tab.Meta["startDate"] != "2026-03-01" {
		t.Fatalf("meta.startDate = %v", tab.Meta["startDate"])
	}

	if err := s.SetStartDate("bogus"); !errors.Is(err, core.ErrInvalidStartDate) {
		t.Fatalf("expected ErrInvalidStartDate, got %v", err)
	}
	if s.Current().StartDate != "2026-03-01" {
		t.Fatal("rejected date must leave the table unchanged")
	}
}

func TestAddAndRemoveRows(t *testing.T) {
	s, _ := newTestSession(t, 600)
	if _, err := s.CreateAndOpen("2026-02-25", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.AddRow(); err != nil {
		t.Fatal(err)
	}
	tab := s.Current()
	if len(tab.Rows) != 3 || tab.Rows[2].LoadDate != "2026-02-27" {
		t.Fatalf("after add: %+v", tab.Rows)
	}
	if tab.Rows[2].ID == "" || tab.Rows[2].Vehicle == "" {
		t.Fatalf("new row not normalized: %+v", tab.Rows[2])
	}

	if err := s.RemoveLastRow(); err != nil {
		t.Fatal(err)
	}
	if len(s.Current().Rows) != 2 {
		t.Fatalf("after remove: %d rows", len(s.Current().Rows))
	}
}

func TestAutosaveCoalesces(t *testing.T) {
	s, store := newTestSession(t, 100)
	tab, err := s.CreateAndOpen("2026-02-25", 1)
	if err != nil {
		t.Fatal(err)
	}

	// A burst of edits inside the debounce window.
	for _, v := range []string{"1", "10", "100"} {
		if err := s.SetCell(0, "freight", v); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	// The window has not elapsed since the last edit; nothing written yet.
	if got := store.LoadTableByID(tab.ID); got.Rows[0].Freight != "" {
		t.Fatalf("freight persisted too early: %q", got.Rows[0].Freight)
	}

	// After the idle period the coalesced save lands once.
	deadline := time.Now().Add(2 * time.Second)
	for {
		got := store.LoadTableByID(tab.ID)
		if got != nil && got.Rows[0].Freight == "100" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("autosave never fired")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if s.Dirty() {
		t.Fatal("autosave should clear the dirty flag")
	}
}

func TestDeleteCancelsPendingAutosave(t *testing.T) {
	s, store := newTestSession(t, 100)
	tab, err := s.CreateAndOpen("2026-02-25", 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(0, "freight", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The armed timer must not resurrect the file.
	time.Sleep(250 * time.Millisecond)
	if _, err := os.Stat(store.TablePath(tab.ID)); !os.IsNotExist(err) {
		t.Fatal("deleted table came back after autosave delay")
	}
	if len(store.LoadConfig().RecentTableIDs) != 0 {
		t.Fatalf("recents not scrubbed: %v", store.LoadConfig().RecentTableIDs)
	}
}

func TestCloseFlushesDirtyEdits(t *testing.T) {
	s, store := newTestSession(t, 60_000) // debounce far in the future
	tab, err := s.CreateAndOpen("2026-02-25", 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(0, "freight", "100"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(0, "settleTons", "2.5"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got := store.LoadTableByID(tab.ID)
	if got.Rows[0].Amount != "250" {
		t.Fatalf("edits lost on close: %+v", got.Rows[0])
	}
	if s.Current() != nil {
		t.Fatal("table still open after close")
	}
}

func TestSummarize(t *testing.T) {
	s, store := newTestSession(t, 600)
	tab, err := s.CreateAndOpen("2026-02-25", 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(0, "freight", "100"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(0, "settleTons", "2.5"); err != nil {
		t.Fatal(err)
	}

	total, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if total.String() != "250" {
		t.Fatalf("total = %s", total)
	}
	got := store.LoadTableByID(tab.ID)
	if got.Name != "2026-02-25-2026-02-27" {
		t.Fatalf("name = %q", got.Name)
	}
	if s.Dirty() {
		t.Fatal("summarize persists; dirty should be clear")
	}
}

func TestSaveAndNext(t *testing.T) {
	s, _ := newTestSession(t, 600)
	first, err := s.CreateAndOpen("2026-02-25", 3)
	if err != nil {
		t.Fatal(err)
	}
	firstID := first.ID

	next, err := s.SaveAndNext()
	if err != nil {
		t.Fatalf("SaveAndNext: %v", err)
	}
	if next.ID == firstID {
		t.Fatal("next table should be a new document")
	}
	if next.StartDate != "2026-02-28" {
		t.Fatalf("next start = %q", next.StartDate)
	}
	if len(next.Rows) != 3 {
		t.Fatalf("next rows = %d", len(next.Rows))
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestSession(t, 600)
	if _, err := s.CreateAndOpen("2026-02-25", 2); err != nil {
		t.Fatal(err)
	}
	path, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 3 || data[0] != 0xEF || data[1] != 0xBB || data[2] != 0xBF {
		t.Fatal("export missing UTF-8 BOM")
	}
}

func TestRecentTablesPrunesStaleIDs(t *testing.T) {
	s, store := newTestSession(t, 600)
	a, err := s.CreateAndOpen("2026-02-25", 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateAndOpen("2026-03-01", 1)
	if err != nil {
		t.Fatal(err)
	}

	// Remove a's document behind the session's back.
	if err := os.Remove(store.TablePath(a.ID)); err != nil {
		t.Fatal(err)
	}

	recents := s.RecentTables()
	if len(recents) != 1 || recents[0].ID != b.ID {
		t.Fatalf("recents = %+v", recents)
	}
	if got := store.LoadConfig().RecentTableIDs; len(got) != 1 || got[0] != b.ID {
		t.Fatalf("persisted recents = %v", got)
	}
}
