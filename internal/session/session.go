// Package session holds the application's only mutable state: the open
// table, its dirty flag, and the pending autosave timer. The presentation
// layer drives everything through a Session; the core stays stateless and
// the storage layer side-effect free beyond explicit reads and writes.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"freightbook/internal/config"
	"freightbook/internal/core"
	"freightbook/internal/log"
	"freightbook/internal/storage"

	"github.com/shopspring/decimal"
)

var (
	ErrNoOpenTable   = errors.New("no table is open")
	ErrTableNotFound = errors.New("table not found or unreadable")
	ErrRowOutOfRange = errors.New("row index out of range")
	ErrUnknownField  = errors.New("unknown row field")
)

// Session is the controller between the presentation layer and the core.
// All methods are safe against the autosave timer goroutine; beyond that
// the application is single-threaded.
type Session struct {
	store  *storage.Store
	logger *log.Logger

	mu       sync.Mutex
	cfg      config.Config
	current  *core.Table
	dirty    bool
	autosave debouncer
}

// New creates a session over the given store, loading the config once.
func New(store *storage.Store, logger *log.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger,
		cfg:    store.LoadConfig(),
	}
}

// Config returns a snapshot of the loaded configuration.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Current returns the open table, or nil. Callers must not retain the
// pointer across other session calls.
func (s *Session) Current() *core.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Dirty reports whether the open table has unsaved edits.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// CreateAndOpen creates a table starting at startDateIso, persists it, and
// opens it. A blank start date means today; an unparsable one is a user
// error and leaves everything unchanged. rowCount < 1 falls back to the
// configured initial row count.
func (s *Session) CreateAndOpen(startDateIso string, rowCount int) (*core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startDateIso = strings.TrimSpace(startDateIso)
	if startDateIso != "" {
		if _, ok := core.ParseISODate(startDateIso); !ok {
			return nil, core.ErrInvalidStartDate
		}
	}
	if rowCount < 1 {
		rowCount = s.cfg.EffectiveInitialRows()
	}

	t := core.CreateTable(s.cfg.RowDefaults(), startDateIso, rowCount)
	if err := s.store.SaveTable(&t); err != nil {
		return nil, err
	}
	s.openLocked(&t)
	s.logger.Info("table created", "id", t.ID, "startDate", t.StartDate, "rows", len(t.Rows))
	return s.current, nil
}

// Open loads and normalizes the table, makes it current, and moves it to
// the front of the recent list.
func (s *Session) Open(id string) (*core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.store.LoadTableByID(id)
	if t == nil {
		return nil, fmt.Errorf("open %s: %w", id, ErrTableNotFound)
	}
	normalized := core.NormalizeTable(s.cfg.RowDefaults(), *t)
	s.openLocked(&normalized)
	return s.current, nil
}

// openLocked replaces the current table: any pending autosave for the old
// one is cancelled first so it cannot write after the switch.
func (s *Session) openLocked(t *core.Table) {
	s.autosave.Cancel()
	s.current = t
	s.dirty = false
	s.cfg.TouchRecent(t.ID)
	if err := s.store.SaveConfig(s.cfg); err != nil {
		s.logger.Warn("config save failed", "error", err)
	}
}

// SetCell applies a single-cell edit. Editing freight or settleTons
// recomputes that row's amount immediately; every edit re-arms the
// autosave timer so rapid edits coalesce into one write.
func (s *Session) SetCell(rowIdx int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoOpenTable
	}
	if rowIdx < 0 || rowIdx >= len(s.current.Rows) {
		return fmt.Errorf("row %d: %w", rowIdx, ErrRowOutOfRange)
	}
	if !core.IsFixedColumn(field) {
		return fmt.Errorf("field %q: %w", field, ErrUnknownField)
	}

	row := &s.current.Rows[rowIdx]
	row.Set(field, value)
	if field == "freight" || field == "settleTons" {
		row.Amount = core.ComputeAmount(*row)
	}
	s.markDirtyLocked()
	return nil
}

// SetStartDate shifts the whole table to a new start date. Unparsable
// input is rejected with a validation error and the table stays unchanged.
func (s *Session) SetStartDate(iso string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoOpenTable
	}
	d, ok := core.ParseISODate(iso)
	if !ok {
		return core.ErrInvalidStartDate
	}

	t := *s.current
	t.StartDate = d.Format(core.DateLayout)
	meta := t.CloneMeta()
	meta["startDate"] = t.StartDate
	t.Meta = meta
	t = core.NormalizeTable(s.cfg.RowDefaults(), t)
	s.current = &t
	s.markDirtyLocked()
	return nil
}

// AddRow appends an empty row; its date follows from the normalization
// invariant.
func (s *Session) AddRow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoOpenTable
	}
	t := *s.current
	t.Rows = append(append([]core.Row(nil), t.Rows...), core.Row{ID: ""})
	t = core.NormalizeTable(s.cfg.RowDefaults(), t)
	s.current = &t
	s.markDirtyLocked()
	return nil
}

// RemoveLastRow drops the table's last row; removing from an empty table
// is a no-op.
func (s *Session) RemoveLastRow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoOpenTable
	}
	if len(s.current.Rows) == 0 {
		return nil
	}
	t := *s.current
	t.Rows = append([]core.Row(nil), t.Rows[:len(t.Rows)-1]...)
	t = core.NormalizeTable(s.cfg.RowDefaults(), t)
	s.current = &t
	s.markDirtyLocked()
	return nil
}

// Save normalizes and persists the open table immediately, clearing the
// dirty flag and any pending autosave.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Session) saveLocked() error {
	if s.current == nil {
		return ErrNoOpenTable
	}
	s.autosave.Cancel()
	t := core.NormalizeTable(s.cfg.RowDefaults(), *s.current)
	if err := s.store.SaveTable(&t); err != nil {
		return err
	}
	s.current = &t
	s.dirty = false
	return nil
}

// Summarize totals the open table's amounts, renames it to cover its date
// range, persists it, and returns the full-precision total.
func (s *Session) Summarize() (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return decimal.Zero, ErrNoOpenTable
	}
	s.autosave.Cancel()
	t, total := core.SummarizeTable(s.cfg.RowDefaults(), *s.current)
	if err := s.store.SaveTable(&t); err != nil {
		return decimal.Zero, err
	}
	s.current = &t
	s.dirty = false
	s.logger.Info("table summarized", "id", t.ID, "name", t.Name, "total", total.String())
	return total, nil
}

// Export writes the open table as CSV into the exports directory and
// returns the written path.
func (s *Session) Export() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return "", ErrNoOpenTable
	}
	name := s.current.Name
	if strings.TrimSpace(name) == "" {
		name = s.current.ID
	}
	path, err := s.store.WriteExport(name, core.ExportCSV(*s.current))
	if err != nil {
		return "", err
	}
	s.logger.Info("table exported", "id", s.current.ID, "path", path)
	return path, nil
}

// Delete removes the open table's document, scrubs it from the recent
// list, and closes it. The pending autosave is cancelled first so a timer
// cannot resurrect the file.
func (s *Session) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoOpenTable
	}
	return s.deleteLocked(s.current.ID)
}

// DeleteByID removes a table by id, open or not, scrubbing it from the
// recent list.
func (s *Session) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Session) deleteLocked(id string) error {
	if s.current != nil && s.current.ID == id {
		s.autosave.Cancel()
		s.current = nil
		s.dirty = false
	}
	if err := s.store.DeleteTable(id); err != nil {
		return err
	}
	s.cfg.ForgetRecent(id)
	if err := s.store.SaveConfig(s.cfg); err != nil {
		s.logger.Warn("config save failed", "error", err)
	}
	s.logger.Info("table deleted", "id", id)
	return nil
}

// SaveAndNext saves the open table and opens a fresh one starting the day
// after its last load date, with the same row count.
func (s *Session) SaveAndNext() (*core.Table, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, ErrNoOpenTable
	}
	if err := s.saveLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	start, rows := core.NextStart(*s.current)
	if rows < 1 {
		rows = s.cfg.EffectiveInitialRows()
	}
	s.mu.Unlock()
	return s.CreateAndOpen(start, rows)
}

// Close cancels any pending autosave and flushes unsaved edits, then
// releases the current table. Safe to call with nothing open.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.autosave.Cancel()
	if s.current != nil && s.dirty {
		if err := s.saveLocked(); err != nil {
			return err
		}
	}
	s.current = nil
	s.dirty = false
	return nil
}

// Tables returns the listing view of every stored table, newest first.
func (s *Session) Tables() []storage.TableMeta {
	return s.store.ListTableMetas()
}

// RecentTables returns the recent list resolved against the stored
// tables, in recency order. Ids whose documents no longer exist are
// pruned from the config, and the prune is persisted.
func (s *Session) RecentTables() []storage.TableMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]storage.TableMeta)
	for _, m := range s.store.ListTableMetas() {
		byID[m.ID] = m
	}

	var out []storage.TableMeta
	kept := make([]string, 0, len(s.cfg.RecentTableIDs))
	for _, id := range s.cfg.RecentTableIDs {
		m, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, m)
		kept = append(kept, id)
	}
	if len(kept) != len(s.cfg.RecentTableIDs) {
		s.cfg.RecentTableIDs = kept
		if err := s.store.SaveConfig(s.cfg); err != nil {
			s.logger.Warn("config save failed", "error", err)
		}
	}
	return out
}

// markDirtyLocked flags unsaved edits and (re)arms the autosave timer.
func (s *Session) markDirtyLocked() {
	s.dirty = true
	delay := time.Duration(s.cfg.AutosaveDelayMs()) * time.Millisecond
	s.autosave.Arm(delay, s.autosaveFire)
}

// autosaveFire runs on the timer goroutine once edits go idle.
func (s *Session) autosaveFire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty || s.current == nil {
		return
	}
	if err := s.saveLocked(); err != nil {
		// No caller to surface to; keep the dirty flag so the next
		// edit or explicit save retries.
		s.logger.Error("autosave failed", "id", s.current.ID, "error", err)
		return
	}
	s.logger.Debug("autosaved", "id", s.current.ID)
}
