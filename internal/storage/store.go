// Package storage persists the ledger on local disk: one JSON document per
// table under tables/, a single config.json, and CSV exports under
// exports/. Writes are atomic (temp file + rename); reads are lenient, so
// corrupt documents degrade to "not found" instead of failing.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"freightbook/internal/cache"
	"freightbook/internal/config"
	"freightbook/internal/core"
	"freightbook/internal/log"
)

const (
	configFile = "config.json"
	tablesDir  = "tables"
	exportsDir = "exports"

	metaCacheSize = 256
	metaCacheTTL  = 5 * time.Minute
)

// TableMeta is the listing view of a stored table: enough to render the
// home screen without decoding full row sets on every refresh.
type TableMeta struct {
	ID        string
	Name      string
	StartDate string
	RowCount  int
	UpdatedAt string
}

// Store owns the application's data directory.
type Store struct {
	baseDir string
	logger  *log.Logger
	metas   *cache.LRU[TableMeta]
}

// NewStore creates the data directory layout under baseDir.
func NewStore(baseDir string, logger *log.Logger) (*Store, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, tablesDir), filepath.Join(baseDir, exportsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &Store{
		baseDir: baseDir,
		logger:  logger,
		metas:   cache.NewLRU[TableMeta](metaCacheSize, metaCacheTTL),
	}, nil
}

// BaseDir returns the store's data directory.
func (s *Store) BaseDir() string { return s.baseDir }

// TablePath returns the document path for a table id.
func (s *Store) TablePath(id string) string {
	return filepath.Join(s.baseDir, tablesDir, id+".json")
}

// LoadConfig reads config.json with per-key defaulting. A missing or
// corrupt file yields pure defaults.
func (s *Store) LoadConfig() config.Config {
	data, err := os.ReadFile(filepath.Join(s.baseDir, configFile))
	if err != nil {
		return config.Default()
	}
	return config.FromJSON(data)
}

// SaveConfig stamps updatedAt and writes config.json atomically.
func (s *Store) SaveConfig(cfg config.Config) error {
	cfg.UpdatedAt = core.NowISO()
	data, err := cfg.ToJSON()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := WriteFileAtomic(filepath.Join(s.baseDir, configFile), data); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// SaveTable writes the table document keyed by its id, stamping updatedAt.
// A blank id is a programming error upstream and fails hard.
func (s *Store) SaveTable(t *core.Table) error {
	id := strings.TrimSpace(t.ID)
	if id == "" {
		return core.ErrBlankTableID
	}
	t.UpdatedAt = core.NowISO()
	if err := WriteJSONAtomic(s.TablePath(id), t); err != nil {
		return fmt.Errorf("save table %s: %w", id, err)
	}
	s.logger.Debug("table saved", "id", id, "rows", len(t.Rows))
	return nil
}

// LoadTableByID returns the stored table, or nil when the document is
// missing or unreadable. Malformed row entries are dropped with a warning;
// the prune becomes permanent on the next save.
func (s *Store) LoadTableByID(id string) *core.Table {
	data, err := os.ReadFile(s.TablePath(id))
	if err != nil {
		return nil
	}
	t, dropped := decodeTable(data)
	if t == nil {
		s.logger.Warn("table document is not an object", "id", id)
		return nil
	}
	if len(dropped) > 0 {
		s.logger.Warn("dropped malformed row entries", "id", id, "indexes", dropped)
	}
	if t.ID == "" {
		t.ID = id
	}
	return t
}

// DeleteTable removes the table document. Deleting a table that does not
// exist is not an error.
func (s *Store) DeleteTable(id string) error {
	path := s.TablePath(id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete table %s: %w", id, err)
	}
	s.metas.Remove(path)
	return nil
}

// ListTableFiles returns every table document path, most recently
// modified first.
func (s *Store) ListTableFiles() []string {
	dir := filepath.Join(s.baseDir, tablesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}
	files := make([]fileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths
}

// ListTableMetas returns the listing view of every readable table, most
// recently modified first. Parsed metadata is cached per (path, mtime);
// a rewritten file misses and is re-read.
func (s *Store) ListTableMetas() []TableMeta {
	var out []TableMeta
	for _, path := range s.ListTableFiles() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		key := path + "|" + info.ModTime().Format(time.RFC3339Nano)
		if m, ok := s.metas.Get(key); ok {
			out = append(out, m)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		t, _ := decodeTable(data)
		if t == nil {
			s.logger.Warn("skipping unreadable table document", "path", path)
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".json")
		m := TableMeta{
			ID:        t.ID,
			Name:      t.Name,
			StartDate: t.StartDate,
			RowCount:  len(t.Rows),
			UpdatedAt: t.UpdatedAt,
		}
		if m.ID == "" {
			m.ID = stem
		}
		if m.Name == "" {
			m.Name = stem
		}
		if m.StartDate == "" {
			if v, ok := t.Meta["startDate"].(string); ok {
				m.StartDate = v
			}
		}
		s.metas.Put(key, m)
		out = append(out, m)
	}
	return out
}

// WriteExport writes export bytes under exports/, deriving the file name
// from the table name with a .csv suffix. Returns the written path.
func (s *Store) WriteExport(name string, data []byte) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), string(os.PathSeparator), "_")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		name = "table"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}
	path := filepath.Join(s.baseDir, exportsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
