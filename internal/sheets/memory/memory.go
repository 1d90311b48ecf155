// Package memory provides an in-memory sheet store for tests and local
// development without any Google dependency.
package memory

import (
	"context"
	"sync"

	"micropartner/internal/core"
	ports "micropartner/internal/sheets"
)

// Store holds sheet rows keyed by sheet name. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu     sync.RWMutex
	sheets map[string][]core.RawRecord
}

var (
	_ ports.RowSource      = (*Store)(nil)
	_ ports.SnapshotWriter = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{sheets: make(map[string][]core.RawRecord)}
}

// Seed replaces a sheet's rows without a context, for test setup.
func (s *Store) Seed(sheetName string, rows []core.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheetName] = cloneRows(rows)
}

func (s *Store) FetchRows(_ context.Context, sheetName string) ([]core.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.sheets[sheetName]), nil
}

func (s *Store) ReplaceRows(_ context.Context, sheetName string, rows []core.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheetName] = cloneRows(rows)
	return nil
}

// cloneRows copies rows so callers cannot mutate the stored snapshot.
func cloneRows(rows []core.RawRecord) []core.RawRecord {
	if rows == nil {
		return nil
	}
	out := make([]core.RawRecord, len(rows))
	for i, r := range rows {
		cp := make(core.RawRecord, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
