// Package backend selects and constructs the row source the server reads
// sheet data from.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"micropartner/internal/config"
	ports "micropartner/internal/sheets"
	"micropartner/internal/sheets/csvexport"
	gsheet "micropartner/internal/sheets/google"
	"micropartner/internal/sheets/memory"
	"micropartner/internal/storage"
)

type Type string

const (
	// CSVBackend reads through the public CSV export of a shared sheet.
	CSVBackend Type = "csv"
	// SheetsBackend reads through the Sheets API with credentials.
	SheetsBackend Type = "sheets"
	// SQLiteBackend serves locally synced snapshots.
	SQLiteBackend Type = "sqlite"
	// MemoryBackend is an empty in-process store for development.
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SheetsBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Result bundles the constructed source with its optional cleanup. Repo is
// non-nil only for the sqlite backend.
type Result struct {
	Source  ports.RowSource
	Repo    *storage.SQLiteRepository
	Cleanup func() error
}

// Create builds the row source named by cfg.DataBackend.
func Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case CSVBackend:
		cli := csvexport.New(cfg.SheetLink)
		slog.Info("Initialized CSV export backend")
		return &Result{Source: cli}, nil

	case SheetsBackend:
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		slog.Info("Initialized Google Sheets backend")
		return &Result{Source: cli}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		slog.Info("Initialized SQLite snapshot backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Source: repo, Repo: repo, Cleanup: repo.Close}, nil

	default:
		store := memory.NewStore()
		slog.Info("Initialized memory backend")
		return &Result{Source: store}, nil
	}
}
