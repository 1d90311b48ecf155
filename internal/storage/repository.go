// Package storage persists sheet snapshots in SQLite so the dashboard can
// serve data while the spreadsheet is unreachable.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"micropartner/internal/core"
	ports "micropartner/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores one JSON document per sheet row. It serves reads as
// a RowSource and accepts whole-sheet replacements from the sync worker.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.RowSource      = (*SQLiteRepository)(nil)
	_ ports.SnapshotWriter = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchRows returns the stored snapshot of a sheet in original row order.
func (r *SQLiteRepository) FetchRows(ctx context.Context, sheetName string) ([]core.RawRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM sheet_rows WHERE sheet = ? ORDER BY row_idx`, sheetName)
	if err != nil {
		return nil, fmt.Errorf("query sheet %q: %w", sheetName, err)
	}
	defer rows.Close()

	var out []core.RawRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan sheet row: %w", err)
		}
		var rec core.RawRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decode sheet row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheet rows: %w", err)
	}
	return out, nil
}

// ReplaceRows swaps a sheet's snapshot in one transaction so readers never
// observe a half-written sheet.
func (r *SQLiteRepository) ReplaceRows(ctx context.Context, sheetName string, records []core.RawRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ?`, sheetName); err != nil {
		return fmt.Errorf("clear sheet %q: %w", sheetName, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sheet_rows (sheet, row_idx, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode sheet row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, sheetName, i, string(data)); err != nil {
			return fmt.Errorf("insert sheet row %d: %w", i, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sheet_syncs (sheet, synced_at, row_count) VALUES (?, ?, ?)
		 ON CONFLICT(sheet) DO UPDATE SET synced_at = excluded.synced_at, row_count = excluded.row_count`,
		sheetName, now, len(records)); err != nil {
		return fmt.Errorf("record sync for sheet %q: %w", sheetName, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Sheet snapshot replaced",
		"sheet", sheetName,
		"rows", len(records))
	return nil
}

// LastSync reports when a sheet was last snapshotted. ok is false when the
// sheet has never been synced.
func (r *SQLiteRepository) LastSync(ctx context.Context, sheetName string) (time.Time, bool, error) {
	var stamp string
	err := r.db.QueryRowContext(ctx,
		`SELECT synced_at FROM sheet_syncs WHERE sheet = ?`, sheetName).Scan(&stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query sync for sheet %q: %w", sheetName, err)
	}

	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse sync timestamp %q: %w", stamp, err)
	}
	return t, true, nil
}
