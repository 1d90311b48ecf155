package services

import (
	"context"
	"fmt"
	"log/slog"

	"micropartner/internal/core"
	ports "micropartner/internal/sheets"

	"golang.org/x/sync/errgroup"
)

// SyncProcessor copies sheets from the upstream source into the local
// snapshot store. The HTTP server can then serve from the store while the
// spreadsheet is slow or unreachable.
type SyncProcessor struct {
	source ports.RowSource
	writer ports.SnapshotWriter
	sheets SheetNames
}

func NewSyncProcessor(source ports.RowSource, writer ports.SnapshotWriter, sheets SheetNames) *SyncProcessor {
	return &SyncProcessor{source: source, writer: writer, sheets: sheets}
}

// SyncSheet pulls one sheet and replaces its snapshot. An empty fetch result
// still overwrites: a sheet cleared upstream should read as cleared locally.
func (p *SyncProcessor) SyncSheet(ctx context.Context, sheetName string) error {
	rows, err := p.source.FetchRows(ctx, sheetName)
	if err != nil {
		return fmt.Errorf("fetch sheet %q: %w", sheetName, err)
	}
	if err := p.writer.ReplaceRows(ctx, sheetName, rows); err != nil {
		return fmt.Errorf("store sheet %q: %w", sheetName, err)
	}
	slog.InfoContext(ctx, "Sheet synced", "sheet", sheetName, "rows", len(rows))
	return nil
}

// SyncAll refreshes every configured sheet concurrently and returns the first
// failure, after every sheet has been attempted.
func (p *SyncProcessor) SyncAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sheet := range p.SheetList() {
		g.Go(func() error { return p.SyncSheet(gctx, sheet) })
	}
	return g.Wait()
}

// SheetList returns the configured sheet names, skipping blanks.
func (p *SyncProcessor) SheetList() []string {
	var out []string
	for _, s := range []string{p.sheets.Users, p.sheets.CancelOrder, p.sheets.IndirectSale} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

var _ ports.RowSource = (*snapshotReadThrough)(nil)

// snapshotReadThrough reads from the local snapshot and falls back to the
// upstream source when a sheet has never been synced.
type snapshotReadThrough struct {
	snapshot ports.RowSource
	upstream ports.RowSource
}

// NewSnapshotReadThrough builds a RowSource serving snapshot data first.
func NewSnapshotReadThrough(snapshot, upstream ports.RowSource) ports.RowSource {
	return &snapshotReadThrough{snapshot: snapshot, upstream: upstream}
}

func (s *snapshotReadThrough) FetchRows(ctx context.Context, sheetName string) ([]core.RawRecord, error) {
	rows, err := s.snapshot.FetchRows(ctx, sheetName)
	if err == nil && len(rows) > 0 {
		return rows, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Snapshot read failed, falling back to upstream",
			"sheet", sheetName, "error", err)
	}
	return s.upstream.FetchRows(ctx, sheetName)
}
