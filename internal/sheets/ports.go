package sheets

import (
	"context"

	"micropartner/internal/core"
)

// Ports for outbound adapters.
type (
	// RowSource fetches one sheet's rows as raw column-name to value maps.
	// An error return distinguishes "failed upstream" from a legitimately
	// empty sheet; most callers degrade the former to the latter.
	RowSource interface {
		FetchRows(ctx context.Context, sheetName string) ([]core.RawRecord, error)
	}

	// SnapshotWriter persists a fetched sheet wholesale, replacing any
	// previous snapshot of that sheet.
	SnapshotWriter interface {
		ReplaceRows(ctx context.Context, sheetName string, rows []core.RawRecord) error
	}
)
