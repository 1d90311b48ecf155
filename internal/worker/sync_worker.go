// Package worker drives periodic and message-triggered sheet snapshot syncs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"micropartner/internal/amqp"
	"micropartner/internal/services"
	"micropartner/internal/storage"
)

// SyncWorker keeps the local SQLite snapshots aligned with the spreadsheet.
// It reacts to refresh messages from the HTTP server and runs a periodic
// full sync as a backstop for lost messages.
type SyncWorker struct {
	processor *services.SyncProcessor
	repo      *storage.SQLiteRepository
	maxAge    time.Duration
}

func NewSyncWorker(processor *services.SyncProcessor, repo *storage.SQLiteRepository, maxAge time.Duration) *SyncWorker {
	return &SyncWorker{
		processor: processor,
		repo:      repo,
		maxAge:    maxAge,
	}
}

// HandleRefreshMessage processes one refresh request. An empty sheet name
// means refresh everything.
func (w *SyncWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.SheetRefreshMessage) error {
	slog.InfoContext(ctx, "Processing refresh message",
		"sheet", msg.Sheet,
		"reason", msg.Reason)

	if msg.Sheet == "" {
		if err := w.processor.SyncAll(ctx); err != nil {
			return fmt.Errorf("refresh all sheets: %w", err)
		}
		return nil
	}

	if err := w.processor.SyncSheet(ctx, msg.Sheet); err != nil {
		return fmt.Errorf("refresh sheet %q: %w", msg.Sheet, err)
	}
	return nil
}

// StartupSyncCheck fills in sheets that have never been synced or whose
// snapshot is older than maxAge. Useful after worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced := 0
	skipped := 0

	for _, sheet := range w.processor.SheetList() {
		stale, err := w.isStale(ctx, sheet)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check snapshot age", "sheet", sheet, "error", err)
			stale = true
		}
		if !stale {
			skipped++
			continue
		}

		if err := w.processor.SyncSheet(ctx, sheet); err != nil {
			slog.ErrorContext(ctx, "Startup sync failed", "sheet", sheet, "error", err)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"synced", synced,
		"fresh", skipped)
	return nil
}

// RunPeriodic re-syncs stale sheets every interval until ctx ends.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic sync", "reason", ctx.Err())
			return
		case <-ticker.C:
			for _, sheet := range w.processor.SheetList() {
				stale, err := w.isStale(ctx, sheet)
				if err != nil || stale {
					if err := w.processor.SyncSheet(ctx, sheet); err != nil {
						slog.ErrorContext(ctx, "Periodic sync failed", "sheet", sheet, "error", err)
					}
				}
			}
		}
	}
}

func (w *SyncWorker) isStale(ctx context.Context, sheet string) (bool, error) {
	if w.repo == nil {
		return true, nil
	}
	lastSync, ok, err := w.repo.LastSync(ctx, sheet)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}
	return time.Since(lastSync) > w.maxAge, nil
}
