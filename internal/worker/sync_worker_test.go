package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"micropartner/internal/amqp"
	"micropartner/internal/core"
	"micropartner/internal/services"
	"micropartner/internal/sheets/memory"
	"micropartner/internal/storage"
)

var workerSheets = services.SheetNames{
	Users:        "Master",
	CancelOrder:  "CancelOrder(consignee)",
	IndirectSale: "Retailer Under Micro (Indirect Sale)",
}

func TestHandleRefreshMessageSingleSheet(t *testing.T) {
	ctx := context.Background()
	upstream := memory.NewStore()
	upstream.Seed("Master", []core.RawRecord{{"ID": "x"}})
	local := memory.NewStore()

	w := NewSyncWorker(services.NewSyncProcessor(upstream, local, workerSheets), nil, time.Hour)

	msg := amqp.NewSheetRefreshMessage("Master", "manual")
	if err := w.HandleRefreshMessage(ctx, msg); err != nil {
		t.Fatalf("HandleRefreshMessage: %v", err)
	}

	rows, _ := local.FetchRows(ctx, "Master")
	if len(rows) != 1 {
		t.Errorf("snapshot rows = %v", rows)
	}
}

func TestHandleRefreshMessageBroadcast(t *testing.T) {
	ctx := context.Background()
	upstream := memory.NewStore()
	for _, sheet := range []string{workerSheets.Users, workerSheets.CancelOrder, workerSheets.IndirectSale} {
		upstream.Seed(sheet, []core.RawRecord{{"Marker": sheet}})
	}
	local := memory.NewStore()

	w := NewSyncWorker(services.NewSyncProcessor(upstream, local, workerSheets), nil, time.Hour)

	if err := w.HandleRefreshMessage(ctx, amqp.NewSheetRefreshMessage("", "startup")); err != nil {
		t.Fatalf("HandleRefreshMessage: %v", err)
	}

	for _, sheet := range []string{workerSheets.Users, workerSheets.CancelOrder, workerSheets.IndirectSale} {
		rows, _ := local.FetchRows(ctx, sheet)
		if len(rows) != 1 {
			t.Errorf("sheet %q not refreshed", sheet)
		}
	}
}

func TestStartupSyncSkipsFreshSnapshots(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "sync.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()

	upstream := memory.NewStore()
	upstream.Seed(workerSheets.Users, []core.RawRecord{{"ID": "new"}})

	// Pre-sync the users sheet so its snapshot is fresh.
	if err := repo.ReplaceRows(ctx, workerSheets.Users, []core.RawRecord{{"ID": "old"}}); err != nil {
		t.Fatal(err)
	}

	w := NewSyncWorker(services.NewSyncProcessor(upstream, repo, workerSheets), repo, time.Hour)
	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}

	rows, err := repo.FetchRows(ctx, workerSheets.Users)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["ID"] != "old" {
		t.Errorf("fresh snapshot should be untouched, got %v", rows)
	}

	// The never-synced sheets were filled (empty upstream, but now recorded).
	if _, ok, _ := repo.LastSync(ctx, workerSheets.CancelOrder); !ok {
		t.Error("cancel-order sheet should be synced on startup")
	}
}
