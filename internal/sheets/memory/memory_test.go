package memory

import (
	"context"
	"testing"

	"micropartner/internal/core"
)

func TestStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	rows, err := s.FetchRows(ctx, "Master")
	if err != nil {
		t.Fatalf("FetchRows empty store: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}

	seed := []core.RawRecord{{"ID": "admin", "Password": "secret"}}
	if err := s.ReplaceRows(ctx, "Master", seed); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}

	rows, err = s.FetchRows(ctx, "Master")
	if err != nil {
		t.Fatalf("FetchRows: %v", err)
	}
	if len(rows) != 1 || rows[0]["ID"] != "admin" {
		t.Fatalf("rows = %v", rows)
	}

	// Mutating the returned copy must not touch the store.
	rows[0]["ID"] = "tampered"
	again, _ := s.FetchRows(ctx, "Master")
	if again[0]["ID"] != "admin" {
		t.Errorf("store mutated through returned slice: %v", again[0])
	}
}

func TestStoreReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Seed("Data", []core.RawRecord{{"A": "1"}, {"A": "2"}})

	if err := s.ReplaceRows(ctx, "Data", []core.RawRecord{{"A": "3"}}); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}
	rows, _ := s.FetchRows(ctx, "Data")
	if len(rows) != 1 || rows[0]["A"] != "3" {
		t.Errorf("rows = %v", rows)
	}
}
