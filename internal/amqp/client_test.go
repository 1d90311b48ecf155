package amqp

import (
	"testing"
	"time"
)

func TestNewSheetRefreshMessage(t *testing.T) {
	msg := NewSheetRefreshMessage("Master", "manual")

	if msg.Sheet != "Master" {
		t.Errorf("Sheet = %q, want Master", msg.Sheet)
	}
	if msg.Reason != "manual" {
		t.Errorf("Reason = %q, want manual", msg.Reason)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestSheetRefreshMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &SheetRefreshMessage{
		Sheet:     "CancelOrder(consignee)",
		Reason:    "scheduled",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := SheetRefreshMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("SheetRefreshMessageFromJSON() error = %v", err)
	}

	if parsed.Sheet != msg.Sheet {
		t.Errorf("Parsed Sheet = %q, want %q", parsed.Sheet, msg.Sheet)
	}
	if parsed.Reason != msg.Reason {
		t.Errorf("Parsed Reason = %q, want %q", parsed.Reason, msg.Reason)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestSheetRefreshMessage_BroadcastHasNoSheet(t *testing.T) {
	msg := NewSheetRefreshMessage("", "startup")

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := SheetRefreshMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("SheetRefreshMessageFromJSON() error = %v", err)
	}
	if parsed.Sheet != "" {
		t.Errorf("broadcast message should keep empty sheet, got %q", parsed.Sheet)
	}
}

func TestSheetRefreshMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"sheet": 42, "timestamp": "not-a-time"}`)

	if _, err := SheetRefreshMessageFromJSON(invalidJSON); err == nil {
		t.Error("SheetRefreshMessageFromJSON() should fail with invalid JSON")
	}
}
