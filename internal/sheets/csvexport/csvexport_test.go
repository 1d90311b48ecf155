package csvexport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "standard edit URL",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0",
			want: "1AbC-dEf_123",
		},
		{
			name: "bare share link",
			url:  "https://docs.google.com/spreadsheets/d/xyz789/",
			want: "xyz789",
		},
		{"no pattern", "https://example.com/sheet", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSpreadsheetID(tt.url); got != tt.want {
				t.Errorf("ExtractSpreadsheetID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFetchRows(t *testing.T) {
	csvBody := " Year ,Month,Consigneename,Total Amount\n" +
		"2025,Jan,Acme,\"₹1,500\"\n" +
		"\n" +
		"2024,Dec,Beta,300\n"

	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("sheet")
		_, _ = w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	cli := New("https://docs.google.com/spreadsheets/d/sheet123/edit", WithBaseURL(srv.URL))
	rows, err := cli.FetchRows(context.Background(), "CancelOrder(consignee)")
	if err != nil {
		t.Fatalf("FetchRows: %v", err)
	}

	if gotPath != "/spreadsheets/d/sheet123/gviz/tq" {
		t.Errorf("export path = %q", gotPath)
	}
	if gotQuery != "CancelOrder(consignee)" {
		t.Errorf("sheet query = %q", gotQuery)
	}

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank line skipped)", len(rows))
	}
	// Header trimmed, so the padded " Year " column resolves as "Year".
	if rows[0]["Year"] != "2025" || rows[0]["Total Amount"] != "₹1,500" {
		t.Errorf("first row = %v", rows[0])
	}
	if rows[1]["Consigneename"] != "Beta" {
		t.Errorf("second row = %v", rows[1])
	}
}

func TestFetchRowsMissingID(t *testing.T) {
	cli := New("https://example.com/not-a-sheet")
	if _, err := cli.FetchRows(context.Background(), "Master"); err != ErrMissingSpreadsheetID {
		t.Fatalf("err = %v, want ErrMissingSpreadsheetID", err)
	}
}

func TestFetchRowsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	cli := New("https://docs.google.com/spreadsheets/d/abc/edit", WithBaseURL(srv.URL))
	if _, err := cli.FetchRows(context.Background(), "Master"); err == nil {
		t.Fatal("expected error on non-200 upstream status")
	}
}

func TestDecodeRowsShortAndEmpty(t *testing.T) {
	rows := DecodeRows([][]string{
		{"A", "B", "C"},
		{"1", "2"}, // short row padded
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0]["C"] != "" {
		t.Errorf("short row not padded: %v", rows[0])
	}

	if got := DecodeRows(nil); got != nil {
		t.Errorf("nil matrix should decode to nil, got %v", got)
	}
}
