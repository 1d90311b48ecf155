package core

import "testing"

func TestPaginate(t *testing.T) {
	records := make([]Record, 37)
	for i := range records {
		records[i].AccountName = "acct"
	}

	tests := []struct {
		name       string
		page       int
		wantPage   int
		wantCount  int
		wantTotals int
	}{
		{"first page", 1, 1, 15, 3},
		{"middle page", 2, 2, 15, 3},
		{"last page holds remainder", 3, 3, 7, 3},
		{"page zero clamps to first", 0, 1, 15, 3},
		{"past the end clamps to last", 4, 3, 7, 3},
		{"deeply negative clamps to first", -10, 1, 15, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(records, tt.page)
			if p.Number != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Number, tt.wantPage)
			}
			if len(p.Records) != tt.wantCount {
				t.Errorf("len = %d, want %d", len(p.Records), tt.wantCount)
			}
			if p.TotalPages != tt.wantTotals {
				t.Errorf("totalPages = %d, want %d", p.TotalPages, tt.wantTotals)
			}
			if p.TotalRows != 37 {
				t.Errorf("totalRows = %d", p.TotalRows)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 5)
	if p.Number != 1 || p.TotalPages != 1 || len(p.Records) != 0 {
		t.Errorf("empty set page = %+v", p)
	}
}
