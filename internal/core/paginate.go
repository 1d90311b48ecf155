package core

// PageSize is the fixed table page size.
const PageSize = 15

// Page is one table page plus the cursor info the UI renders.
type Page struct {
	Records    []Record `json:"records"`
	Number     int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	TotalRows  int      `json:"totalRows"`
}

// Paginate slices the records into the requested page. The page number clamps
// to [1, ceil(n/PageSize)], so navigating past either bound is a no-op. An
// empty set yields a single empty page.
func Paginate(records []Record, page int) Page {
	total := (len(records) + PageSize - 1) / PageSize
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}
	return Page{
		Records:    records[start:end],
		Number:     page,
		TotalPages: total,
		TotalRows:  len(records),
	}
}
