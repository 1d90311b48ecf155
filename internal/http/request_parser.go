package http

import (
	"net/http"
	"strconv"
	"strings"

	"micropartner/internal/core"
)

// defaultChartLimit caps the chart at its top groups unless the client asks
// for everything with limit=all.
const defaultChartLimit = 10

// parseFilter reads the five filter dimensions from the query string. Absent
// or blank parameters mean "all".
func parseFilter(r *http.Request) core.Filter {
	f := core.DefaultFilter()
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("year")); v != "" {
		f.Year = v
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		f.Month = v
	}
	if v := strings.TrimSpace(q.Get("employee")); v != "" {
		f.Employee = v
	}
	if v := strings.TrimSpace(q.Get("consignee")); v != "" {
		f.Consignee = v
	}
	if v := strings.TrimSpace(q.Get("account")); v != "" {
		f.Account = v
	}
	return f
}

// parseStatusMode reads the chart grouping. Absent or unknown values fall
// back to the base-category grouping rather than erroring.
func parseStatusMode(r *http.Request) core.StatusMode {
	mode := core.StatusMode(strings.TrimSpace(r.URL.Query().Get("status")))
	if !mode.IsValid() {
		return core.StatusBaseCat
	}
	return mode
}

func parseChartLimit(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return defaultChartLimit
	}
	if strings.EqualFold(v, "all") {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultChartLimit
	}
	return n
}

func parsePage(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("page"))
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 1
	}
	return n
}
