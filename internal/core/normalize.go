// Package core holds the normalized record model and the pure data-shaping
// functions of the dashboard: alias-priority column resolution, currency and
// date parsing, filtering, aggregation and pagination.
package core

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// SourceKind identifies which sheet a raw row came from. Each kind carries its
// own historical column vocabulary.
type SourceKind string

const (
	// SourceCancelOrder is the order-cancellation sheet.
	SourceCancelOrder SourceKind = "cancel_order"
	// SourceIndirectSale is the indirect-sale sheet; year/month come from a
	// combined VoucherDate value instead of dedicated columns.
	SourceIndirectSale SourceKind = "indirect_sale"
)

// Normalize maps a raw spreadsheet row onto the canonical Record shape.
// It is total: every error path degrades to an empty string or zero amount,
// never an error.
func Normalize(raw RawRecord, kind SourceKind) Record {
	if kind == SourceIndirectSale {
		year, month := splitVoucherDate(raw.Get("VoucherDate"))
		return Record{
			Year:        year,
			Month:       month,
			AccountName: raw.Get("AccountName"),
			AccountBeat: raw.Get("Beat"),
			BaseCat:     raw.Get("BaseCat"),
			Consignee:   raw.Get("Parentname"),
			Employee:    raw.Get("SalesMan_Cloud"),
			TotalAmt:    ParseAmount(raw.Get("Amount")),
		}
	}
	return Record{
		Year:        raw.Get("Year"),
		Month:       raw.Get("Month"),
		AccountName: raw.Get("AccountName"),
		AccountBeat: raw.Get("AccountBeat", "Beat"),
		BaseCat:     raw.Get("BaseCat"),
		Consignee:   raw.Get("Consigneename", "Consignee", "ConsigneeName"),
		Employee:    raw.Get("EmployeeName", "Employee"),
		TotalAmt:    ParseAmount(raw.Get("Total Amount", "Amount", "TotalAmt", "Net Amount")),
	}
}

// NormalizeAll applies Normalize to every row.
func NormalizeAll(rows []RawRecord, kind SourceKind) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Normalize(row, kind))
	}
	return out
}

// ParseAmount parses a currency-like cell value. Everything that is not a
// digit, dot or minus sign is stripped first, so "₹12,345.50" parses as
// 12345.50. Empty or non-numeric input yields 0, never NaN.
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// splitVoucherDate derives (year, short month name) from a combined date-time
// string such as "2025-01-04 0:00". Only the date part matters; the time part
// is discarded before parsing, which also sidesteps single-digit hours the
// sheet emits. Unparseable input yields empty strings.
func splitVoucherDate(s string) (year, month string) {
	if s == "" {
		return "", ""
	}
	datePart := s
	if i := strings.IndexAny(s, " T"); i >= 0 {
		datePart = s[:i]
	}
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		if t, err = time.Parse("2006/01/02", datePart); err != nil {
			slog.Warn("Unparseable voucher date", "value", s)
			return "", ""
		}
	}
	return strconv.Itoa(t.Year()), t.Month().String()[:3]
}
