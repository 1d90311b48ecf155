// Package services orchestrates sheet fetching, normalization and
// aggregation behind the HTTP handlers.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"micropartner/internal/core"
	ports "micropartner/internal/sheets"

	"golang.org/x/sync/errgroup"
)

// SheetNames binds the three well-known sheets of the workbook.
type SheetNames struct {
	Users        string
	CancelOrder  string
	IndirectSale string
}

// DashboardView is the full payload behind one dashboard render: the
// filtered table page, chart groups, aggregate summary and the option lists
// the filter dropdowns offer next.
type DashboardView struct {
	Summary core.Summary      `json:"summary"`
	Options core.Options      `json:"options"`
	Groups  []core.GroupTotal `json:"groups"`
	Page    core.Page         `json:"page"`
}

// DashboardService merges both data sheets into one record set and serves
// filtered views of it.
type DashboardService struct {
	source ports.RowSource
	sheets SheetNames
}

func NewDashboardService(source ports.RowSource, sheets SheetNames) *DashboardService {
	return &DashboardService{source: source, sheets: sheets}
}

// FetchSheet returns one sheet's raw rows without normalization. Unlike the
// dashboard path, upstream failures surface to the caller.
func (s *DashboardService) FetchSheet(ctx context.Context, sheetName string) ([]core.RawRecord, error) {
	rows, err := s.source.FetchRows(ctx, sheetName)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

// Records fetches both data sheets in parallel and normalizes them into one
// slice, cancel-order rows first. A failed sheet degrades to empty so one
// broken tab does not blank the whole dashboard.
func (s *DashboardService) Records(ctx context.Context) []core.Record {
	var cancelRows, indirectRows []core.RawRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.source.FetchRows(gctx, s.sheets.CancelOrder)
		if err != nil {
			slog.WarnContext(gctx, "Sheet fetch failed, serving without it",
				"sheet", s.sheets.CancelOrder, "error", err)
			return nil
		}
		cancelRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.FetchRows(gctx, s.sheets.IndirectSale)
		if err != nil {
			slog.WarnContext(gctx, "Sheet fetch failed, serving without it",
				"sheet", s.sheets.IndirectSale, "error", err)
			return nil
		}
		indirectRows = rows
		return nil
	})
	_ = g.Wait()

	records := core.NormalizeAll(cancelRows, core.SourceCancelOrder)
	records = append(records, core.NormalizeAll(indirectRows, core.SourceIndirectSale)...)
	return records
}

// Dashboard builds the view a user sees for the given filter. Records are
// restricted to the user's consignee before anything else, so a non-admin
// can never widen their scope through filter parameters.
func (s *DashboardService) Dashboard(ctx context.Context, user core.User, filter core.Filter, mode core.StatusMode, chartLimit, page int) DashboardView {
	restricted := core.Restrict(s.Records(ctx), user)
	filtered := core.Apply(restricted, filter)

	return DashboardView{
		Summary: core.Summarize(filtered),
		Options: core.ComputeOptions(restricted, filter),
		Groups:  core.GroupTotals(filtered, mode, chartLimit),
		Page:    core.Paginate(filtered, page),
	}
}
