// Package csvexport fetches sheet rows through the public CSV export endpoint
// of a published Google spreadsheet. It needs no credentials: the spreadsheet
// only has to be shared as viewable by link.
package csvexport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"micropartner/internal/core"
	ports "micropartner/internal/sheets"
)

// ErrMissingSpreadsheetID is returned when the spreadsheet identifier could
// not be resolved from configuration. Every fetch fails with it until the
// configuration is fixed.
var ErrMissingSpreadsheetID = errors.New("spreadsheet ID invalid or missing in configuration")

var spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

type Client struct {
	spreadsheetID string
	httpClient    *http.Client
	baseURL       string
}

var _ ports.RowSource = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (used by tests).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithBaseURL overrides the docs.google.com endpoint (used by tests).
func WithBaseURL(base string) Option {
	return func(cl *Client) { cl.baseURL = base }
}

// New creates a client from a full spreadsheet URL. The identifier is
// extracted once via the /d/<id>/ path pattern; an unextractable URL yields a
// client whose every fetch fails with ErrMissingSpreadsheetID, mirroring how
// the export route reports it.
func New(sheetURL string, opts ...Option) *Client {
	c := &Client{
		spreadsheetID: ExtractSpreadsheetID(sheetURL),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       "https://docs.google.com",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractSpreadsheetID pulls the document identifier out of a spreadsheet
// URL, returning "" when the pattern does not match.
func ExtractSpreadsheetID(sheetURL string) string {
	m := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// FetchRows downloads the named sheet as CSV and decodes it into raw records
// keyed by the trimmed header row. Blank lines are skipped.
func (c *Client) FetchRows(ctx context.Context, sheetName string) ([]core.RawRecord, error) {
	if c.spreadsheetID == "" {
		return nil, ErrMissingSpreadsheetID
	}

	exportURL := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		c.baseURL, c.spreadsheetID, url.QueryEscape(sheetName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %q: %w", sheetName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// A private/unshared sheet typically answers 403 or redirects to a
		// login page instead of CSV.
		return nil, fmt.Errorf("fetch sheet %q: unexpected status %s", sheetName, resp.Status)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode sheet %q: %w", sheetName, err)
	}
	return DecodeRows(rows), nil
}

// DecodeRows converts a header-first CSV matrix into raw records. Headers are
// trimmed; rows shorter than the header are padded with empty values; fully
// blank rows are dropped.
func DecodeRows(rows [][]string) []core.RawRecord {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]core.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := make(core.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
