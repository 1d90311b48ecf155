package core

import (
	"errors"
	"strings"
)

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"

	StatusBeatwise StatusMode = "Beatwise"
	StatusBaseCat  StatusMode = "BaseCat"

	// FilterAll is the sentinel meaning "no restriction on this dimension".
	FilterAll = "all"
)

type (
	Role       string
	StatusMode string

	// RawRecord is one spreadsheet row as decoded from the export: column
	// name to cell value, no fixed schema. Different sheets expose different
	// column vocabularies for the same logical fields.
	RawRecord map[string]string

	// Record is the canonical normalized row. Every string field is trimmed
	// and never absent; TotalAmt is always finite (0 when unparseable).
	Record struct {
		Year        string  `json:"year"`
		Month       string  `json:"month"`
		AccountName string  `json:"accountName"`
		AccountBeat string  `json:"accountBeat"`
		BaseCat     string  `json:"baseCat"`
		Consignee   string  `json:"consignee"`
		Employee    string  `json:"employee"`
		TotalAmt    float64 `json:"totalAmt"`
	}

	// User is an authenticated identity. Name doubles as the row-level
	// visibility key for non-admin users (matched against Record.Consignee).
	User struct {
		Role Role   `json:"role"`
		Name string `json:"name"`
		ID   string `json:"id"`
	}
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// IsValid reports whether the status mode is one of the two known groupings.
func (m StatusMode) IsValid() bool {
	return m == StatusBeatwise || m == StatusBaseCat
}

// GroupKey returns the categorical value the mode selects from a record.
func (m StatusMode) GroupKey(r Record) string {
	if m == StatusBeatwise {
		return r.AccountBeat
	}
	return r.BaseCat
}

// IsAdmin reports whether the user sees the unrestricted record set.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Get returns the trimmed value of the first present, non-empty column among
// the given aliases. Absent columns resolve to "" so downstream comparisons
// stay stable.
func (r RawRecord) Get(aliases ...string) string {
	for _, name := range aliases {
		if v := strings.TrimSpace(r[name]); v != "" {
			return v
		}
	}
	return ""
}
