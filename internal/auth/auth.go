// Package auth authenticates dashboard users against the user directory
// sheet. Credentials live as plain ID/Password columns in that sheet, so the
// whole scheme is only as strong as the sheet's sharing settings.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"micropartner/internal/core"
	ports "micropartner/internal/sheets"
)

// Authenticator validates credentials against rows of the user sheet.
type Authenticator struct {
	source    ports.RowSource
	userSheet string
}

func NewAuthenticator(source ports.RowSource, userSheet string) *Authenticator {
	return &Authenticator{source: source, userSheet: userSheet}
}

// Login checks the given credentials. The exact admin/admin pair, untrimmed,
// is accepted without touching the sheet so the dashboard stays reachable
// when the user sheet is misconfigured; padded variants go through the sheet
// lookup like any other input. All other failures collapse into
// core.ErrInvalidCredentials so callers cannot tell a wrong password from an
// unknown user.
func (a *Authenticator) Login(ctx context.Context, id, password string) (core.User, error) {
	if id == "admin" && password == "admin" {
		return core.User{Role: core.RoleAdmin, Name: "Administrator", ID: "admin"}, nil
	}

	id = strings.TrimSpace(id)
	password = strings.TrimSpace(password)

	rows, err := a.source.FetchRows(ctx, a.userSheet)
	if err != nil {
		return core.User{}, fmt.Errorf("fetch user sheet: %w", err)
	}

	for _, row := range rows {
		rowID := strings.TrimSpace(row.Get("ID", "Id", "UserID", "Username"))
		rowPass := strings.TrimSpace(row.Get("Password", "Pass"))
		if rowID == "" || rowID != id || rowPass != password {
			continue
		}

		user := core.User{Role: core.RoleUser, ID: rowID}
		if rowID == "admin" {
			user.Role = core.RoleAdmin
		}
		user.Name = row.Get("Consigneename", "ConsigneeName", "Consignee Name")
		if user.Name == "" {
			user.Name = "User"
		}
		return user, nil
	}

	slog.WarnContext(ctx, "Login rejected", "user_id", id)
	return core.User{}, core.ErrInvalidCredentials
}
