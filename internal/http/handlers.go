package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"micropartner/internal/core"
	"micropartner/internal/session"
	"micropartner/internal/sheets/csvexport"
)

// sheetCacheControl mirrors the caching policy CDNs expect from the sheet
// endpoint: five minutes fresh, one minute of stale served while revalidating.
const sheetCacheControl = "public, max-age=300, s-maxage=300, stale-while-revalidate=59"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// handleSheet serves one sheet's raw rows as JSON. Responses are cached per
// sheet name, both locally and via Cache-Control for downstream caches.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	sheetName := r.URL.Query().Get("sheet")
	if sheetName == "" {
		writeError(w, http.StatusBadRequest, "Sheet name required")
		return
	}

	if rows, found := s.sheetCache.Get(sheetName); found {
		w.Header().Set("Cache-Control", sheetCacheControl)
		writeJSON(w, http.StatusOK, rows)
		return
	}

	rows, err := s.dashboard.FetchSheet(r.Context(), sheetName)
	if err != nil {
		if errors.Is(err, csvexport.ErrMissingSpreadsheetID) {
			writeError(w, http.StatusInternalServerError, "Google Sheet ID invalid or missing in configuration")
			return
		}
		slog.ErrorContext(r.Context(), "Sheet fetch failed", "sheet", sheetName, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch data")
		return
	}
	if rows == nil {
		rows = []core.RawRecord{}
	}

	s.sheetCache.Set(sheetName, rows)
	w.Header().Set("Cache-Control", sheetCacheControl)
	writeJSON(w, http.StatusOK, rows)
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type loginResponse struct {
	User     core.User        `json:"user"`
	Settings session.Settings `json:"settings"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.authenticator.Login(r.Context(), req.ID, req.Password)
	if errors.Is(err, core.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid ID or Password")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Login verification failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to verify credentials")
		return
	}

	s.sessions.SetUser(user)
	writeJSON(w, http.StatusOK, loginResponse{User: user, Settings: s.sessions.Settings()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s.sessions.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	user, ok := s.sessions.User()
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter := parseFilter(r)
	mode := parseStatusMode(r)
	chartLimit := parseChartLimit(r)
	page := parsePage(r)

	view := s.dashboard.Dashboard(r.Context(), user, filter, mode, chartLimit, page)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.sessions.Settings())
	case http.MethodPost:
		user, ok := s.sessions.User()
		if !ok || !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		var settings session.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		s.sessions.SetSettings(settings)
		writeJSON(w, http.StatusOK, settings)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleRefresh queues a snapshot refresh for the sync worker and drops the
// local sheet cache so the next read sees fresh data.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	user, ok := s.sessions.User()
	if !ok || !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "Refresh bus unavailable")
		return
	}

	sheetName := r.URL.Query().Get("sheet")
	if err := s.publisher.PublishSheetRefresh(r.Context(), sheetName, "manual"); err != nil {
		slog.ErrorContext(r.Context(), "Failed to queue refresh", "sheet", sheetName, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to queue refresh")
		return
	}

	s.sheetCache.Purge()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
