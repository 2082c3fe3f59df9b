// Package handlers contains the HTTP handlers for the blog API. Handlers
// are grouped by concern (auth, categories, posts, comments) and receive
// their dependencies through the handler struct. They own only HTTP
// concerns: decoding, status-code mapping, and the pagination envelope.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"blogapi/internal/apperr"
)

// Pagination defaults and cap for list endpoints.
const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// page wraps list results in the pagination envelope.
type page struct {
	Items   any `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps an application error to its HTTP status and writes the
// error envelope. Internal errors are logged and masked.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()

	var status int
	switch kind {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.Unauthenticated:
		status = http.StatusUnauthorized
	case apperr.DuplicateName, apperr.DuplicateSlug, apperr.Conflict:
		status = http.StatusConflict
	case apperr.Validation:
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		slog.Error("internal error", "error", err)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]any{
		"error": map[string]string{"kind": string(kind), "message": msg},
	})
}

// decodeJSON decodes the request body into dst. Unknown fields are
// dropped, not rejected: clients may echo server-owned fields (id, slug,
// author, counters) back from a prior read.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.New(apperr.Validation, "invalid JSON body")
	}
	return nil
}

// pageParams reads ?page= and ?per_page= with defaults and a cap, and
// returns (page, perPage, offset).
func pageParams(r *http.Request) (int, int, int) {
	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if pageNum < 1 {
		pageNum = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return pageNum, perPage, (pageNum - 1) * perPage
}
