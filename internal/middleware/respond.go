package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the API error envelope. Kept local so the
// middleware package does not depend on the handler layer.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	kind := "error"
	switch status {
	case http.StatusUnauthorized:
		kind = "unauthenticated"
	case http.StatusForbidden:
		kind = "forbidden"
	case http.StatusTooManyRequests:
		kind = "rate_limited"
	case http.StatusInternalServerError:
		kind = "internal"
	}

	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"kind": kind, "message": message},
	})
}
