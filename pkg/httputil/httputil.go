// Package httputil centralizes JSON response writing so every handler shares
// one error envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"auditlog/pkg/domainerrors"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded error into the shared error envelope.
// Server-side failures omit the description so storage details never leak to
// callers.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	status := domainerrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	var de *domainerrors.Error
	if status < http.StatusInternalServerError && errors.As(err, &de) && de.Message != "" {
		body["error_description"] = de.Message
	}
	WriteJSON(w, status, body)
}
