// Package httputil provides shared JSON response and decoding helpers for
// HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"clanhall/pkg/clanerrors"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a domain error to its HTTP status. Persistence and internal
// faults keep their detail out of the response body.
func WriteError(w http.ResponseWriter, err error) {
	code := clanerrors.CodeOf(err)
	resp := errorResponse{Error: string(code), Description: err.Error()}
	status := http.StatusInternalServerError

	switch code {
	case clanerrors.CodeValidation:
		status = http.StatusBadRequest
	case clanerrors.CodeNotFound:
		status = http.StatusNotFound
	case clanerrors.CodeConflict:
		status = http.StatusConflict
	case clanerrors.CodePersistence, clanerrors.CodeInternal:
		resp.Description = ""
	}
	WriteJSON(w, status, resp)
}

// Decode parses the JSON request body into T. On failure it writes a 400 and
// returns ok=false; the handler just returns.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteError(w, clanerrors.Wrap(err, clanerrors.CodeValidation, "invalid request body"))
		var zero T
		return zero, false
	}
	return req, true
}

// BadRequestf writes a 400 with a formatted description.
func BadRequestf(w http.ResponseWriter, format string, args ...any) {
	WriteError(w, clanerrors.Newf(clanerrors.CodeValidation, format, args...))
}
