package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody mirrors the error envelope used across the API.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError writes a JSON error envelope. Internal errors omit the
// description so infrastructure detail never leaks to callers.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	body := errorBody{Error: code}
	if status < http.StatusInternalServerError {
		body.ErrorDescription = description
	}
	WriteJSON(w, status, body)
}

// Decode reads a JSON request body into T, rejecting unknown fields.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&v)
	return v, err
}
