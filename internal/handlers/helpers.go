package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/benvon/simple-todo/internal/models"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondJSONError sends an error JSON response. message is returned verbatim,
// so callers must never pass internal error text.
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorBody{Error: message})
}

// decodeJSONBody decodes the request body into dst. An empty body leaves dst untouched.
// It reports whether the body exceeded the size limit.
func decodeJSONBody(r *http.Request, dst any) (tooLarge bool, err error) {
	if r.Body == nil {
		return false, nil
	}
	err = json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return false, nil
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true, err
	}
	return false, err
}

// jsonString returns the value of raw when it is a JSON string, or nil otherwise.
func jsonString(raw json.RawMessage) *string {
	if len(raw) == 0 || raw[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// jsonBool returns the value of raw when it is a JSON boolean, or nil otherwise.
func jsonBool(raw json.RawMessage) *bool {
	switch string(raw) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
