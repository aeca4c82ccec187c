package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusCreated, map[string]string{"message": "hello"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["message"] != "hello" {
		t.Errorf("Expected bare payload with message 'hello', got %v", body)
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusBadRequest, "Title is required")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Title is required"}` {
		t.Errorf("Unexpected body %s", got)
	}
}

func TestJSONFieldHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw        string
		wantString *string
		wantBool   *bool
	}{
		{`"abc"`, strPtr("abc"), nil},
		{`""`, strPtr(""), nil},
		{`true`, nil, boolPtr(true)},
		{`false`, nil, boolPtr(false)},
		{`null`, nil, nil},
		{`1`, nil, nil},
		{`"true"`, strPtr("true"), nil},
		{``, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			gotS := jsonString(json.RawMessage(tt.raw))
			if (gotS == nil) != (tt.wantString == nil) || (gotS != nil && *gotS != *tt.wantString) {
				t.Errorf("jsonString(%s) = %v, want %v", tt.raw, gotS, tt.wantString)
			}
			gotB := jsonBool(json.RawMessage(tt.raw))
			if (gotB == nil) != (tt.wantBool == nil) || (gotB != nil && *gotB != *tt.wantBool) {
				t.Errorf("jsonBool(%s) = %v, want %v", tt.raw, gotB, tt.wantBool)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
