package logger

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "/api/todos", "/api/todos"},
		{"control chars", "/todos\x00\x1b[31m", "/todos[31m"},
		{"invalid utf8", "/todos\xff", "/todos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizePath(tt.in); got != tt.want {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizePath_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizePath("/" + strings.Repeat("a", MaxPathLength+50))
	if len(got) != MaxPathLength+3 {
		t.Errorf("Expected truncated length %d, got %d", MaxPathLength+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated path to end with ..., got %q", got[len(got)-5:])
	}
}

func TestSanitizeTitle(t *testing.T) {
	t.Parallel()

	got := SanitizeTitle(strings.Repeat("x", MaxTitleLength*2))
	if len(got) != MaxTitleLength+3 {
		t.Errorf("Expected length %d, got %d", MaxTitleLength+3, len(got))
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}
	if got := SanitizeError(errors.New("boom\x07")); got != "boom" {
		t.Errorf("SanitizeError() = %q, want boom", got)
	}
}
