package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewProductionLogger(t *testing.T) {
	t.Parallel()

	for _, debug := range []bool{false, true} {
		l, err := NewProductionLogger(debug)
		if err != nil {
			t.Fatalf("NewProductionLogger(%v) error = %v", debug, err)
		}
		if got := l.Core().Enabled(-1); got != debug {
			t.Errorf("NewProductionLogger(%v) debug enabled = %v", debug, got)
		}
	}
}

func TestNewFileLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "client.log")
	l, err := NewFileLogger(path, false)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	l.Info("request_failed")
	_ = Sync(l)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"msg":"request_failed"`) {
		t.Errorf("Expected log file to contain the message, got %s", data)
	}
}

func TestSync_NilLogger(t *testing.T) {
	t.Parallel()
	if err := Sync(nil); err != nil {
		t.Errorf("Sync(nil) = %v, want nil", err)
	}
}
