package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONWithSessionFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "msgr.log")

	logger, err := New(path, "work", Options{Level: zapcore.InfoLevel})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("favorites loaded", zap.Int("count", 3))
	logger.Debug("dropped below level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["session"] != "work" {
		t.Errorf("session = %v, want work", entry["session"])
	}
	if entry["msg"] != "favorites loaded" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts field")
	}
}

func TestNewFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msgr.log")
	if _, err := New(path, "main", Options{}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("log permission = %o, want 0600", perm)
	}
}
