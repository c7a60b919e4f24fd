package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_FileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lingo.log")
	var console bytes.Buffer

	log, err := New(Config{Level: "debug", File: path, MaxSizeMB: 1, MaxFiles: 2, Console: &console})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Info("heart consumed", zap.Int("current", 2))
	log.Debug("tick")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("file has %d lines, want 2:\n%s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("file line is not JSON: %v", err)
	}
	if entry["msg"] != "heart consumed" || entry["level"] != "INFO" {
		t.Errorf("entry = %v", entry)
	}
	if entry["current"] != float64(2) {
		t.Errorf("current = %v, want 2", entry["current"])
	}

	if !strings.Contains(console.String(), "heart consumed") {
		t.Errorf("console output missing message: %q", console.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Config{Level: "warn", Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("quiet")
	log.Warn("loud")
	_ = log.Sync()

	out := console.String()
	if strings.Contains(out, "quiet") {
		t.Error("info line passed a warn-level logger")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn line missing")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Config{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_NoSinksIsNop(t *testing.T) {
	log, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("dropped")
}
