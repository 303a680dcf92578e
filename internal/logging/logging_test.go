package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesToConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Out: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Debug("frame rendered", zap.Int("columns", 512))
	_ = log.Sync()

	out := buf.String()
	if !strings.Contains(out, "frame rendered") || !strings.Contains(out, "512") {
		t.Errorf("Unexpected log output: %q", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Out: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Info("hidden")
	_ = log.Sync()

	if buf.Len() != 0 {
		t.Errorf("Info should be filtered at warn level, got %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raycaster.log")
	var buf bytes.Buffer
	log, err := New(Options{File: path, Out: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Info("saved", zap.String("path", "out.ppm"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading log file failed: %v", err)
	}
	if !strings.Contains(string(data), `"path":"out.ppm"`) {
		t.Errorf("Log file missing structured field: %q", data)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}
