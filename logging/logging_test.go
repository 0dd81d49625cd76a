package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("dependencies disabled", "doc", "doc1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "doc=doc1") {
		t.Errorf("expected warn message with attribute, got %q", out)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relfeat.log")

	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "info", File: path, MaxSize: 1, MaxBackups: 1})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("loaded", "documents", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "documents=3") {
		t.Errorf("expected log line in file, got %q", content)
	}
	if !strings.Contains(buf.String(), "documents=3") {
		t.Errorf("expected log line in writer, got %q", buf.String())
	}
}
