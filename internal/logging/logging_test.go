package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ResolveLogLevel(in)
		if err != nil {
			t.Fatalf("ResolveLogLevel(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ResolveLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ResolveLogLevel("loud"); err == nil {
		t.Fatalf("ResolveLogLevel(loud) should fail")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "glassplay.log")
	logger, closer, err := New("warn", path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("engine resume failed", "err", "boom")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "engine resume failed") || !strings.Contains(out, "err=boom") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestNewDiscardsWithoutPath(t *testing.T) {
	logger, closer, err := New("info", "")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Info("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New("verbose", ""); err == nil {
		t.Fatalf("New with bad level should fail")
	}
}
