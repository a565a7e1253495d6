package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alert-connector/internal/config"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connector.log")
	logger, err := NewLogger(config.LoggingConfig{
		Level:            "debug",
		Encoding:         "json",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		File:             config.LogFileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	})
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	logger.Info("hello file")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "hello file") {
		t.Fatalf("log file missing entry: %s", raw)
	}
}

func TestNewLogger_Defaults(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}
	logger.Debug("suppressed")
}
