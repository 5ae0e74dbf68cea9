package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zap.AtomicLevel{
		"debug":   zap.NewAtomicLevelAt(zap.DebugLevel),
		"WARN":    zap.NewAtomicLevelAt(zap.WarnLevel),
		"warning": zap.NewAtomicLevelAt(zap.WarnLevel),
		" error ": zap.NewAtomicLevelAt(zap.ErrorLevel),
		"":        zap.NewAtomicLevelAt(zap.InfoLevel),
		"verbose": zap.NewAtomicLevelAt(zap.InfoLevel),
	}
	for in, want := range tests {
		if got := ParseLevel(in).Level(); got != want.Level() {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want.Level())
		}
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enkor.log")

	logger, err := New("debug", path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !logger.Desugar().Core().Enabled(zap.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}
	logger.Infow("translated", "service", "gtx")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"service":"gtx"`) {
		t.Errorf("expected structured field in log, got %s", data)
	}
}

func TestNew_DefaultLevel(t *testing.T) {
	logger, err := New("", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Desugar().Core().Enabled(zap.DebugLevel) {
		t.Error("debug should be disabled at the default level")
	}
}
