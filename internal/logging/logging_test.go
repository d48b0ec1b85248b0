package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	logger.Debug("hidden")
	logger.Info("quote computed", zap.String("class_code", "8810"))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
	if !strings.Contains(out, `"class_code":"8810"`) {
		t.Errorf("expected structured field in output, got %s", out)
	}
	if !strings.Contains(out, `"timestamp"`) {
		t.Errorf("expected timestamp key, got %s", out)
	}
}

func TestNewWithWriterBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "loud", Format: "json"}, &buf)

	logger.Info("visible")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected info entry with fallback level, got %q", buf.String())
	}
}

// use swaps the global logger, returning a func that restores the previous one
func use(logger *zap.Logger) func() {
	prevLogger, prevSugar := Logger, Sugar
	Logger = logger
	Sugar = logger.Sugar()
	return func() {
		Logger, Sugar = prevLogger, prevSugar
	}
}

func TestForServer(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"", "info"},
		{"warn", "info"},
		{"debug", "debug"},
		{"error", "error"},
	}
	for _, tt := range tests {
		cfg := ForServer(Config{Level: tt.level, Format: "json"})
		if cfg.Level != tt.want {
			t.Errorf("ForServer(%q).Level = %q, want %q", tt.level, cfg.Level, tt.want)
		}
	}
}

func TestGlobalHelpers(t *testing.T) {
	var buf bytes.Buffer
	restore := use(NewWithWriter(Config{Level: "debug", Format: "json"}, &buf))
	defer restore()

	Debug("debug entry")
	Info("info entry")
	Warn("warn entry")
	Error("error entry")
	Sugar.Infof("sugared %s", "entry")
	Named("api").Info("named entry")
	Sync()

	out := buf.String()
	for _, want := range []string{"debug entry", "info entry", "warn entry", "error entry", "sugared entry", `"logger":"api"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
