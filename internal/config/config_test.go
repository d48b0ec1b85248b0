package config

import (
	"os"
	"path/filepath"
	"testing"

	"wc-rating/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rating.Plan != "dashboard" {
		t.Errorf("Rating.Plan = %q, want %q", cfg.Rating.Plan, "dashboard")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := []byte(`{"rating": {"plan": "manual"}, "output": {"default_format": "csv"}}`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rating.Plan != "manual" {
		t.Errorf("Rating.Plan = %q, want %q", cfg.Rating.Plan, "manual")
	}
	if cfg.Output.DefaultFormat != "csv" {
		t.Errorf("Output.DefaultFormat = %q, want %q", cfg.Output.DefaultFormat, "csv")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unset field lost its default: Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	if !errors.IsType(err, errors.TypeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Rating.PlanFile = "/etc/wc/plan.hcl"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Rating.PlanFile != "/etc/wc/plan.hcl" {
		t.Errorf("PlanFile = %q", loaded.Rating.PlanFile)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPlan, "manual")
	t.Setenv(EnvAddr, ":9090")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvPlanFile, "")
	t.Setenv(EnvFormat, "")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Rating.Plan != "manual" {
		t.Errorf("Rating.Plan = %q", cfg.Rating.Plan)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("empty env should not override: DefaultFormat = %q", cfg.Output.DefaultFormat)
	}
}

func TestLoadDotEnvDoesNotOverwrite(t *testing.T) {
	t.Setenv(EnvPlan, "dashboard")

	path := filepath.Join(t.TempDir(), ".env")
	content := []byte("WC_RATING_PLAN=manual\nWC_RATING_ADDR=:7070\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvPlan); got != "dashboard" {
		t.Errorf("%s = %q, want existing value kept", EnvPlan, got)
	}
	if got := os.Getenv(EnvAddr); got != ":7070" {
		t.Errorf("%s = %q, want %q", EnvAddr, got, ":7070")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing dotenv should be ignored, got %v", err)
	}
}

func TestRatingWithFlags(t *testing.T) {
	configured := RatingConfig{Plan: "dashboard", PlanFile: "plans/office.hcl"}

	tests := []struct {
		name     string
		plan     string
		planFile string
		want     RatingConfig
	}{
		{"no flags keeps config", "", "", configured},
		{"plan flag clears configured file", "manual", "", RatingConfig{Plan: "manual"}},
		{"plan file flag replaces file", "", "other.yaml", RatingConfig{Plan: "dashboard", PlanFile: "other.yaml"}},
		{"plan file flag wins over plan flag", "manual", "other.yaml", RatingConfig{Plan: "manual", PlanFile: "other.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configured.WithFlags(tt.plan, tt.planFile); got != tt.want {
				t.Errorf("WithFlags(%q, %q) = %+v, want %+v", tt.plan, tt.planFile, got, tt.want)
			}
		})
	}
}
