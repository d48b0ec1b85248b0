// Package config provides configuration management.
package config

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"wc-rating/internal/errors"
	"wc-rating/internal/logging"
)

// Environment variables that override file settings
const (
	EnvPlan     = "WC_RATING_PLAN"
	EnvPlanFile = "WC_RATING_PLAN_FILE"
	EnvAddr     = "WC_RATING_ADDR"
	EnvLogLevel = "WC_RATING_LOG_LEVEL"
	EnvFormat   = "WC_RATING_FORMAT"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Rating selects the rating plan
	Rating RatingConfig `json:"rating"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// RatingConfig selects where the rating plan comes from.
// PlanFile wins over Plan when both are set.
type RatingConfig struct {
	// Plan is the name of a built-in plan preset
	Plan string `json:"plan"`

	// PlanFile is a path to an HCL, YAML or JSON plan file
	PlanFile string `json:"plan_file,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default report format
	DefaultFormat string `json:"default_format"`

	// NoColor disables ANSI colors in terminal output
	NoColor bool `json:"no_color"`
}

// WithFlags applies command line selections. A preset name clears any
// configured plan file; a plan file wins over both.
func (r RatingConfig) WithFlags(plan, planFile string) RatingConfig {
	if plan != "" {
		r.Plan = plan
		r.PlanFile = ""
	}
	if planFile != "" {
		r.PlanFile = planFile
	}
	return r
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Rating: RatingConfig{
			Plan: "dashboard",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.wc-rating.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".wc-rating.json"
	}
	return filepath.Join(homeDir, ".wc-rating.json")
}

// Load loads configuration from a file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Wrap(errors.TypeConfig, "failed to read config", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to parse config %s", path)
	}

	return config, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment.
// A missing file is not an error and existing variables are kept.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(errors.TypeConfig, err, "failed to load %s", path)
	}
	return nil
}

// ApplyEnv overrides configuration values with environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvPlan); v != "" {
		c.Rating.Plan = v
	}
	if v := os.Getenv(EnvPlanFile); v != "" {
		c.Rating.PlanFile = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Output.DefaultFormat = v
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
