// Package config handles configuration loading and validation for
// vibesense.
//
// The config file tunes the guardian and logging without code changes.
// Profile-derived values (from the account's type and interest tags)
// stay authoritative unless a field here explicitly overrides them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"vibesense/internal/vibeprofile"
)

// Version is the current config schema version.
const Version = 1

// Config is the root configuration.
type Config struct {
	Version int `toml:"version" json:"version" yaml:"version"`

	Logging  LoggingConfig  `toml:"logging" json:"logging" yaml:"logging"`
	Guardian GuardianConfig `toml:"guardian" json:"guardian" yaml:"guardian"`
}

// LoggingConfig tunes log output.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`
	Format string `toml:"format" json:"format" yaml:"format"` // "console" or "json"
	Output string `toml:"output" json:"output" yaml:"output"` // "stdout" or "stderr"
}

// GuardianConfig overrides profile-derived guardian tuning. Zero
// values mean "keep the profile's value".
type GuardianConfig struct {
	// SnapshotIntervalSec is how often the guardian samples the
	// fusion engine.
	SnapshotIntervalSec int `toml:"snapshot_interval_sec" json:"snapshot_interval_sec" yaml:"snapshot_interval_sec"`

	// MinSessionMinutes overrides the health-check grace period.
	MinSessionMinutes float64 `toml:"min_session_minutes" json:"min_session_minutes" yaml:"min_session_minutes"`

	// AlertThreshold overrides the degradation score that maps to the
	// alert level.
	AlertThreshold float64 `toml:"alert_threshold" json:"alert_threshold" yaml:"alert_threshold"`

	// PassiveTimeoutMs overrides the passive-consumption timeout.
	PassiveTimeoutMs int `toml:"passive_timeout_ms" json:"passive_timeout_ms" yaml:"passive_timeout_ms"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Guardian: GuardianConfig{
			SnapshotIntervalSec: 30,
		},
	}
}

// SnapshotInterval returns the configured snapshot interval as a
// duration, falling back to 30s.
func (c *GuardianConfig) SnapshotInterval() time.Duration {
	if c.SnapshotIntervalSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SnapshotIntervalSec) * time.Second
}

// ApplyProfile overlays this file's non-zero guardian overrides onto a
// profile-derived config. Disabled profiles stay disabled: a config
// file cannot re-enable the feature for business accounts.
func (c *Config) ApplyProfile(profile vibeprofile.Config) vibeprofile.Config {
	out := profile
	if !out.Enabled {
		return out
	}
	if c.Guardian.MinSessionMinutes > 0 {
		out.MinSession = time.Duration(c.Guardian.MinSessionMinutes * float64(time.Minute))
	}
	if c.Guardian.AlertThreshold > 0 {
		out.AlertThreshold = c.Guardian.AlertThreshold
	}
	if c.Guardian.PassiveTimeoutMs > 0 {
		out.PassiveTimeout = time.Duration(c.Guardian.PassiveTimeoutMs) * time.Millisecond
	}
	return out
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return ErrInvalidConfig{fmt.Sprintf("unknown log format %q", c.Logging.Format)}
	}
	switch c.Logging.Output {
	case "", "stdout", "stderr":
	default:
		return ErrInvalidConfig{fmt.Sprintf("unknown log output %q", c.Logging.Output)}
	}
	if c.Guardian.SnapshotIntervalSec < 0 {
		return ErrInvalidConfig{"snapshot interval cannot be negative"}
	}
	if c.Guardian.MinSessionMinutes < 0 {
		return ErrInvalidConfig{"min session minutes cannot be negative"}
	}
	if c.Guardian.AlertThreshold < 0 || c.Guardian.AlertThreshold > 1 {
		return ErrInvalidConfig{"alert threshold must be in [0,1]"}
	}
	if c.Guardian.PassiveTimeoutMs < 0 {
		return ErrInvalidConfig{"passive timeout cannot be negative"}
	}
	return nil
}

// ErrInvalidConfig represents a configuration error.
type ErrInvalidConfig struct {
	Message string
}

func (e ErrInvalidConfig) Error() string {
	return "config: " + e.Message
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("VIBESENSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VIBESENSE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vibesense", "config.toml")
}

// SaveConfig writes the configuration to path as TOML.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
