package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibesense/internal/vibeprofile"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeTemp(t, "config.toml", `
version = 1

[logging]
level = "debug"
format = "json"

[guardian]
snapshot_interval_sec = 15
alert_threshold = 0.5
`)

	loader := NewLoader(path)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 15*time.Second, cfg.Guardian.SnapshotInterval())
	assert.Equal(t, 0.5, cfg.Guardian.AlertThreshold)
}

func TestLoadJSONAndYAML(t *testing.T) {
	jsonPath := writeTemp(t, "config.json",
		`{"version": 1, "guardian": {"passive_timeout_ms": 45000}}`)
	yamlPath := writeTemp(t, "config.yaml", "version: 1\nguardian:\n  min_session_minutes: 5\n")

	cfg, err := NewLoader(jsonPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 45000, cfg.Guardian.PassiveTimeoutMs)

	cfg, err = NewLoader(yamlPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Guardian.MinSessionMinutes)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.toml"))
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Guardian.SnapshotIntervalSec, cfg.Guardian.SnapshotIntervalSec)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeTemp(t, "config.toml", `
version = 1

[guardian]
alert_threshold = 1.5
`)
	_, err := NewLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alert threshold")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"bad output", func(c *Config) { c.Logging.Output = "syslog" }, true},
		{"negative interval", func(c *Config) { c.Guardian.SnapshotIntervalSec = -1 }, true},
		{"negative min session", func(c *Config) { c.Guardian.MinSessionMinutes = -2 }, true},
		{"threshold above one", func(c *Config) { c.Guardian.AlertThreshold = 1.1 }, true},
		{"negative timeout", func(c *Config) { c.Guardian.PassiveTimeoutMs = -5 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyProfileOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Guardian.MinSessionMinutes = 5
	cfg.Guardian.AlertThreshold = 0.8
	cfg.Guardian.PassiveTimeoutMs = 45000

	profile := vibeprofile.Build(vibeprofile.AccountPersonal, nil)
	out := cfg.ApplyProfile(profile)

	assert.Equal(t, 5*time.Minute, out.MinSession)
	assert.Equal(t, 0.8, out.AlertThreshold)
	assert.Equal(t, 45*time.Second, out.PassiveTimeout)
	assert.True(t, out.Enabled)
}

func TestApplyProfileZeroKeepsProfileValues(t *testing.T) {
	cfg := DefaultConfig()
	profile := vibeprofile.Build(vibeprofile.AccountPersonal, []string{"meditation"})

	out := cfg.ApplyProfile(profile)
	assert.Equal(t, profile.AlertThreshold, out.AlertThreshold)
	assert.Equal(t, profile.PassiveTimeout, out.PassiveTimeout)
}

func TestApplyProfileCannotEnableDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Guardian.AlertThreshold = 0.9

	profile := vibeprofile.Build(vibeprofile.AccountBusiness, nil)
	out := cfg.ApplyProfile(profile)

	assert.False(t, out.Enabled)
	assert.Equal(t, profile.AlertThreshold, out.AlertThreshold)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VIBESENSE_LOG_LEVEL", "debug")
	t.Setenv("VIBESENSE_LOG_FORMAT", "json")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadOrCreateWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path)
	assert.Equal(t, Version, cfg.Version)

	// Second call loads the file it just wrote.
	_, created, err = LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeTemp(t, "config.toml", "version = 1\n")

	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)
	defer loader.Close()

	reloaded := make(chan *Config, 1)
	loader.OnChange(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, loader.Watch())

	require.NoError(t, os.WriteFile(path, []byte("version = 1\n\n[logging]\nlevel = \"debug\"\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.Logging.Level)
	case <-time.After(3 * time.Second):
		t.Fatal("config change not observed")
	}
}

func TestWatchKeepsOldConfigOnBrokenEdit(t *testing.T) {
	path := writeTemp(t, "config.toml", "version = 1\n\n[logging]\nlevel = \"info\"\n")

	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)
	defer loader.Close()
	require.NoError(t, loader.Watch())

	require.NoError(t, os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644))

	select {
	case err := <-loader.Errors():
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload error")
	}
	assert.Equal(t, "info", loader.Config().Logging.Level)
}
