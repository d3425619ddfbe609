package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 0, cfg.Server.Port)
	require.False(t, cfg.Logging.Development)
	require.Equal(t, "claude", cfg.Answerer.Command)
	require.Equal(t, 30*time.Second, cfg.NavTimeout())
	require.Equal(t, 15*time.Minute, cfg.CacheTTL())
	require.Equal(t, 5*time.Minute, cfg.CacheSweepInterval())
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
logging:
  development: true
browser:
  path: /usr/bin/chromium
  nav_timeout_seconds: 10
extractor:
  command: trafilatura
  args: ["--output-format", "markdown"]
answerer:
  command: claude
  model: haiku
cache:
  ttl_minutes: 2
  sweep_minutes: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.True(t, cfg.Logging.Development)
	require.Equal(t, "/usr/bin/chromium", cfg.Browser.Path)
	require.Equal(t, 10*time.Second, cfg.NavTimeout())
	require.Equal(t, []string{"--output-format", "markdown"}, cfg.Extractor.Args)
	require.Equal(t, "haiku", cfg.Answerer.Model)
	require.Equal(t, 2*time.Minute, cfg.CacheTTL())
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative port", func(c *Config) { c.Server.Port = -1 }},
		{"zero nav timeout", func(c *Config) { c.Browser.NavTimeoutSec = 0 }},
		{"empty answerer command", func(c *Config) { c.Answerer.Command = "" }},
		{"zero cache ttl", func(c *Config) { c.Cache.TTLMinutes = 0 }},
		{"zero sweep interval", func(c *Config) { c.Cache.SweepMinutes = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, "overrides.yaml", `
model: opus
thinking_level: high
`)

	o := LoadOverrides(path)
	require.Equal(t, "opus", o.Model)
	require.Equal(t, "high", o.ThinkingLevel)
}

func TestLoadOverridesToleratesMissingFile(t *testing.T) {
	require.Zero(t, LoadOverrides(""))
	require.Zero(t, LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestApplyOverridesPrefersFileValues(t *testing.T) {
	path := writeFile(t, "overrides.yaml", "model: opus\n")

	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Answerer.Model = "haiku"
	cfg.Answerer.ThinkingLevel = "low"
	cfg.Answerer.OverridesFile = path

	merged := cfg.ApplyOverrides()
	require.Equal(t, "opus", merged.Model)
	// Fields absent from the file keep the session defaults.
	require.Equal(t, "low", merged.ThinkingLevel)
}
