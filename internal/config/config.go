// Package config loads and validates webdigest configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Answerer  AnswererConfig  `mapstructure:"answerer"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ServerConfig controls the optional ops HTTP server. Port 0 disables it.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// BrowserConfig configures the rendering engine.
type BrowserConfig struct {
	Path          string `mapstructure:"path"`
	UserAgent     string `mapstructure:"user_agent"`
	NavTimeoutSec int    `mapstructure:"nav_timeout_seconds"`
}

// ExtractorConfig selects the extraction tool invocation.
type ExtractorConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// AnswererConfig configures the answering sub-process. OverridesFile points
// at an optional file supplying model and thinking-level overrides; its
// absence or unreadability silently yields no overrides.
type AnswererConfig struct {
	Command       string `mapstructure:"command"`
	Model         string `mapstructure:"model"`
	ThinkingLevel string `mapstructure:"thinking_level"`
	OverridesFile string `mapstructure:"overrides_file"`
}

// CacheConfig sizes the response cache lifetimes.
type CacheConfig struct {
	TTLMinutes   int `mapstructure:"ttl_minutes"`
	SweepMinutes int `mapstructure:"sweep_minutes"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WEBDIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 0)
	v.SetDefault("logging.development", false)
	v.SetDefault("browser.user_agent", "webdigest/0.1")
	v.SetDefault("browser.nav_timeout_seconds", 30)
	v.SetDefault("extractor.command", "")
	v.SetDefault("answerer.command", "claude")
	v.SetDefault("cache.ttl_minutes", 15)
	v.SetDefault("cache.sweep_minutes", 5)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port < 0 {
		return fmt.Errorf("server.port must be >= 0")
	}
	if c.Browser.NavTimeoutSec <= 0 {
		return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
	}
	if c.Answerer.Command == "" {
		return fmt.Errorf("answerer.command must be set")
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("cache.ttl_minutes must be > 0")
	}
	if c.Cache.SweepMinutes <= 0 {
		return fmt.Errorf("cache.sweep_minutes must be > 0")
	}
	return nil
}

// NavTimeout converts the browser timeout config into a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Browser.NavTimeoutSec) * time.Second
}

// CacheTTL converts the cache TTL config into a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// CacheSweepInterval converts the sweep config into a duration.
func (c Config) CacheSweepInterval() time.Duration {
	return time.Duration(c.Cache.SweepMinutes) * time.Minute
}

// Overrides holds optional answerer settings read from the overrides file.
type Overrides struct {
	Model         string `mapstructure:"model"`
	ThinkingLevel string `mapstructure:"thinking_level"`
}

// LoadOverrides reads the optional answerer overrides file. A missing or
// unreadable file yields zero overrides without error, falling back to the
// session defaults.
func LoadOverrides(path string) Overrides {
	if path == "" {
		return Overrides{}
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Overrides{}
	}
	var o Overrides
	if err := v.Unmarshal(&o); err != nil {
		return Overrides{}
	}
	return o
}

// ApplyOverrides merges the overrides file (when configured) into the
// answerer settings, preferring the file's values.
func (c Config) ApplyOverrides() AnswererConfig {
	out := c.Answerer
	o := LoadOverrides(c.Answerer.OverridesFile)
	if o.Model != "" {
		out.Model = o.Model
	}
	if o.ThinkingLevel != "" {
		out.ThinkingLevel = o.ThinkingLevel
	}
	return out
}
