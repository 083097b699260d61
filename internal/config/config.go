// Package config loads process-lifetime configuration for the portal
// backend: bus name, log level/format, runtime directory overrides, and
// the headless selector socket path. It does not cover the Appearance
// settings surface (internal/appearance), which has its own hot-reload
// semantics.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds process/service-level settings, read once at startup.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format"`

	// BusNameSuffix is appended to the well-known portal backend bus name,
	// letting a second instance run side by side during development.
	BusNameSuffix string `mapstructure:"bus_name_suffix"`
	// Replace requests DBUS_NAME_FLAG_REPLACE_EXISTING when claiming the
	// well-known name.
	Replace bool `mapstructure:"replace"`

	// RuntimeDir overrides $XDG_RUNTIME_DIR; empty means use the
	// environment (falling back to /tmp per §6.8).
	RuntimeDir string `mapstructure:"runtime_dir"`

	// HeadlessSocketPath overrides the default
	// $XDG_RUNTIME_DIR/luminus_selector.sock location.
	HeadlessSocketPath string `mapstructure:"headless_socket_path"`

	// MaxConcurrentSessions is read and validated (negative values become
	// 0), but the Session Registry does not enforce any session cap.
	MaxConcurrentSessions int `mapstructure:"max_concurrent_sessions"`
}

// Default returns the baseline configuration applied before any config
// file or environment override is read.
func Default() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		BusNameSuffix:         "",
		Replace:               false,
		MaxConcurrentSessions: 0,
	}
}

// Load reads configuration from cfgFile (if non-empty), or from the
// default search path, then layers environment variables prefixed
// LUMINOUS_ on top. Returns sane defaults if no config file exists.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("LUMINOUS")
	for _, key := range []string{"log_level", "log_format", "bus_name_suffix", "replace", "runtime_dir", "headless_socket_path", "max_concurrent_sessions"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			log.Warn("config validation", "error", err)
		}
	}

	return cfg, nil
}

// RuntimeDirOrDefault resolves the effective runtime directory per §6.8:
// explicit override, then $XDG_RUNTIME_DIR, then /tmp.
func (c *Config) RuntimeDirOrDefault() string {
	if c.RuntimeDir != "" {
		return c.RuntimeDir
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return "/tmp"
}

// HeadlessSocketPathOrDefault resolves the headless selector socket path
// per §6.5 and §6.7.
func (c *Config) HeadlessSocketPathOrDefault() string {
	if c.HeadlessSocketPath != "" {
		return c.HeadlessSocketPath
	}
	return filepath.Join(c.RuntimeDirOrDefault(), "luminus_selector.sock")
}

func configDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "xdg-desktop-portal-luminous")
	}
	return "/etc/xdg-desktop-portal-luminous"
}
