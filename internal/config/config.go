// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"fburl/internal/media"
)

// Config holds all application configuration.
type Config struct {
	Quality      string `toml:"quality"`
	Timeout      string `toml:"timeout"`
	MaxRedirects int    `toml:"max_redirects"`
	MaxBodySize  int64  `toml:"max_body_size"`
	Color        string `toml:"color"`
	Debug        bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Quality:      "hd",
		Timeout:      "30s",
		MaxRedirects: 10,
		MaxBodySize:  10 * 1024 * 1024,
		Color:        "auto",
		Debug:        false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fburl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "fburl"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at the default path and merges it with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path and merges it with defaults.
// A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if _, err := media.ParseQuality(c.Quality); err != nil {
		return err
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", c.Timeout)
	}

	if c.MaxRedirects < 1 || c.MaxRedirects > 50 {
		return fmt.Errorf("max_redirects must be between 1 and 50, got %d", c.MaxRedirects)
	}

	if c.MaxBodySize < 0 {
		return fmt.Errorf("max_body_size cannot be negative, got %d", c.MaxBodySize)
	}

	validColors := map[string]bool{
		"auto": true, "always": true, "never": true,
	}
	if !validColors[strings.ToLower(c.Color)] {
		return fmt.Errorf("unsupported color %q (valid: auto, always, never)", c.Color)
	}

	return nil
}

// QualityTier returns the configured quality. It falls back to the default
// tier if the value does not parse; Validate reports that case.
func (c *Config) QualityTier() media.Quality {
	q, err := media.ParseQuality(c.Quality)
	if err != nil {
		return media.DefaultQuality
	}
	return q
}

// TimeoutDuration returns the configured fetch timeout; zero disables it.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
