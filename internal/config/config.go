// Package config loads proviso's CLI configuration from a YAML file,
// with environment-variable overrides, following the teacher's
// config-plus-env-override convention.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoggingConfig controls internal/logging's category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// StoreConfig selects and configures internal/store's backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" | "sqlite"
	Path    string `yaml:"path"`    // sqlite file path, ignored for memory
}

// EvalConfig holds interpreter-wide defaults. They are loaded and saved
// with the config file; nothing outside this package reads them.
type EvalConfig struct {
	DefaultTestFrequency string `yaml:"default_test_frequency"` // quarterly|annually|monthly
	CurrencyScale        int    `yaml:"currency_scale"`         // decimal places
}

// WatchConfig holds the watch-mode debounce setting. It is loaded and
// saved with the config file; the `proviso parse --watch` loop does not
// read it and does not debounce.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_millis"`
}

// Config is the top-level proviso CLI configuration.
type Config struct {
	Workspace string        `yaml:"workspace"`
	Logging   LoggingConfig `yaml:"logging"`
	Store     StoreConfig   `yaml:"store"`
	Eval      EvalConfig    `yaml:"eval"`
	Watch     WatchConfig   `yaml:"watch"`
}

// Default returns the built-in configuration used when no config file
// is present.
func Default() *Config {
	return &Config{
		Workspace: ".",
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Eval: EvalConfig{
			DefaultTestFrequency: "quarterly",
			CurrencyScale:        2,
		},
		Watch: WatchConfig{
			DebounceMillis: 300,
		},
	}
}

// Load reads a YAML config file at path, falling back to defaults for
// any field it does not set, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets deployment environments override the config
// file without editing it, matching the teacher's PROVISO_*-style
// override convention (there: CODENERD_DB, ZAI_API_KEY, ...).
func (c *Config) applyEnvOverrides() {
	if ws := os.Getenv("PROVISO_WORKSPACE"); ws != "" {
		c.Workspace = ws
	}
	if backend := os.Getenv("PROVISO_STORE_BACKEND"); backend != "" {
		c.Store.Backend = backend
	}
	if path := os.Getenv("PROVISO_STORE_PATH"); path != "" {
		c.Store.Path = path
	}
	if level := os.Getenv("PROVISO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if debug := os.Getenv("PROVISO_DEBUG"); debug == "1" || debug == "true" {
		c.Logging.DebugMode = true
	}
}

// Save writes cfg back out as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
