// Package config holds client preferences for the vault CLI. Values
// resolve in order: environment (PROMPTVAULT_*), a local .env file,
// the YAML config file, then defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds user preferences.
type Config struct {
	BackendURL       string `yaml:"backend_url"`
	Theme            string `yaml:"theme"` // "light", "dark" or "auto"
	Debug            bool   `yaml:"debug"`
	LogLevel         string `yaml:"log_level"`
	SearchDebounceMS int    `yaml:"search_debounce_ms"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:            "auto",
		LogLevel:         "info",
		SearchDebounceMS: 500,
	}
}

// StateDir returns the directory holding client state (config,
// session, logs).
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".promptvault"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration, applying .env and environment
// overrides on top of the file contents.
func Load() (Config, error) {
	path, err := File()
	if err != nil {
		return DefaultConfig(), err
	}
	cfg, err := LoadFrom(path)
	applyEnv(&cfg)
	return cfg, err
}

// LoadFrom reads the configuration from an explicit path. A missing
// file yields the defaults without error.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.SearchDebounceMS <= 0 {
		cfg.SearchDebounceMS = DefaultConfig().SearchDebounceMS
	}
	return cfg, nil
}

// applyEnv layers .env and process environment over the file config.
// The .env lookup mirrors the web client, which read its backend URL
// from a VITE_BACKEND_URL build variable.
func applyEnv(cfg *Config) {
	_ = godotenv.Load() // best effort; a missing .env is fine

	if v := os.Getenv("PROMPTVAULT_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("PROMPTVAULT_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("PROMPTVAULT_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = debug
		}
	}
	if v := os.Getenv("PROMPTVAULT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	path, err := File()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to an explicit path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
