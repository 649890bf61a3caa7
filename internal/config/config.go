package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fileshred/internal/shred"
)

// Config is the on-disk shred configuration. CLI flags override it.
type Config struct {
	Shred struct {
		Passes       int     `yaml:"passes"`
		Zero         bool    `yaml:"zero"`
		Remove       string  `yaml:"remove"`
		Force        bool    `yaml:"force"`
		Quiet        bool    `yaml:"quiet"`
		Verify       bool    `yaml:"verify"`
		BufferSize   int     `yaml:"buffer_size"`
		MaxSpeedMBps float64 `yaml:"max_speed_mbps"`
	} `yaml:"shred"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`

	Reporting struct {
		Enabled   bool   `yaml:"enabled"`
		Format    string `yaml:"format"`
		LocalPath string `yaml:"local_path"`
	} `yaml:"reporting"`

	Security struct {
		ProtectedPaths []string `yaml:"protected_paths"`
	} `yaml:"security"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}

	cfg.Shred.Passes = 3
	cfg.Shred.Remove = string(shred.RemoveNone)
	cfg.Shred.BufferSize = shred.DefaultBufferSize

	cfg.Logging.Level = "INFO"

	cfg.Reporting.Format = "json"
	cfg.Reporting.LocalPath = "./reports"

	cfg.Security.ProtectedPaths = []string{"/proc", "/sys", "/dev"}

	return cfg
}

// Load reads path over the defaults. An empty or missing path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Shred.Passes < 0 {
		return fmt.Errorf("passes cannot be negative, got %d", cfg.Shred.Passes)
	}

	if cfg.Shred.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive, got %d", cfg.Shred.BufferSize)
	}
	if cfg.Shred.BufferSize > 64*1024*1024 {
		return fmt.Errorf("buffer size too large (max 64MB), got %d", cfg.Shred.BufferSize)
	}

	if cfg.Shred.MaxSpeedMBps < 0 {
		return fmt.Errorf("max speed cannot be negative, got %f", cfg.Shred.MaxSpeedMBps)
	}

	if _, err := shred.ParseRemoveMethod(cfg.Shred.Remove); err != nil {
		return err
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}

	if cfg.Reporting.Format != "json" && cfg.Reporting.Format != "csv" {
		return fmt.Errorf("invalid report format: %s (expected json or csv)", cfg.Reporting.Format)
	}

	for _, path := range cfg.Security.ProtectedPaths {
		clean := filepath.Clean(path)
		if path == "" || clean == "." || clean == "/" {
			return fmt.Errorf("invalid protected path: %q", path)
		}
	}

	return nil
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// RemoveMethod returns the parsed removal method. Validate has already
// rejected unknown names, so this falls back to none.
func (cfg *Config) RemoveMethod() shred.RemoveMethod {
	m, err := shred.ParseRemoveMethod(cfg.Shred.Remove)
	if err != nil {
		return shred.RemoveNone
	}
	return m
}
