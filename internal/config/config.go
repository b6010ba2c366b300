// Package config manages global agentpane configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the global agentpane configuration.
type Config struct {
	// Command is the program spawned into the embedded terminal.
	// Empty means $SHELL (or /bin/bash).
	Command string `yaml:"command,omitempty"`

	// Args are extra arguments passed to Command.
	Args []string `yaml:"args,omitempty"`

	// Rows and Cols are the initial terminal dimensions.
	Rows int `yaml:"rows,omitempty"`
	Cols int `yaml:"cols,omitempty"`

	// Trust is the agent write policy: ask-first, always-ask or
	// always-allow.
	Trust string `yaml:"trust"`

	// Scrollback caps the lines kept after they scroll off the top.
	Scrollback int `yaml:"scrollback,omitempty"`

	// AuditPath overrides the write-request audit database location.
	AuditPath string `yaml:"audit_path,omitempty"`

	// LogPath overrides the debug log location.
	LogPath string `yaml:"log_path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Rows:       24,
		Cols:       80,
		Trust:      "always-ask",
		Scrollback: 1000,
	}
}

// ConfigPath returns the path to the config file.
// Falls back to current directory if home directory cannot be determined.
func ConfigPath() string {
	if home := os.Getenv("AGENTPANE_HOME"); home != "" {
		return filepath.Join(home, "config.yaml")
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "agentpane", "config.yaml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "agentpane", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "agentpane", "config.yaml")
}

// Load reads the configuration from disk. A missing file yields the
// defaults, not an error.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values and fills in defaults.
func (c *Config) Validate() error {
	switch c.Trust {
	case "":
		c.Trust = "always-ask"
	case "ask-first", "always-ask", "always-allow":
	default:
		return fmt.Errorf("invalid trust level %q (want ask-first, always-ask or always-allow)", c.Trust)
	}
	if c.Rows < 0 || c.Cols < 0 {
		return fmt.Errorf("dimensions must be non-negative, got %dx%d", c.Rows, c.Cols)
	}
	if c.Scrollback < 0 {
		c.Scrollback = 0
	}
	if c.Rows == 0 {
		c.Rows = 24
	}
	if c.Cols == 0 {
		c.Cols = 80
	}
	return nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	return nil
}
