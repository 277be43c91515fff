// Package config loads adpilot configuration from a YAML file with
// environment variable overrides. Missing credentials are deliberately NOT a
// load error: the token authority reports them as a structured missing_env
// failure so the session can explain them conversationally instead of
// crashing at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all adpilot configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Platform holds the ads-platform client credentials.
	Platform PlatformConfig `yaml:"platform"`

	// Advisor configures the LLM explanation layer.
	Advisor AdvisorConfig `yaml:"advisor"`
}

// PlatformConfig carries the mock ads-platform credentials.
type PlatformConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// AdvisorConfig configures the Gemini-backed explanation service. With an
// empty APIKey the advisor runs in stubbed mode.
type AdvisorConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "adpilot",
		Version: "0.3.0",
		Advisor: AdvisorConfig{
			Model: "gemini-3-flash-preview",
		},
	}
}

// DefaultPath returns the conventional config location under the user home
// directory, or the local file name when home cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "adpilot.yaml"
	}
	return filepath.Join(home, ".adpilot", "config.yaml")
}

// Load reads the config at path, falling back to defaults when the file does
// not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if id := os.Getenv("ADPILOT_CLIENT_ID"); id != "" {
		c.Platform.ClientID = id
	}
	if secret := os.Getenv("ADPILOT_CLIENT_SECRET"); secret != "" {
		c.Platform.ClientSecret = secret
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Advisor.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Advisor.Model = model
	}
}
