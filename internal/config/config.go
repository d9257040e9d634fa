package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// StateDirName is the per-workspace directory holding config and logs.
const StateDirName = ".tracker"

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all tracker configuration.
type Config struct {
	// Tracker API the client talks to
	API APIConfig `yaml:"api"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Non-interactive export
	Export ExportConfig `yaml:"export"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the REST client.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// UIConfig configures the interactive table.
type UIConfig struct {
	Theme     string `yaml:"theme"` // auto, light, dark
	AltScreen bool   `yaml:"alt_screen"`
}

// ExportConfig configures the export command.
type ExportConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Themes accepted by UIConfig.Theme.
var ValidThemes = []string{"auto", "light", "dark"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8080",
			Timeout:   "30s",
			UserAgent: "sponsor-tracker-tui",
		},
		UI: UIConfig{
			Theme:     "auto",
			AltScreen: true,
		},
		Export: ExportConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns .tracker/config.yaml under the working directory.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(StateDirName, "config.yaml")
	}
	return filepath.Join(cwd, StateDirName, "config.yaml")
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("TRACKER_API_URL"); u != "" {
		c.API.BaseURL = u
	}
	if t := os.Getenv("TRACKER_API_TIMEOUT"); t != "" {
		c.API.Timeout = t
	}
	if v := os.Getenv("TRACKER_DARK_MODE"); v != "" {
		if dark, err := strconv.ParseBool(v); err == nil && dark {
			c.UI.Theme = "dark"
		}
	}
}

// GetAPITimeout returns the request timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an absolute http(s) URL", ErrInvalidConfig, c.API.BaseURL)
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("%w: ui.theme %q (valid: %v)", ErrInvalidConfig, c.UI.Theme, ValidThemes)
	}

	if c.Export.Concurrency < 1 {
		return fmt.Errorf("%w: export.concurrency must be at least 1", ErrInvalidConfig)
	}
	return nil
}
