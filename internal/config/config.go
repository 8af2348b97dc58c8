// Package config handles the XDG configuration directory, the optional
// config.yaml settings file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskview"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored Google OAuth token filename.
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:3000/api"
	DefaultTimeout = 5 * time.Second
	DefaultLocale  = "en"
)

// Settings are read from config.yaml.
type Settings struct {
	Backend     string   `yaml:"backend"`
	BaseURL     string   `yaml:"base_url"`
	Token       string   `yaml:"token"`
	Timeout     Duration `yaml:"timeout"`
	LogLevel    string   `yaml:"log_level"`
	Locale      string   `yaml:"locale"`
	DefaultSort string   `yaml:"default_sort"`
}

// Duration is a time.Duration written as "5s" or "750ms" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Backend: BackendREST,
		BaseURL: DefaultBaseURL,
		Timeout: Duration(DefaultTimeout),
		Locale:  DefaultLocale,
	}
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings Settings
}

// New creates a new Config with the default or specified config directory
// and loads its settings. If configDir is empty, uses XDG_CONFIG_HOME/taskview
// or $HOME/.config/taskview.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	settings, err := LoadSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// LoadSettings reads a YAML settings file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Settings{}, fmt.Errorf("read %s: %w", SettingsFile, err)
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", SettingsFile, err)
		}
	}
	applyEnvOverrides(&s)

	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return Settings{}, fmt.Errorf("unknown backend: %s", s.Backend)
	}
	if s.Timeout <= 0 {
		s.Timeout = Duration(DefaultTimeout)
	}
	return s, nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("TASKVIEW_BACKEND"); v != "" {
		s.Backend = v
	}
	if v := os.Getenv("TASKVIEW_URL"); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv("TASKVIEW_TOKEN"); v != "" {
		s.Token = v
	}
	if v := os.Getenv("TASKVIEW_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// Timeout returns the per-call backend timeout.
func (c *Config) Timeout() time.Duration {
	if c.Settings.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Settings.Timeout)
}

// Locale returns the collation locale for title sorting.
func (c *Config) Locale() string {
	if c.Settings.Locale == "" {
		return DefaultLocale
	}
	return c.Settings.Locale
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
