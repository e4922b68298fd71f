// Package config provides persistent configuration for the ezan-vakti client.
//
// Configuration is stored as JSON at ~/.config/ezan-vakti/config.json
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/ezan-vakti/internal/prayer"
)

const (
	configDirName  = "ezan-vakti"
	configFileName = "config.json"

	// DefaultServerURL is where `ezan-vakti serve` listens by default.
	DefaultServerURL = "http://localhost:5555"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city_id",
	"server_url",
	"direct",
	"require_onboarding",
	"geolocation",
	"cache_dir",
	"format",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	CityID            string `json:"city_id,omitempty"`
	ServerURL         string `json:"server_url,omitempty"`
	Direct            bool   `json:"direct,omitempty"`             // talk to the upstream API instead of the proxy
	RequireOnboarding *bool  `json:"require_onboarding,omitempty"` // pointer so false survives omitempty
	Geolocation       *bool  `json:"geolocation,omitempty"`
	CacheDir          string `json:"cache_dir,omitempty"`
	Format            string `json:"format,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	onboarding := true
	geolocation := true
	return Config{
		ServerURL:         DefaultServerURL,
		RequireOnboarding: &onboarding,
		Geolocation:       &geolocation,
		Format:            prayer.ModeLabelAndClock,
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// A missing file yields an empty Config, not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city_id":
		if !isCityID(value) {
			return fmt.Errorf("invalid city_id %q: must be a numeric city id (see `ezan-vakti cities`)", value)
		}
		c.CityID = value
	case "server_url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid server_url %q: must be an http(s) URL", value)
		}
		c.ServerURL = strings.TrimRight(value, "/")
	case "direct":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid direct %q: must be true or false", value)
		}
		c.Direct = v
	case "require_onboarding":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid require_onboarding %q: must be true or false", value)
		}
		c.RequireOnboarding = &v
	case "geolocation":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid geolocation %q: must be true or false", value)
		}
		c.Geolocation = &v
	case "cache_dir":
		c.CacheDir = value
	case "format":
		if !isValidFormat(value) {
			return fmt.Errorf("invalid format %q: must be clock, label-and-clock, short, full or a template containing {{", value)
		}
		c.Format = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city_id":
		return c.CityID, nil
	case "server_url":
		return c.ServerURL, nil
	case "direct":
		if !c.Direct {
			return "", nil
		}
		return "true", nil
	case "require_onboarding":
		return formatBoolPtr(c.RequireOnboarding), nil
	case "geolocation":
		return formatBoolPtr(c.Geolocation), nil
	case "cache_dir":
		return c.CacheDir, nil
	case "format":
		return c.Format, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// RequireOnboardingOrDefault reports whether a first run shows the city picker.
func (c *Config) RequireOnboardingOrDefault(def bool) bool {
	if c.RequireOnboarding != nil {
		return *c.RequireOnboarding
	}
	return def
}

// GeolocationOrDefault reports whether IP geolocation may be attempted.
func (c *Config) GeolocationOrDefault(def bool) bool {
	if c.Geolocation != nil {
		return *c.Geolocation
	}
	return def
}

func formatBoolPtr(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func isCityID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isValidFormat(s string) bool {
	switch s {
	case prayer.ModeClock, prayer.ModeLabelAndClock, prayer.ModeShort, prayer.ModeFull:
		return true
	}
	return strings.Contains(s, "{{")
}
