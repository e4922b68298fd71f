package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
)

// Environment holds the proxy's settings.
type Environment struct {
	Port            int
	UpstreamURL     string
	UpstreamTimeout time.Duration

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	CacheTTL      time.Duration

	StaticDir string
	GinMode   string
	LogLevel  string
}

// DefaultEnvironment is what an empty environment yields.
func DefaultEnvironment() Environment {
	return Environment{
		Port:            5555,
		UpstreamURL:     api.DefaultBaseURL,
		UpstreamTimeout: 10 * time.Second,
		CacheTTL:        24 * time.Hour,
		GinMode:         "release",
		LogLevel:        "info",
	}
}

// LoadEnvironment reads a .env file from the working directory when present,
// then the process environment. Variables already set win over .env.
func LoadEnvironment() (Environment, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Environment{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return environmentFrom(os.Getenv)
}

func environmentFrom(getenv func(string) string) (Environment, error) {
	env := DefaultEnvironment()

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Environment{}, fmt.Errorf("invalid PORT %q", v)
		}
		env.Port = port
	}
	if v := getenv("UPSTREAM_URL"); v != "" {
		env.UpstreamURL = v
	}
	if v := getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Environment{}, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q: want a positive duration like 10s", v)
		}
		env.UpstreamTimeout = d
	}
	if v := getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Environment{}, fmt.Errorf("invalid CACHE_TTL %q: want a duration like 24h", v)
		}
		env.CacheTTL = d
	}
	if v := getenv("GIN_MODE"); v != "" {
		switch v {
		case "debug", "release", "test":
			env.GinMode = v
		default:
			return Environment{}, fmt.Errorf("invalid GIN_MODE %q: want debug, release or test", v)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		env.LogLevel = v
	}

	env.RedisAddress = getenv("REDIS_ADDRESS")
	env.RedisUsername = getenv("REDIS_USERNAME")
	env.RedisPassword = getenv("REDIS_PASSWORD")
	env.StaticDir = getenv("STATIC_DIR")

	return env, nil
}

// Validate checks values that flags may have overridden after loading.
func (e Environment) Validate() error {
	if e.Port <= 0 || e.Port > 65535 {
		return fmt.Errorf("invalid port %d: want 1-65535", e.Port)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(e.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", e.LogLevel, err)
	}
	return nil
}

// Addr is the listen address for Port.
func (e Environment) Addr() string {
	return fmt.Sprintf(":%d", e.Port)
}
