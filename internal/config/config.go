// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceEmbedded = "embedded"
	SourcePostgres = "postgres"
)

type Config struct {
	Port string

	DataSource  string // embedded | postgres
	DatabaseURL string

	RedisAddr     string // empty disables the search cache
	RedisPassword string
	RedisDB       int

	SearchCacheTTL time.Duration
	ReloadInterval time.Duration // 0 disables periodic reloads
	AdminToken     string        // empty disables POST /admin/reload

	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads a .env file into the environment without overriding
// variables that are already set. It reports whether a file was found.
func LoadDotEnv(paths ...string) (bool, error) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load .env: %w", err)
	}
	return true, nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		DataSource:    strings.ToLower(Get("DATA_SOURCE", SourceEmbedded)),
		DatabaseURL:   Get("DATABASE_URL", ""),
		RedisAddr:     Get("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AdminToken:    Get("ADMIN_TOKEN", ""),
		LogLevel:      Get("LOG_LEVEL", "info"),
		LogFormat:     Get("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.SearchCacheTTL, err = getDuration("SEARCH_CACHE_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ReloadInterval, err = getDuration("RELOAD_INTERVAL", 0); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DataSource {
	case SourceEmbedded:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("config: DATA_SOURCE must be %q or %q, got %q", SourceEmbedded, SourcePostgres, c.DataSource)
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("config: PORT must be a TCP port, got %q", c.Port)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config: REDIS_DB must be >= 0, got %d", c.RedisDB)
	}
	if c.SearchCacheTTL <= 0 {
		return fmt.Errorf("config: SEARCH_CACHE_TTL must be positive, got %s", c.SearchCacheTTL)
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("config: RELOAD_INTERVAL must be >= 0, got %s", c.ReloadInterval)
	}
	return nil
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
