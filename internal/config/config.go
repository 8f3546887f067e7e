// Package config reads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tayloree/appliance-compare/internal/api"
	"github.com/tayloree/appliance-compare/internal/logging"
	"github.com/tayloree/appliance-compare/internal/storage"
)

const (
	EnvAPIURL       = "APPCMP_API_URL"
	EnvAPIKey       = "APPCMP_API_KEY"
	EnvFetchTimeout = "APPCMP_FETCH_TIMEOUT"
	EnvStorage      = "APPCMP_STORAGE"
	EnvStorageQuota = "APPCMP_STORAGE_QUOTA"
	EnvLogLevel     = "APPCMP_LOG_LEVEL"
	EnvAddr         = "APPCMP_ADDR"
	EnvCORSOrigins  = "APPCMP_CORS_ORIGINS"

	DefaultAddr = ":8080"
)

// Config is the resolved runtime configuration.
type Config struct {
	APIURL       string
	APIKey       string
	FetchTimeout time.Duration
	Storage      string
	StorageQuota int64
	LogLevel     slog.Level
	Addr         string
	CORSOrigins  []string
}

// Load reads the given .env files (default ".env"; missing files are
// ignored) and then the process environment. Real environment variables win
// over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv resolves the configuration from a getenv function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIURL:       strings.TrimRight(strings.TrimSpace(getenv(EnvAPIURL)), "/"),
		APIKey:       strings.TrimSpace(getenv(EnvAPIKey)),
		FetchTimeout: api.DefaultTimeout,
		Storage:      strings.TrimSpace(getenv(EnvStorage)),
		StorageQuota: storage.DefaultQuota,
		Addr:         DefaultAddr,
	}

	if raw := strings.TrimSpace(getenv(EnvFetchTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%s: invalid duration %q", EnvFetchTimeout, raw)
		}
		cfg.FetchTimeout = d
	}

	if raw := strings.TrimSpace(getenv(EnvStorageQuota)); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s: invalid byte count %q", EnvStorageQuota, raw)
		}
		cfg.StorageQuota = n
	}

	level, err := logging.ParseLevel(getenv(EnvLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	if addr := strings.TrimSpace(getenv(EnvAddr)); addr != "" {
		cfg.Addr = addr
	}

	for _, origin := range strings.Split(getenv(EnvCORSOrigins), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}

// Remote reports whether a remote catalog source is configured.
func (c Config) Remote() bool { return c.APIURL != "" }

// StorageLocation returns the configured storage, defaulting to the per-user
// JSON file, or memory if no config directory exists.
func (c Config) StorageLocation() string {
	if c.Storage != "" {
		return c.Storage
	}
	path, err := storage.DefaultPath()
	if err != nil {
		return "memory"
	}
	return path
}
