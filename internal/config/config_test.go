package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/config"
	"github.com/tayloree/appliance-compare/internal/storage"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(env(nil))
	require.NoError(t, err)

	assert.False(t, cfg.Remote())
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, storage.DefaultQuota, cfg.StorageQuota)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{
		config.EnvAPIURL:       "https://example.supabase.co/rest/v1/",
		config.EnvAPIKey:       " key ",
		config.EnvFetchTimeout: "2s",
		config.EnvStorage:      "redis://localhost:6379/0",
		config.EnvStorageQuota: "1024",
		config.EnvLogLevel:     "debug",
		config.EnvAddr:         "127.0.0.1:9000",
		config.EnvCORSOrigins:  "https://a.example, ,https://b.example",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.Remote())
	assert.Equal(t, "https://example.supabase.co/rest/v1", cfg.APIURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.StorageLocation())
	assert.Equal(t, int64(1024), cfg.StorageQuota)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	for key, value := range map[string]string{
		config.EnvFetchTimeout: "soon",
		config.EnvStorageQuota: "-1",
		config.EnvLogLevel:     "chatty",
	} {
		_, err := config.FromEnv(env(map[string]string{key: value}))
		assert.Error(t, err, key)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APPCMP_ADDR=:7070\n"), 0o600))
	t.Setenv(config.EnvAddr, "")
	require.NoError(t, os.Unsetenv(config.EnvAddr))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	require.NoError(t, os.Unsetenv(config.EnvAddr))
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
