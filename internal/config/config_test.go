package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, BackendMemory, cfg.StateBackend)
	assert.Equal(t, time.Duration(0), cfg.StateTTL())
	assert.Equal(t, "https://dummyjson.com", cfg.CatalogBaseURL)
	assert.Empty(t, cfg.CatalogFallbackFile)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL())
	assert.Equal(t, 1024, cfg.SessionCacheSize)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("STATE_TTL_HOURS", "72")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://shop.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, BackendRedis, cfg.StateBackend)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 72*time.Hour, cfg.StateTTL())
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, []string{"http://localhost:5173", "https://shop.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"unknown backend":  {"STATE_BACKEND", "mongo"},
		"non-numeric":      {"REDIS_DB", "one"},
		"zero cache size":  {"SESSION_CACHE_SIZE", "0"},
		"negative timeout": {"SHUTDOWN_TIMEOUT_SECONDS", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse config")
		})
	}
}
