package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("REDIS_ADDR", "localhost:6379")
	os.Setenv("RATE_LIMIT_MAX", "5")
	os.Setenv("RATE_LIMIT_SCOPE", "client")
	os.Setenv("LEGACY_VALIDATION_500", "true")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("RATE_LIMIT_MAX")
		os.Unsetenv("RATE_LIMIT_SCOPE")
		os.Unsetenv("LEGACY_VALIDATION_500")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Equal(t, "client", cfg.RateLimit.Scope)
	assert.True(t, cfg.LegacyValidation500)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW_SEC", "RATE_LIMIT_SCOPE"} {
		orig := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, orig)
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 60, cfg.RateLimit.WindowSec)
	assert.Equal(t, "global", cfg.RateLimit.Scope)
}

func TestIsProduction(t *testing.T) {
	cfg := &AppConfig{Env: "production"}
	assert.True(t, cfg.IsProduction())

	cfg.Env = "development"
	assert.False(t, cfg.IsProduction())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
