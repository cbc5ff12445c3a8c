package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GIN_MODE", "")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, CacheBackendMemory, config.CacheBackend)
	assert.Equal(t, IDStrategySequence, config.IDStrategy)
	assert.True(t, config.SeedEnabled)
	assert.False(t, config.IsProduction())
	assert.Contains(t, config.RateLimitConfigs, "POST /todos")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GIN_MODE", "")
	t.Setenv("PORT", "9000")
	t.Setenv("ID_STRATEGY", "UUID")
	t.Setenv("SEED_ENABLED", "false")
	t.Setenv("RATE_LIMIT_ENABLED", "0")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "9000", config.Port)
	assert.Equal(t, IDStrategyUUID, config.IDStrategy)
	assert.False(t, config.SeedEnabled)
	assert.False(t, config.RateLimitEnabled)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	t.Setenv("GIN_MODE", "")
	t.Setenv("SERVICE_NAME", "")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVICE_NAME=from-file\n"), 0o600))

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", config.ServiceName)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	t.Setenv("GIN_MODE", "")
	t.Setenv("SERVICE_NAME", "from-env")
	t.Setenv("SEED_ENABLED", "")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVICE_NAME=from-file\nSEED_ENABLED=false\n"), 0o600))

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", config.ServiceName)
	assert.False(t, config.SeedEnabled)
}

func TestLoadConfig_InvalidBool(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "sometimes")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorContains(t, err, "CACHE_ENABLED")
}

func TestLoadConfig_ReleaseMode(t *testing.T) {
	t.Setenv("GIN_MODE", "release")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.True(t, config.IsProduction())
	assert.True(t, config.EnforceHTTPS)
}

func TestValidate(t *testing.T) {
	config := GetDefaultConfig()
	config.CacheBackend = CacheBackendRedis

	assert.Error(t, config.Validate())

	config.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, config.Validate())

	config.IDStrategy = "random"
	assert.Error(t, config.Validate())
}

func TestNewSlogLogger_WritesToFile(t *testing.T) {
	config := GetDefaultConfig()
	config.LogFile = filepath.Join(t.TempDir(), "app.log")

	logger, closer, err := NewSlogLogger(config, true)
	require.NoError(t, err)

	logger.Info("todo created", "id", "3")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(config.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"todo created"`)
	assert.Contains(t, string(content), `"service":"todoref"`)
}
