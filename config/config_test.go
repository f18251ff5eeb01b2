package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "postgres://postgres:@localhost:5432/skillswap?sslmode=disable", cfg.DatabaseURL())
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "staging")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_TTL", "1m")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.App.Environment)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseURL())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "app:\n  demo: true\nhttp:\n  port: 8181\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skillswap.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.Demo)
	assert.Equal(t, 8181, cfg.HTTP.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_DEMO", "true")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_DEMO")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}
