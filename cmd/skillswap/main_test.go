package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/config"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/postgres"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

func demoConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())

	vc := config.New()
	vc.Set("app.demo", true)
	cfg, err := config.LoadFrom(vc)
	require.NoError(t, err)
	return cfg
}

func TestRankCommand_Demo(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"rank", "1", "--demo", "--min-score", "55"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Morgan Smith")
	assert.Contains(t, got, "60%")
	assert.Contains(t, got, "Node.js")
	assert.NotContains(t, got, "Sam Taylor")
	assert.Contains(t, got, "Showing 1 of 1 matching (2 candidates)")
}

func TestBuildApp_Demo(t *testing.T) {
	cfg := demoConfig(t)

	a, err := buildApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	p, err := a.profiles.GetProfile(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee", p.Name)

	status := a.health.Check(context.Background())
	assert.True(t, status.Healthy)
	assert.Contains(t, status.Checks, "directory")
	assert.Nil(t, a.cache)
}

func TestServerConfig(t *testing.T) {
	cfg := demoConfig(t)
	cfg.HTTP.Port = 9090
	cfg.HTTP.CORSOrigins = "https://a.example, https://b.example"
	cfg.HTTP.RateLimit = 0

	sc := serverConfig(cfg)
	assert.Equal(t, "0.0.0.0:9090", sc.Address())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, sc.AllowedOrigins)
	assert.True(t, sc.EnableCORS)
	assert.Zero(t, sc.RateLimitPerMinute)
}

func TestPostgresConfig(t *testing.T) {
	pc := postgresConfig(config.DBConfig{
		Host:            "db",
		Port:            6543,
		User:            "app",
		Name:            "skills",
		SSLMode:         "require",
		MaxConns:        20,
		MinConns:        4,
		ConnMaxLifetime: time.Hour,
		ConnectTimeout:  3 * time.Second,
	})

	assert.Equal(t, "db", pc.Host)
	assert.Equal(t, int32(20), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns)
	assert.Contains(t, pc.DSN(), "dbname=skills")
	assert.Contains(t, pc.DSN(), "connect_timeout=3")
}

func TestWriteMigrationTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeMigrationTable(&out, []postgres.Migration{
		{Version: 1, Name: "create_profiles", IsApplied: true, AppliedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{Version: 2, Name: "create_relationships"},
	}))

	got := out.String()
	assert.Contains(t, got, "create_profiles")
	assert.Contains(t, got, "2024-05-01 12:00:00")
	assert.Contains(t, got, "pending")
}

func TestMatchLabel(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "95%", matchLabel(95))
	assert.Equal(t, "50%", matchLabel(50))
}
