package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Production.DashboardCacheTTL)
	assert.True(t, cfg.Production.ChangeFeedEnabled)
	assert.Equal(t, "lot_changes", cfg.Production.ChangeFeedChannel)
	assert.Equal(t, 4, cfg.Production.WorkerPoolSize)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("CHANGE_FEED_ENABLED", "false")
	t.Setenv("WORKER_POOL_SIZE", "8")
	t.Setenv("ADMIN_PASSWORD_SHA256", "  ABCDEF  ")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Production.DashboardCacheTTL)
	assert.False(t, cfg.Production.ChangeFeedEnabled)
	assert.Equal(t, 8, cfg.Production.WorkerPoolSize)
	assert.Equal(t, "abcdef", cfg.Production.AdminPasswordSHA256)
}

func TestLoad_SinSecretoJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "produccion", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/produccion?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
