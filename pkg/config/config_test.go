package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("ATELIER_DB_DSN", "postgres://localhost:5432/atelier")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 20, cfg.DB.MaxOpenConns)
	assert.Equal(t, 3, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 50, cfg.Outbox.BatchSize)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("ATELIER_DB_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestRedisEnabled(t *testing.T) {
	t.Setenv("ATELIER_DB_DSN", "postgres://localhost:5432/atelier")
	t.Setenv("ATELIER_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled())
}
