package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.Equal(t, "read committed", cfg.DB.TxIsolation)
	assert.Equal(t, 10*time.Second, cfg.DB.TxTimeout)
	assert.Equal(t, 3, cfg.DB.TxMaxRetries)
	assert.Equal(t, int32(2), cfg.Inventory.CostDecimals)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("DB_TX_ISOLATION", "serializable")
	t.Setenv("DB_TX_TIMEOUT_SECONDS", "3")
	t.Setenv("DB_TX_MAX_RETRIES", "5")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("INVENTORY_COST_DECIMALS", "4")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.Equal(t, "serializable", cfg.DB.TxIsolation)
	assert.Equal(t, 3*time.Second, cfg.DB.TxTimeout)
	assert.Equal(t, 5, cfg.DB.TxMaxRetries)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, int32(4), cfg.Inventory.CostDecimals)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	cases := map[string]string{
		"STORAGE_DRIVER":          "sqlite",
		"DB_TX_ISOLATION":         "read uncommitted",
		"INVENTORY_COST_DECIMALS": "9",
		"DB_TX_MAX_RETRIES":       "-1",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "mrp", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/mrp?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
