package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()
	assert.Equal(t, "sqlite3", cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Engine.LowStockThreshold)
	assert.Equal(t, "orders.events", cfg.Kafka.OrdersTopic)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOW_STOCK_THRESHOLD", "12")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadEnv()
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 12, cfg.Engine.LowStockThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9000")
	path := filepath.Join(t.TempDir(), "pos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  app_env: development
store:
  driver: mysql
  dsn: "pos:pos@tcp(localhost:3306)/pos"
engine:
  low_stock_threshold: 3
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Engine.LowStockThreshold)
	assert.Equal(t, ":9000", cfg.Server.HTTPPort)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unterminated"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
