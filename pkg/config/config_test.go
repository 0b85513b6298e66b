package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("FIFO_SHORTAGE_POLICY", "error")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.FIFO.DefaultBatchSize)
	assert.Equal(t, 30, cfg.FIFO.BackupRetentionDays)
	assert.Equal(t, 30*time.Minute, cfg.FIFO.LockTTL)
	assert.Equal(t, "inventory.moves", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "15s", cfg.DB.LockTimeout)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("FIFO_SHORTAGE_POLICY", "fallback")
	t.Setenv("FIFO_LOCATION_VALIDATION", "false")
	t.Setenv("FIFO_DEFAULT_BATCH_SIZE", "250")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_LOCK_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.FIFO.ShortagePolicy)
	assert.False(t, cfg.FIFO.LocationValidation)
	assert.Equal(t, 250, cfg.FIFO.DefaultBatchSize)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Storage.UseMemory())
	assert.Equal(t, "2s", cfg.DB.LockTimeout)
}

func TestLoad_Invalidos(t *testing.T) {
	t.Setenv("FIFO_SHORTAGE_POLICY", "ignorar")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("FIFO_SHORTAGE_POLICY", "error")
	t.Setenv("FIFO_DEFAULT_BATCH_SIZE", "5000")
	_, err = Load()
	assert.Error(t, err)
}

func TestDSN_EscapaContrasena(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "fifo", Password: "p@ss:w/rd", DBName: "fifo", SSLMode: "disable"}
	assert.Equal(t, "postgres://fifo:p%40ss%3Aw%2Frd@db:5432/fifo?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
