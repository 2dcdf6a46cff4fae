package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "agentlists", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, EventsInProcess, cfg.EventsDriver)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/agentlists")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SUMMARY_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.SummaryCacheTTL)
}

func TestLoadRejectsIncompleteDrivers(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err := Load()
	require.ErrorContains(t, err, "postgres.dsn")

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("EVENTS_DRIVER", "sns")
	_, err = Load()
	require.ErrorContains(t, err, "sns.topic_arn")

	t.Setenv("EVENTS_DRIVER", "carrier-pigeon")
	_, err = Load()
	require.ErrorContains(t, err, "events.driver")
}

func TestLoadRequiresSeedAdminPassword(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_ADMIN_EMAIL", "root@example.com")

	_, err := Load()
	require.ErrorContains(t, err, "auth.admin_password")

	t.Setenv("AUTH_ADMIN_PASSWORD", "changeme")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Administrator", cfg.AdminName)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
}
