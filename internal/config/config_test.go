package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "fcm_backend", cfg.Database.Name)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "fcm", cfg.Push.Provider)
	assert.Equal(t, 8, cfg.Dispatch.Concurrency)
	assert.Equal(t, "push.deliveries", cfg.Redis.Channel)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, 8081, cfg.Worker.Port)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:dev.db")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON", "/secrets/sa.json")
	t.Setenv("DISPATCH_CONCURRENCY", "1")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:dev.db", cfg.Database.DSN)
	assert.Equal(t, 3, cfg.Database.MaxOpenConns)
	assert.Equal(t, "/secrets/sa.json", cfg.Push.CredentialsFile)
	assert.Equal(t, 1, cfg.Dispatch.Concurrency)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := load(viper.New())
		assert.ErrorContains(t, err, "DB_DRIVER")
	})

	t.Run("concurrency", func(t *testing.T) {
		t.Setenv("DISPATCH_CONCURRENCY", "0")
		_, err := load(viper.New())
		assert.ErrorContains(t, err, "DISPATCH_CONCURRENCY")
	})

	t.Run("provider", func(t *testing.T) {
		t.Setenv("PUSH_PROVIDER", "apns")
		_, err := load(viper.New())
		assert.ErrorContains(t, err, "PUSH_PROVIDER")
	})
}
