package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "estudio-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stub", cfg.Storage.Provider)
	assert.Equal(t, 5*time.Second, cfg.Lock.AcquireTimeout)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ESTUDIO_DATABASE_HOST", "db.internal")
	t.Setenv("ESTUDIO_APP_PORT", "9090")
	t.Setenv("ESTUDIO_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Run("production requires jwt secret", func(t *testing.T) {
		t.Setenv("ESTUDIO_APP_ENV", "production")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt secret")
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		t.Setenv("ESTUDIO_STORAGE_PROVIDER", "s3")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket")
	})

	t.Run("unknown storage provider", func(t *testing.T) {
		t.Setenv("ESTUDIO_STORAGE_PROVIDER", "ftp")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("ESTUDIO_LOG_LEVEL", "verbose")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", DBName: "estudio", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=estudio sslmode=disable",
		d.DSN())
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
