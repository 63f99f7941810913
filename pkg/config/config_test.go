package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuentes1145/act8/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.AuthRequired)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigins)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "inventario:movimientos", cfg.Redis.Channel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("HTTP_AUTH_REQUIRED", "false")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.False(t, cfg.HTTP.AuthRequired)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestLoad_SinSecretoFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("STORAGE_DRIVER", "mysql")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
