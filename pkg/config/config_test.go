package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("projecthub")
	require.NoError(t, err)

	require.Equal(t, "projecthub", conf.ServiceName)
	require.Equal(t, "localhost", conf.DB.Host)
	require.Equal(t, "projecthub", conf.DB.DBName)
	require.Equal(t, "8080", conf.Server.Port)
	require.Equal(t, 24, conf.JWT.ExpirationHours)
	require.True(t, conf.Seed.Enabled)
	require.Equal(t, "Pass123$", conf.Seed.HostAdminPassword)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("SEED_HOST_ADMIN_EMAIL", "root@example.com")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DB_LOG_LEVEL", "silent")

	conf, err := Load("projecthub")
	require.NoError(t, err)

	require.Equal(t, "db.internal", conf.DB.Host)
	require.Equal(t, "9090", conf.Server.Port)
	require.False(t, conf.Seed.Enabled)
	require.Equal(t, "root@example.com", conf.Seed.HostAdminEmail)
	require.Equal(t, 30*time.Minute, conf.DB.ConnMaxLifetime)
	require.Equal(t, logger.Silent, conf.DB.LogLevel)
}

func TestGetDSN(t *testing.T) {
	c := DBConfig{
		Host: "localhost", Port: "5432", User: "postgres",
		Password: "secret", DBName: "projecthub", SSLMode: "disable",
	}
	require.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=projecthub sslmode=disable",
		c.GetDSN())
}

func TestEnvHelperFallbacks(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	require.Equal(t, 42, getEnvAsInt("SOME_INT", 42))

	t.Setenv("SOME_BOOL", "maybe")
	require.True(t, getEnvAsBool("SOME_BOOL", true))

	require.Equal(t, time.Hour, getEnvAsDuration("UNSET_DURATION", time.Hour))
	require.Equal(t, logger.Warn, getEnvAsLogLevel("UNSET_LOG_LEVEL", logger.Warn))
}
