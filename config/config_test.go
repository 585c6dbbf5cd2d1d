package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "campus_events", cfg.Database.DBName)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "pw",
		DBName: "campus_events", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:pw@db:5432/campus_events?sslmode=disable", c.DSN())
}

func TestDSNPrefersURL(t *testing.T) {
	c := DatabaseConfig{URL: "postgres://elsewhere/db", Host: "ignored"}
	assert.Equal(t, "postgres://elsewhere/db", c.DSN())
}
