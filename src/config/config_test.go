package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5*time.Minute, cfg.UserCacheTTL)
	assert.False(t, cfg.ReadOnly)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("USER_CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, 5*time.Minute, cfg.UserCacheTTL)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{
		Port:       "99999",
		DBMaxConns: 0,
		JWTExpiry:  time.Hour,
		LogLevel:   "loud",
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "between 1 and 65535")
	assert.Contains(t, msg, "DATABASE_URL is required")
	assert.Contains(t, msg, "JWT_SECRET is required")
	assert.Contains(t, msg, "DB_MAX_CONNS")
	assert.Contains(t, msg, "LOG_LEVEL")
}
