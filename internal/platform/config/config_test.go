package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_PORT", "DATABASE_URL", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "STATS_CACHE_TTL_SECONDS", "DB_HOST", "DB_NAME"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	require.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.Contains(t, cfg.DBConnStr, "host=localhost")
	assert.Contains(t, cfg.DBConnStr, "dbname=practice_tracker")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tracker")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9000", cfg.APIPort)
	assert.Equal(t, "postgres://u:p@db:5432/tracker", cfg.DBConnStr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.CORSAllowCredentials)
	assert.False(t, cfg.AutoMigrate)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 72*time.Hour, cfg.JWTExp)
}
