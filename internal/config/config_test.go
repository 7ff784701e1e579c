package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "ENV", "HTTP_ADDR", "DATABASE_URL", "LOCAL_DB_PATH", "JWT_SECRET", "JWT_TTL",
		"ADMIN_LOGIN", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "TELEGRAM_BOT_TOKEN",
		"UPLOADS_DIR", "STATE_TTL", "REMOTE_RETRY_INTERVAL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_DevDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.StateTTL)
	assert.Equal(t, 15*time.Second, cfg.RemoteRetryInterval)
	assert.Equal(t, "admin", cfg.AdminLogin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte("admin123")))
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db/xalq")
	t.Setenv("STATE_TTL", "30s")
	t.Setenv("REMOTE_RETRY_INTERVAL", "1m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.uz, ,https://b.uz")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/xalq", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.StateTTL)
	assert.Equal(t, time.Minute, cfg.RemoteRetryInterval)
	assert.Equal(t, []string{"https://a.uz", "https://b.uz"}, cfg.CORSOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD_HASH")

	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	_, err = Load()
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")

	t.Setenv("TELEGRAM_BOT_TOKEN", "1:abc")
	_, err = Load()
	assert.NoError(t, err)
}
