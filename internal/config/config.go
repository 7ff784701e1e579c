package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultHTTPAddr      = ":8080"
	defaultLocalDBPath   = "xalq_local.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "12h"
	defaultAdminLogin    = "admin"
	defaultAdminPassword = "admin123"
	defaultUploadsDir    = "./uploads"
	defaultStateTTL      = "10m"
	defaultRemoteRetry   = "15s"
)

type Config struct {
	AppEnv              string
	HTTPAddr            string
	DatabaseURL         string
	LocalDBPath         string
	JWTSecret           string
	JWTTTL              time.Duration
	AdminLogin          string
	AdminPasswordHash   string
	TelegramBotToken    string
	UploadsDir          string
	StateTTL            time.Duration
	RemoteRetryInterval time.Duration
	CORSOrigins         []string
}

// Load reads configuration from the environment. An empty DATABASE_URL means
// the remote store is not configured and every call is served locally.
func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.LocalDBPath = strings.TrimSpace(getEnv("LOCAL_DB_PATH", defaultLocalDBPath))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.AdminLogin = strings.TrimSpace(getEnv("ADMIN_LOGIN", defaultAdminLogin))
	cfg.TelegramBotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.StateTTL, err = parseDurationEnv("STATE_TTL", defaultStateTTL)
	if err != nil {
		return nil, err
	}
	cfg.RemoteRetryInterval, err = parseDurationEnv("REMOTE_RETRY_INTERVAL", defaultRemoteRetry)
	if err != nil {
		return nil, err
	}

	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))
	if cfg.AdminPasswordHash == "" && !isProdLike(cfg.AppEnv) {
		hash, err := bcrypt.GenerateFromPassword([]byte(getEnv("ADMIN_PASSWORD", defaultAdminPassword)), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		cfg.AdminPasswordHash = string(hash)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	slog.Info("config loaded",
		"env", cfg.AppEnv,
		"addr", cfg.HTTPAddr,
		"remote_configured", cfg.DatabaseURL != "",
		"local_db", cfg.LocalDBPath,
		"telegram_validation", cfg.TelegramBotToken != "",
	)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.LocalDBPath == "" {
		return fmt.Errorf("LOCAL_DB_PATH must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.StateTTL <= 0 {
		return fmt.Errorf("STATE_TTL must be > 0")
	}
	if cfg.RemoteRetryInterval < 0 {
		return fmt.Errorf("REMOTE_RETRY_INTERVAL must be >= 0")
	}
	if cfg.AdminLogin == "" {
		return fmt.Errorf("ADMIN_LOGIN must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.AdminPasswordHash == "" {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD_HASH must be set")
		}
		if cfg.TelegramBotToken == "" {
			return fmt.Errorf("in prod/release TELEGRAM_BOT_TOKEN must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
