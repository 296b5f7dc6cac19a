package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	AppName    = "BiteMeBuddy Admin Dashboard"
	AppVersion = "1.0.0"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Session    SessionConfig
	Cloudinary CloudinaryConfig
	App        AppConfig
}

type ServerConfig struct {
	Port          string   `env:"PORT" envDefault:"5001"`
	GinMode       string   `env:"GIN_MODE" envDefault:"debug"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5001"`
	RateLimitRPM  int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	LoginAttempts int      `env:"LOGIN_ATTEMPTS_PER_MINUTE" envDefault:"5"`
	TrustedProxy  []string `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1"`
}

type DatabaseConfig struct {
	URL        string `env:"DATABASE_URL"`
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	AutoCreate bool   `env:"DB_AUTO_CREATE" envDefault:"false"`
	MaxOpen    int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdle    int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	LogQueries bool   `env:"DB_LOG_QUERIES" envDefault:"false"`
}

type SessionConfig struct {
	SecretKey    string        `env:"SECRET_KEY" envDefault:"dev-secret-key-change-in-production"`
	Lifetime     time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"admin_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

// Enabled reports whether all credentials are present.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type AppConfig struct {
	Timezone                  string `env:"TIMEZONE" envDefault:"Asia/Kolkata"`
	LogLevel                  string `env:"LOG_LEVEL" envDefault:"info"`
	StrictOrderTransitions    bool   `env:"ORDER_STRICT_TRANSITIONS" envDefault:"false"`
	NotificationRetentionDays int    `env:"NOTIFICATION_RETENTION_DAYS" envDefault:"90"`
	DefaultAdminPassword      string `env:"DEFAULT_ADMIN_PASSWORD" envDefault:"admin123"`
	MaxUploadMB               int    `env:"MAX_UPLOAD_MB" envDefault:"16"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Database.URL = normalizeDatabaseURL(cfg.Database.URL)
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)

	if cfg.Database.URL == "" {
		if cfg.Database.Driver != "sqlite" {
			return nil, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.Database.Driver)
		}
		cfg.Database.URL = "bitemebuddy.db"
	}
	return cfg, nil
}

// normalizeDatabaseURL rewrites the legacy postgres:// scheme.
func normalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	return url
}
