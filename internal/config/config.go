// Package config loads application settings from the environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultSessionSecret = "secret_key_change_me"

// Config holds every setting the server, CLIs and tests need.
type Config struct {
	Env              string        `mapstructure:"APP_ENV"`
	Port             string        `mapstructure:"PORT"`
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	SessionSecret    string        `mapstructure:"SESSION_SECRET"`
	SiteURL          string        `mapstructure:"SITE_URL"`
	MediaRoot        string        `mapstructure:"MEDIA_ROOT"`
	CacheBackend     string        `mapstructure:"CACHE_BACKEND"`
	CacheSize        int           `mapstructure:"CACHE_SIZE"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	IndexCacheTTL    time.Duration `mapstructure:"INDEX_CACHE_TTL"`
	PasswordResetTTL time.Duration `mapstructure:"PASSWORD_RESET_TTL"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	SMTPHost         string        `mapstructure:"SMTP_HOST"`
	SMTPPort         string        `mapstructure:"SMTP_PORT"`
	SMTPUser         string        `mapstructure:"SMTP_USER"`
	SMTPPass         string        `mapstructure:"SMTP_PASS"`
	SMTPFrom         string        `mapstructure:"SMTP_FROM"`
}

// LoadConfig reads config.yml (if any) and overlays environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// the config file is optional
	_ = v.ReadInConfig()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_SIZE", 500)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("INDEX_CACHE_TTL", 20*time.Second)
	v.SetDefault("PASSWORD_RESET_TTL", 72*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", "")
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("SMTP_FROM", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// SMTPEnabled reports whether outgoing mail is fully configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.SMTPFrom != ""
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.CacheSize <= 0 {
		return errors.New("CACHE_SIZE must be positive")
	}
	if c.IndexCacheTTL < 0 {
		return errors.New("INDEX_CACHE_TTL must not be negative")
	}

	if c.IsProduction() {
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}
