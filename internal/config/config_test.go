package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 20*time.Second, cfg.IndexCacheTTL)
	assert.Equal(t, 72*time.Hour, cfg.PasswordResetTTL)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("INDEX_CACHE_TTL", "5s")
	t.Setenv("SITE_URL", "https://yatube.example/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5*time.Second, cfg.IndexCacheTTL)
	assert.Equal(t, "https://yatube.example", cfg.SiteURL)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Env:           "development",
			Port:          "8080",
			DBDriver:      "sqlite",
			SessionSecret: defaultSessionSecret,
			CacheBackend:  "memory",
			CacheSize:     10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Port = "" }, "PORT is required"},
		{"bad driver", func(c *Config) { c.DBDriver = "oracle" }, "unsupported DB_DRIVER"},
		{"bad cache", func(c *Config) { c.CacheBackend = "disk" }, "unsupported CACHE_BACKEND"},
		{"production default secret", func(c *Config) { c.Env = "production" }, "must be changed"},
		{"production short secret", func(c *Config) {
			c.Env = "production"
			c.SessionSecret = "short"
		}, "at least 32 characters"},
		{"production strong secret", func(c *Config) {
			c.Env = "production"
			c.SessionSecret = "0123456789abcdef0123456789abcdef"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
