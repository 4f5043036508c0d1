package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultEnvironment, cfg.Environment)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultKellyFraction, cfg.KellyFraction)
	assert.Equal(t, DefaultBankroll, cfg.DefaultBankroll)
	assert.Equal(t, DefaultAlertCooldown, cfg.AlertCooldown)
	assert.Equal(t, DefaultRateLimitRPS, cfg.RateLimitRPS)
	assert.Equal(t, DefaultRateLimitBurst, cfg.RateLimitBurst)
	assert.Equal(t, []string{DefaultAllowedOrigin}, cfg.AllowedOrigins)
	assert.NoError(t, Validate(cfg))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EDGECALC_KELLY_FRACTION", "0.5")
	t.Setenv("EDGECALC_PORT", "9090")
	t.Setenv("EDGECALC_ALERT_COOLDOWN", "30s")
	t.Setenv("EDGECALC_ENVIRONMENT", "production")
	t.Setenv("EDGECALC_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.KellyFraction)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.AlertCooldown)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.NoError(t, Validate(cfg))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edgecalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/bets.db\ndefault_bankroll: 250\n"), 0o600))

	t.Setenv("EDGECALC_DEFAULT_BANKROLL", "500")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bets.db", cfg.DBPath)
	assert.Equal(t, 500.0, cfg.DefaultBankroll, "env overrides file")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"kelly zero", func(c *Config) { c.KellyFraction = 0 }, "KellyFraction"},
		{"kelly above one", func(c *Config) { c.KellyFraction = 1.5 }, "KellyFraction"},
		{"negative bankroll", func(c *Config) { c.DefaultBankroll = -1 }, "DefaultBankroll"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "debug, info, warn, error"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "development, staging, production"},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, "Port"},
		{"no origins", func(c *Config) { c.AllowedOrigins = nil }, "AllowedOrigins"},
		{"zero rate", func(c *Config) { c.RateLimitRPS = 0 }, "RateLimitRPS"},
		{"wildcard origin in production", func(c *Config) {
			c.Environment = "production"
			c.AllowedOrigins = []string{"*"}
		}, "every origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func validConfig() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		Environment:     DefaultEnvironment,
		Port:            DefaultPort,
		RequestTimeout:  DefaultRequestTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		AllowedOrigins:  []string{DefaultAllowedOrigin},
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
		DBPath:          DefaultDBPath,
		AlertCooldown:   DefaultAlertCooldown,
		KellyFraction:   DefaultKellyFraction,
		DefaultBankroll: DefaultBankroll,
	}
}
