package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. EDGECALC_PORT.
const EnvPrefix = "EDGECALC"

// Defaults for configuration values.
const (
	DefaultLogLevel        = "info"
	DefaultEnvironment     = "development"
	DefaultPort            = "8080"
	DefaultDBPath          = "positions.db"
	DefaultKellyFraction   = 0.25
	DefaultBankroll        = 1000.0
	DefaultAlertCooldown   = 5 * time.Minute
	DefaultRateLimitRPS    = 20.0
	DefaultRateLimitBurst  = 40
	DefaultRequestTimeout  = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultAllowedOrigin   = "http://localhost:3000"
)

// Config holds all application configuration.
type Config struct {
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	Environment string `mapstructure:"environment" validate:"required,environment"`

	Port            string        `mapstructure:"port" validate:"required,numeric"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" validate:"min=1,dive,required"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst" validate:"gt=0"`

	DBPath        string        `mapstructure:"db_path" validate:"required"`
	AlertCooldown time.Duration `mapstructure:"alert_cooldown" validate:"gte=0"`

	// Sizing defaults applied when a request leaves them unset
	KellyFraction   float64 `mapstructure:"kelly_fraction" validate:"gt=0,lte=1"`
	DefaultBankroll float64 `mapstructure:"default_bankroll" validate:"gt=0"`
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

// Load reads configuration from a .env file if present, an optional config
// file, and EDGECALC_* environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("allowed_origins", []string{DefaultAllowedOrigin})
	v.SetDefault("rate_limit_rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit_burst", DefaultRateLimitBurst)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("alert_cooldown", DefaultAlertCooldown)
	v.SetDefault("kelly_fraction", DefaultKellyFraction)
	v.SetDefault("default_bankroll", DefaultBankroll)
}

// Summary renders the settings worth printing at startup.
func (c *Config) Summary() string {
	return fmt.Sprintf(" env=%s port=%s db=%s kelly=%.2f bankroll=$%.2f cooldown=%v",
		c.Environment, c.Port, c.DBPath, c.KellyFraction, c.DefaultBankroll, c.AlertCooldown)
}
