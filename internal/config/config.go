package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort         int           `yaml:"port"`
	DatabasePath       string        `yaml:"database_path"`
	JWTSecret          string        `yaml:"jwt_secret"`
	TokenTTL           time.Duration `yaml:"token_ttl"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	LogLevel           string        `yaml:"log_level"`
	LogFormat          string        `yaml:"log_format"`       // console or json
	LoginRateLimit     float64       `yaml:"login_rate_limit"` // requests per second
	LoginRateBurst     int           `yaml:"login_rate_burst"`
	EventRetention     time.Duration `yaml:"event_retention"`
	EventPruneSchedule string        `yaml:"event_prune_schedule"` // cron spec
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		ServerPort:         8080,
		DatabasePath:       "./recipes.db",
		TokenTTL:           7 * 24 * time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:           "info",
		LogFormat:          "console",
		LoginRateLimit:     5,
		LoginRateBurst:     10,
		EventRetention:     30 * 24 * time.Hour,
		EventPruneSchedule: "@every 1h",
		ShutdownTimeout:    5 * time.Second,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.ServerPort))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.LoginRateLimit <= 0 || c.LoginRateBurst <= 0 {
		errs = append(errs, errors.New("login rate limit and burst must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	var err error
	if c.ServerPort, err = getEnvInt("PORT", c.ServerPort); err != nil {
		return err
	}
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	if c.TokenTTL, err = getEnvDuration("TOKEN_TTL", c.TokenTTL); err != nil {
		return err
	}
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	if raw := getEnv("LOGIN_RATE_LIMIT", ""); raw != "" {
		if c.LoginRateLimit, err = strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("invalid LOGIN_RATE_LIMIT %q: %w", raw, err)
		}
	}
	if c.LoginRateBurst, err = getEnvInt("LOGIN_RATE_BURST", c.LoginRateBurst); err != nil {
		return err
	}
	if c.EventRetention, err = getEnvDuration("EVENT_RETENTION", c.EventRetention); err != nil {
		return err
	}
	c.EventPruneSchedule = getEnv("EVENT_PRUNE_SCHEDULE", c.EventPruneSchedule)
	if c.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
