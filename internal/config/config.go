package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the ComplyDesk reminder service.
type Config struct {
	Worker   WorkerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mailer   MailerConfig
	Slack    SlackConfig
}

type WorkerConfig struct {
	Port        int
	Env         string
	PollTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type MailerConfig struct {
	Provider string
	FromAddr string
	FromName string
	Brevo    BrevoConfig
}

type BrevoConfig struct {
	APIKey string
}

type SlackConfig struct {
	Timeout time.Duration
}

var validMailProviders = map[string]bool{
	"mock":  true,
	"brevo": true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Worker: WorkerConfig{
			Port:        envInt("COMPLYDESK_PORT", 8080),
			Env:         envString("COMPLYDESK_ENV", "development"),
			PollTimeout: envDuration("WORKER_POLL_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Mailer: MailerConfig{
			Provider: envString("MAIL_PROVIDER", "mock"),
			FromAddr: envString("MAIL_FROM_ADDR", "no-reply@complydesk.io"),
			FromName: envString("MAIL_FROM_NAME", "ComplyDesk"),
			Brevo: BrevoConfig{
				APIKey: os.Getenv("BREVO_API_KEY"),
			},
		},
		Slack: SlackConfig{
			Timeout: envDuration("SLACK_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if !validMailProviders[c.Mailer.Provider] {
		return fmt.Errorf("MAIL_PROVIDER must be one of mock, brevo; got %q", c.Mailer.Provider)
	}
	if c.Mailer.Provider == "brevo" && c.Mailer.Brevo.APIKey == "" {
		return fmt.Errorf("BREVO_API_KEY is required when MAIL_PROVIDER is brevo")
	}
	if !strings.Contains(c.Mailer.FromAddr, "@") {
		return fmt.Errorf("MAIL_FROM_ADDR must be an email address, got %q", c.Mailer.FromAddr)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
