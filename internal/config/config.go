package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"careledger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Log struct {
		Level  slog.Level `envconfig:"LOG_LEVEL" default:"INFO"`
		Format string     `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"careledger"`
		SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
		Issuer    string `envconfig:"JWT_ISSUER" default:"careledger"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Redis struct {
		Addr     string        `envconfig:"REDIS_ADDR"`
		Password string        `envconfig:"REDIS_PASSWORD"`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		TTL      time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	}

	SendGrid struct {
		APIKey    string `envconfig:"SENDGRID_API_KEY"`
		FromEmail string `envconfig:"SENDGRID_FROM_EMAIL" default:"no-reply@careledger.local"`
		FromName  string `envconfig:"SENDGRID_FROM_NAME" default:"Care Ledger"`
	}

	Scheduling struct {
		Timezone       string        `envconfig:"SCHEDULING_TIMEZONE" default:"Europe/London"`
		LateStartGrace time.Duration `envconfig:"LATE_START_GRACE" default:"15m"`
	}

	Worker struct {
		OutboxSchedule string        `envconfig:"OUTBOX_SCHEDULE" default:"@every 30s"`
		AlertSchedule  string        `envconfig:"ALERT_SCHEDULE" default:"@every 30m"`
		BatchSize      int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
		MaxAttempts    int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"8"`
		JobTimeout     time.Duration `envconfig:"JOB_TIMEOUT" default:"2m"`
	}

	Console struct {
		OrganizationID string `envconfig:"CONSOLE_ORGANIZATION_ID"`
		ReviewerID     string `envconfig:"CONSOLE_REVIEWER_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// Location resolves the time zone that reschedule dates and times are entered in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Scheduling.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading scheduling timezone %q: %w", c.Scheduling.Timezone, err)
	}

	return loc, nil
}

// ConsoleIdentity parses the organization and reviewer the admin console acts as.
func (c *Config) ConsoleIdentity() (uuid.UUID, uuid.UUID, error) {
	orgID, err := uuid.Parse(c.Console.OrganizationID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid CONSOLE_ORGANIZATION_ID: %w", err)
	}

	reviewerID, err := uuid.Parse(c.Console.ReviewerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid CONSOLE_REVIEWER_ID: %w", err)
	}

	return orgID, reviewerID, nil
}

// NewLogger builds the process logger from the Log section.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Log.Level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
