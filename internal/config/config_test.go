package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, "Europe/London", cfg.Scheduling.Timezone)
	assert.Equal(t, 15*time.Minute, cfg.Scheduling.LateStartGrace)
	assert.Equal(t, "@every 30s", cfg.Worker.OutboxSchedule)
	assert.Equal(t, "@every 30m", cfg.Worker.AlertSchedule)
	assert.Equal(t, 2*time.Minute, cfg.Worker.JobTimeout)
	assert.Equal(t, "postgres://postgres:@localhost:5432/careledger?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SCHEDULING_TIMEZONE", "UTC")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.ConnectionString(), "@db:5432/ledger")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLocation_Invalid(t *testing.T) {
	t.Setenv("SCHEDULING_TIMEZONE", "Mars/Olympus")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestConsoleIdentity(t *testing.T) {
	orgID := uuid.New()
	reviewerID := uuid.New()

	t.Setenv("CONSOLE_ORGANIZATION_ID", orgID.String())
	t.Setenv("CONSOLE_REVIEWER_ID", reviewerID.String())

	cfg, err := config.Load()
	require.NoError(t, err)

	gotOrg, gotReviewer, err := cfg.ConsoleIdentity()
	require.NoError(t, err)
	assert.Equal(t, orgID, gotOrg)
	assert.Equal(t, reviewerID, gotReviewer)

	t.Setenv("CONSOLE_REVIEWER_ID", "nope")

	cfg, err = config.Load()
	require.NoError(t, err)

	_, _, err = cfg.ConsoleIdentity()
	assert.Error(t, err)
}
