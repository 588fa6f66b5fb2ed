// Package app wires configuration, storage and domain services into the
// process-wide set used by every binary.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/booking"
	bookingStore "github.com/MrJamesThe3rd/careledger/internal/booking/store"
	"github.com/MrJamesThe3rd/careledger/internal/cache"
	"github.com/MrJamesThe3rd/careledger/internal/config"
	"github.com/MrJamesThe3rd/careledger/internal/database"
	"github.com/MrJamesThe3rd/careledger/internal/expense"
	"github.com/MrJamesThe3rd/careledger/internal/expense/csvimport"
	expenseStore "github.com/MrJamesThe3rd/careledger/internal/expense/store"
	"github.com/MrJamesThe3rd/careledger/internal/export"
	"github.com/MrJamesThe3rd/careledger/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/careledger/internal/invoice/store"
	"github.com/MrJamesThe3rd/careledger/internal/jobs"
	"github.com/MrJamesThe3rd/careledger/internal/mail"
	"github.com/MrJamesThe3rd/careledger/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/careledger/internal/matching/store"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/careledger/internal/notification/store"
	"github.com/MrJamesThe3rd/careledger/internal/outbox"
	outboxStore "github.com/MrJamesThe3rd/careledger/internal/outbox/store"
)

type App struct {
	Config *config.Config
	DB     *sql.DB

	Invoices      *invoice.Service
	Bookings      *booking.Service
	Notifications *notification.Service
	Expenses      *expense.Service
	Categories    *matching.Service
	Exports       *export.Service
	Parser        *csvimport.Parser
	Dispatcher    *outbox.Dispatcher
	Runner        *jobs.Runner

	redis *redis.Client
}

// Open connects to Postgres and, when configured, Redis, then builds every
// service. Close releases both connections.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a := &App{Config: cfg, DB: db}

	var ledgerCache invoice.Cache = cache.NewNop()

	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}

		a.redis = client
		ledgerCache = cache.NewRedis(client, cfg.Redis.TTL)
	} else {
		slog.Info("REDIS_ADDR not set, ledger cache disabled")
	}

	var mailer notification.Mailer = mail.Log{}
	if cfg.SendGrid.APIKey != "" {
		mailer = mail.NewSendGrid(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	a.Invoices = invoice.NewService(invoiceStore.New(db), ledgerCache)
	a.Bookings = booking.NewService(bookingStore.New(db), loc, cfg.Scheduling.LateStartGrace)
	a.Notifications = notification.NewService(notificationStore.New(db), mailer)
	a.Categories = matching.NewService(matchingStore.New(db))
	a.Expenses = expense.NewService(expenseStore.New(db), a.Categories)
	a.Exports = export.NewService(a.Invoices)
	a.Parser = csvimport.NewParser()
	a.Dispatcher = outbox.NewDispatcher(outboxStore.New(db), outbox.NewNotifications(a.Notifications),
		cfg.Worker.BatchSize, cfg.Worker.MaxAttempts)
	a.Runner = jobs.NewRunner(a.Dispatcher, a.Bookings, cfg.Worker.JobTimeout)

	return a, nil
}

// Authenticator builds the bearer token manager from the Auth section.
func (a *App) Authenticator() (*auth.Manager, error) {
	return auth.NewManager(a.Config.Auth.JWTSecret, a.Config.Auth.Issuer)
}

// Scheduler registers the background jobs on their configured schedules.
func (a *App) Scheduler() (*jobs.Scheduler, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return nil, err
	}

	return jobs.NewScheduler(a.Runner, jobs.Schedules{
		jobs.JobOutboxDispatch: a.Config.Worker.OutboxSchedule,
		jobs.JobVisitAlerts:    a.Config.Worker.AlertSchedule,
	}, loc)
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("closing redis", "error", err)
		}
	}

	if err := a.DB.Close(); err != nil {
		slog.Warn("closing database", "error", err)
	}
}
