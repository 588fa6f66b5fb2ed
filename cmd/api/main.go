package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/careledger/internal/app"
	"github.com/MrJamesThe3rd/careledger/internal/config"
	careledgerHttp "github.com/MrJamesThe3rd/careledger/internal/http"
	bookingHandler "github.com/MrJamesThe3rd/careledger/internal/http/booking"
	expenseHandler "github.com/MrJamesThe3rd/careledger/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/careledger/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/careledger/internal/http/invoice"
	matchingHandler "github.com/MrJamesThe3rd/careledger/internal/http/matching"
	notificationHandler "github.com/MrJamesThe3rd/careledger/internal/http/notification"
	payrollHandler "github.com/MrJamesThe3rd/careledger/internal/http/payroll"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	authn, err := a.Authenticator()
	if err != nil {
		slog.Error("failed to configure auth", "error", err)
		os.Exit(1)
	}

	router := careledgerHttp.New(authn, cfg.CORS.AllowedOrigins, careledgerHttp.Handlers{
		Invoices:      invoiceHandler.NewHandler(a.Invoices),
		Bookings:      bookingHandler.NewHandler(a.Bookings),
		Notifications: notificationHandler.NewHandler(a.Notifications),
		Expenses:      expenseHandler.NewHandler(a.Expenses, a.Parser, a.Notifications),
		Categories:    matchingHandler.NewHandler(a.Categories),
		Exports:       exportHandler.NewHandler(a.Exports, a.Invoices),
		Payroll:       payrollHandler.NewHandler(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}
