package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/http/booking"
	"github.com/MrJamesThe3rd/careledger/internal/http/expense"
	"github.com/MrJamesThe3rd/careledger/internal/http/export"
	"github.com/MrJamesThe3rd/careledger/internal/http/invoice"
	"github.com/MrJamesThe3rd/careledger/internal/http/matching"
	"github.com/MrJamesThe3rd/careledger/internal/http/notification"
	"github.com/MrJamesThe3rd/careledger/internal/http/payroll"
	"github.com/MrJamesThe3rd/careledger/internal/metrics"
)

type Handlers struct {
	Invoices      *invoice.Handler
	Bookings      *booking.Handler
	Notifications *notification.Handler
	Expenses      *expense.Handler
	Categories    *matching.Handler
	Exports       *export.Handler
	Payroll       *payroll.Handler
}

func New(authn *auth.Manager, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	office := auth.RequireRole(auth.RoleAdmin, auth.RoleManager)
	carers := auth.RequireRole(auth.RoleAdmin, auth.RoleManager, auth.RoleStaff)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authn.Middleware)

		r.Route("/invoices", func(r chi.Router) {
			r.Use(office)
			r.Use(middleware.AllowContentType("application/json"))
			h.Invoices.Routes(r)
		})

		r.Route("/extra-time", func(r chi.Router) {
			r.Use(carers)
			h.Invoices.ExtraTimeRoutes(r)
		})

		r.Route("/bookings", h.Bookings.Routes)
		r.Route("/change-requests", h.Bookings.ChangeRequestRoutes)
		r.Route("/unavailability", h.Bookings.UnavailabilityRoutes)

		r.Route("/notifications", h.Notifications.Routes)

		r.Route("/expenses", func(r chi.Router) {
			r.Use(office)
			h.Expenses.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(carers)
			h.Categories.Routes(r)
		})

		r.Route("/exports", func(r chi.Router) {
			r.Use(office)
			h.Exports.Routes(r)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Use(carers)
			r.Use(middleware.AllowContentType("application/json"))
			h.Payroll.Routes(r)
		})
	})

	return router
}
