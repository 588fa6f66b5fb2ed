// Package render writes JSON responses and maps domain errors to status codes.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/booking"
	"github.com/MrJamesThe3rd/careledger/internal/expense"
	"github.com/MrJamesThe3rd/careledger/internal/invoice"
	"github.com/MrJamesThe3rd/careledger/internal/matching"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var notFound = []error{
	invoice.ErrNotFound,
	invoice.ErrEntryNotFound,
	invoice.ErrExtraTimeNotFound,
	booking.ErrNotFound,
	booking.ErrRequestNotFound,
	notification.ErrNotFound,
	expense.ErrNotFound,
	matching.ErrRuleNotFound,
}

var conflict = []error{
	invoice.ErrLocked,
	invoice.ErrExtraTimeNotAttached,
	booking.ErrAlreadyResolved,
	booking.ErrNotApproved,
	booking.ErrNotScheduled,
}

// Status returns the HTTP status for err.
func Status(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}

	for _, target := range conflict {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}

	var (
		invoiceErr      *invoice.ValidationError
		bookingErr      *booking.ValidationError
		notificationErr *notification.ValidationError
		expenseErr      *expense.ValidationError
	)

	switch {
	case errors.As(err, &invoiceErr),
		errors.As(err, &bookingErr),
		errors.As(err, &notificationErr),
		errors.As(err, &expenseErr),
		errors.Is(err, matching.ErrInvalidRule):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Error writes err with its mapped status. Internal errors are logged and
// their text is not sent to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}

// Decode reads a JSON body into v, writing a 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

// URLID parses the named chi URL parameter as a UUID, writing a 400 on failure.
func URLID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

// QueryID parses an optional UUID query parameter.
func QueryID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}

	id, err := uuid.Parse(s)
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return nil, false
	}

	return &id, true
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		http.Error(w, "invalid "+name+": want YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}

	return &t, true
}

// Identity returns the authenticated caller. Routes are mounted behind the
// auth middleware, so a missing identity is a wiring bug and answers 401.
func Identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	}

	return id, ok
}
