package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/booking"
	"github.com/MrJamesThe3rd/careledger/internal/http/render"
)

var reviewers = auth.RequireRole(auth.RoleAdmin, auth.RoleManager)

type Handler struct {
	svc *booking.Service
}

func NewHandler(svc *booking.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.With(auth.RequireRole(auth.RoleClient, auth.RoleAdmin, auth.RoleManager)).
		Post("/{id}/change-requests", h.submitChange)
	r.With(auth.RequireRole(auth.RoleStaff)).Post("/{id}/unavailability", h.reportUnavailability)
	r.With(auth.RequireRole(auth.RoleAdmin)).Post("/alerts", h.runAlerts)
}

func (h *Handler) ChangeRequestRoutes(r chi.Router) {
	r.Use(reviewers)
	r.Get("/", h.listChanges)
	r.Post("/{id}/review", h.reviewChange)
}

func (h *Handler) UnavailabilityRoutes(r chi.Router) {
	r.Use(reviewers)
	r.Get("/", h.listUnavailability)
	r.Post("/{id}/review", h.reviewUnavailability)
	r.Post("/{id}/reassign", h.reassign)
}

// clientScope returns the client a client-role caller is limited to, nil for
// every other role.
func clientScope(w http.ResponseWriter, caller auth.Identity) (*uuid.UUID, bool) {
	if caller.Role != auth.RoleClient {
		return nil, true
	}

	if caller.ClientID == nil {
		http.Error(w, "token carries no client", http.StatusForbidden)
		return nil, false
	}

	return caller.ClientID, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	filter := booking.BookingFilter{OrganizationID: caller.OrganizationID}

	if filter.ClientID, ok = render.QueryID(w, r, "client_id"); !ok {
		return
	}

	if filter.StaffID, ok = render.QueryID(w, r, "staff_id"); !ok {
		return
	}

	if filter.From, ok = render.QueryDate(w, r, "from"); !ok {
		return
	}

	if filter.To, ok = render.QueryDate(w, r, "to"); !ok {
		return
	}

	// Carers only see their own rota, clients their own visits.
	if caller.Role == auth.RoleStaff {
		filter.StaffID = new(caller.UserID)
	}

	clientID, ok := clientScope(w, caller)
	if !ok {
		return
	}

	if clientID != nil {
		filter.ClientID = clientID
	}

	bookings, err := h.svc.ListBookings(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, bookings)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	clientID, ok := clientScope(w, caller)
	if !ok {
		return
	}

	b, err := h.svc.GetBooking(r.Context(), caller.OrganizationID, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if clientID != nil && b.ClientID != *clientID {
		render.Error(w, r, booking.ErrNotFound)
		return
	}

	render.JSON(w, http.StatusOK, b)
}

type submitChangeRequest struct {
	Type    booking.RequestType `json:"type"`
	Reason  string              `json:"reason"`
	NewDate *string             `json:"new_date"`
	NewTime *string             `json:"new_time"`
}

func (h *Handler) submitChange(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	clientID, ok := clientScope(w, caller)
	if !ok {
		return
	}

	var req submitChangeRequest
	if !render.Decode(w, r, &req) {
		return
	}

	cr, err := h.svc.SubmitChangeRequest(r.Context(), booking.SubmitChangeParams{
		OrganizationID: caller.OrganizationID,
		ClientID:       clientID,
		BookingID:      id,
		RequestedBy:    caller.UserID,
		Type:           req.Type,
		Reason:         req.Reason,
		NewDate:        req.NewDate,
		NewTime:        req.NewTime,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, cr)
}

type reportUnavailabilityRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

func (h *Handler) reportUnavailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	var req reportUnavailabilityRequest
	if !render.Decode(w, r, &req) {
		return
	}

	ur, err := h.svc.ReportUnavailability(r.Context(), booking.ReportUnavailabilityParams{
		OrganizationID: caller.OrganizationID,
		BookingID:      id,
		StaffID:        caller.UserID,
		Reason:         req.Reason,
		Notes:          req.Notes,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, ur)
}

func requestFilter(r *http.Request, caller auth.Identity) booking.RequestFilter {
	filter := booking.RequestFilter{OrganizationID: caller.OrganizationID}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(booking.RequestStatus(s))
	}

	return filter
}

func (h *Handler) listChanges(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	reqs, err := h.svc.ListChangeRequests(r.Context(), requestFilter(r, caller))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, reqs)
}

func (h *Handler) listUnavailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	reqs, err := h.svc.ListUnavailability(r.Context(), requestFilter(r, caller))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, reqs)
}

type reviewRequest struct {
	Decision   booking.Decision `json:"decision"`
	AdminNotes string           `json:"admin_notes"`
}

// reviewParams decodes the review body for the request named in the URL.
func reviewParams(w http.ResponseWriter, r *http.Request) (booking.ReviewParams, bool) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return booking.ReviewParams{}, false
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return booking.ReviewParams{}, false
	}

	var req reviewRequest
	if !render.Decode(w, r, &req) {
		return booking.ReviewParams{}, false
	}

	return booking.ReviewParams{
		OrganizationID: caller.OrganizationID,
		RequestID:      id,
		ReviewerID:     caller.UserID,
		Decision:       req.Decision,
		AdminNotes:     req.AdminNotes,
	}, true
}

func (h *Handler) reviewChange(w http.ResponseWriter, r *http.Request) {
	params, ok := reviewParams(w, r)
	if !ok {
		return
	}

	res, err := h.svc.ReviewChangeRequest(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, res)
}

func (h *Handler) reviewUnavailability(w http.ResponseWriter, r *http.Request) {
	params, ok := reviewParams(w, r)
	if !ok {
		return
	}

	res, err := h.svc.ReviewUnavailability(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, res)
}

type reassignRequest struct {
	NewStaffID uuid.UUID `json:"new_staff_id"`
}

func (h *Handler) reassign(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	var req reassignRequest
	if !render.Decode(w, r, &req) {
		return
	}

	res, err := h.svc.Reassign(r.Context(), booking.ReassignParams{
		OrganizationID: caller.OrganizationID,
		RequestID:      id,
		NewStaffID:     req.NewStaffID,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, res)
}

func (h *Handler) runAlerts(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GenerateVisitAlerts(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, res)
}
