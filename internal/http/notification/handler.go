package notification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/http/render"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)
	r.With(auth.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/announcements", h.announce)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	filter := notification.ListFilter{
		UserID:     caller.UserID,
		UnreadOnly: r.URL.Query().Get("unread") == "true",
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		filter.Limit = limit
	}

	notes, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, notes)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkRead(r.Context(), caller.UserID, id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type countResponse struct {
	Count int `json:"count"`
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	n, err := h.svc.MarkAllRead(r.Context(), caller.UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, countResponse{Count: n})
}

type announceRequest struct {
	Type     string                `json:"type"`
	Category string                `json:"category"`
	Priority notification.Priority `json:"priority"`
	Title    string                `json:"title"`
	Message  string                `json:"message"`
	Audience notification.Audience `json:"audience"`
	Email    bool                  `json:"email"`
	Data     map[string]any        `json:"data"`
}

// announce delivers an admin-authored event synchronously so the caller learns
// how many recipients it reached.
func (h *Handler) announce(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	var req announceRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if req.Type == "" {
		req.Type = "announcement"
	}

	if req.Priority == "" {
		req.Priority = notification.PriorityNormal
	}

	n, err := h.svc.Deliver(r.Context(), notification.Event{
		OrganizationID: caller.OrganizationID,
		Type:           req.Type,
		Category:       req.Category,
		Priority:       req.Priority,
		Title:          req.Title,
		Message:        req.Message,
		Data:           req.Data,
		Audience:       req.Audience,
		Email:          req.Email,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, countResponse{Count: n})
}
