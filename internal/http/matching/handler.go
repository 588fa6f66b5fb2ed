package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
	"github.com/MrJamesThe3rd/careledger/internal/http/render"
	"github.com/MrJamesThe3rd/careledger/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Get("/rules", h.rules)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Post("/rules", h.learn)
		r.Delete("/rules/{id}", h.forget)
	})
}

type suggestResponse struct {
	RawDescription string `json:"raw_description"`
	Category       string `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	category, err := h.svc.Suggest(r.Context(), caller.OrganizationID, rawDesc)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, suggestResponse{RawDescription: rawDesc, Category: category})
}

func (h *Handler) rules(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	rules, err := h.svc.Rules(r.Context(), caller.OrganizationID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, rules)
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern"`
	Category   string `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	var req learnRequest
	if !render.Decode(w, r, &req) {
		return
	}

	rule, err := h.svc.Learn(r.Context(), caller.OrganizationID, req.RawPattern, req.Category)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, rule)
}

func (h *Handler) forget(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Forget(r.Context(), caller.OrganizationID, id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
