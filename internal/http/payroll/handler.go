package payroll

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/careledger/internal/http/render"
	"github.com/MrJamesThe3rd/careledger/internal/payroll"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/calculate", h.calculate)
}

// calculate estimates take-home pay. Every failure is an input error.
func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var in payroll.Input
	if !render.Decode(w, r, &in) {
		return
	}

	res, err := payroll.Calculate(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	render.JSON(w, http.StatusOK, res)
}
