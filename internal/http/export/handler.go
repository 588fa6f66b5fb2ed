package export

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/careledger/internal/export"
	"github.com/MrJamesThe3rd/careledger/internal/http/render"
	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

type Handler struct {
	svc     *export.Service
	ledgers export.Ledgers
}

func NewHandler(svc *export.Service, ledgers export.Ledgers) *Handler {
	return &Handler{svc: svc, ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
	r.Get("/invoices/{id}", h.invoiceCSV)
}

type exportRequest struct {
	ClientID *uuid.UUID `json:"client_id,omitempty"`
	Locked   *bool      `json:"locked,omitempty"`
}

type itemResponse struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	FileName  string          `json:"file_name"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Locked    bool            `json:"locked"`
	Total     decimal.Decimal `json:"total"`
}

type exportMetadataResponse struct {
	Invoices  []itemResponse `json:"invoices"`
	EmailBody string         `json:"email_body"`
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) (invoice.ListFilter, bool) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return invoice.ListFilter{}, false
	}

	var req exportRequest
	if !render.Decode(w, r, &req) {
		return invoice.ListFilter{}, false
	}

	return invoice.ListFilter{
		OrganizationID: caller.OrganizationID,
		ClientID:       req.ClientID,
		Locked:         req.Locked,
	}, true
}

// metadata renders the matching ledgers to a scratch directory and reports
// what a download would contain.
func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "careledger-export-*")
	if err != nil {
		render.Error(w, r, fmt.Errorf("creating export dir: %w", err))
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), filter, tmpDir)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := exportMetadataResponse{
		Invoices:  make([]itemResponse, 0, len(items)),
		EmailBody: export.Summary(items),
	}

	for _, item := range items {
		inv := item.Ledger.Invoice
		resp.Invoices = append(resp.Invoices, itemResponse{
			InvoiceID: inv.ID,
			FileName:  item.FileName,
			StartDate: inv.StartDate.Format(time.DateOnly),
			EndDate:   inv.EndDate.Format(time.DateOnly),
			Locked:    inv.Locked,
			Total:     inv.CurrentTotal(),
		})
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"invoices_%s.zip\"", time.Now().Format("20060102")))

	if _, err := h.svc.Archive(r.Context(), filter, w); err != nil {
		render.Error(w, r, err)
	}
}

func (h *Handler) invoiceCSV(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	l, err := h.ledgers.Ledger(r.Context(), caller.OrganizationID, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(l.Invoice)))

	if err := export.WriteCSV(w, l); err != nil {
		render.Error(w, r, err)
	}
}
