package invoice

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/careledger/internal/http/render"
	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/ledger", h.ledger)
	r.Post("/{id}/expenses", h.attachExpenses)
	r.Delete("/{id}/expenses/{entryID}", h.detachExpense)
	r.Post("/{id}/extra-time", h.markExtraTime)
	r.Delete("/{id}/extra-time/{recordID}", h.removeExtraTime)
	r.Post("/{id}/generate", h.generate)
	r.Post("/{id}/recalculate", h.recalculate)
	r.Post("/{id}/lock", h.lock)
	r.Delete("/{id}/lock", h.unlock)
}

// ExtraTimeRoutes serves extra-time records that are not yet on an invoice.
func (h *Handler) ExtraTimeRoutes(r chi.Router) {
	r.Post("/", h.recordExtraTime)
	r.Get("/uninvoiced", h.listUninvoiced)
}

type createInvoiceRequest struct {
	ClientID  uuid.UUID `json:"client_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, ok := render.Identity(w, r)
	if !ok {
		return
	}

	var req createInvoiceRequest
	if !render.Decode(w, r, &req) {
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}

	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Create(r.Context(), invoice.CreateParams{
		OrganizationID: id.OrganizationID,
		ClientID:       req.ClientID,
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, ok := render.Identity(w, r)
	if !ok {
		return
	}

	filter := invoice.ListFilter{OrganizationID: id.OrganizationID}

	if filter.ClientID, ok = render.QueryID(w, r, "client_id"); !ok {
		return
	}

	switch r.URL.Query().Get("locked") {
	case "true":
		filter.Locked = new(true)
	case "false":
		filter.Locked = new(false)
	}

	invs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toInvoiceList(invs))
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

	inv, err := h.svc.Get(r.Context(), caller.OrganizationID, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	l, err := h.svc.Ledger(r.Context(), caller.OrganizationID, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toLedgerResponse(l))
}

type expenseEntryRequest struct {
	Category         string           `json:"category"`
	Description      string           `json:"description"`
	Amount           decimal.Decimal  `json:"amount"`
	StaffPayAmount   *decimal.Decimal `json:"staff_pay_amount"`
	AdminCostPercent *decimal.Decimal `json:"admin_cost_percent"`
	SourceExpenseID  *uuid.UUID       `json:"source_expense_id"`
}

type attachExpensesRequest struct {
	Entries          []expenseEntryRequest `json:"entries"`
	SourceExpenseIDs []uuid.UUID           `json:"source_expense_ids"`
}

func (h *Handler) attachExpenses(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	var req attachExpensesRequest
	if !render.Decode(w, r, &req) {
		return
	}

	entries := make([]invoice.ExpenseEntryParams, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = invoice.ExpenseEntryParams{
			Category:         e.Category,
			Description:      e.Description,
			Amount:           e.Amount,
			StaffPayAmount:   e.StaffPayAmount,
			AdminCostPercent: e.AdminCostPercent,
			SourceExpenseID:  e.SourceExpenseID,
		}
	}

	created, err := h.svc.AttachExpenses(r.Context(), invoice.AttachExpensesParams{
		OrganizationID:   caller.OrganizationID,
		InvoiceID:        id,
		Entries:          entries,
		SourceExpenseIDs: req.SourceExpenseIDs,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toExpenseEntries(created))
}

func (h *Handler) detachExpense(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	entryID, ok := render.URLID(w, r, "entryID")
	if !ok {
		return
	}

	if err := h.svc.DetachExpense(r.Context(), caller.OrganizationID, id, entryID); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type recordExtraTimeRequest struct {
	StaffID        uuid.UUID       `json:"staff_id"`
	ClientID       uuid.UUID       `json:"client_id"`
	BookingID      *uuid.UUID      `json:"booking_id"`
	ScheduledStart time.Time       `json:"scheduled_start"`
	ScheduledEnd   time.Time       `json:"scheduled_end"`
	ActualStart    time.Time       `json:"actual_start"`
	ActualEnd      time.Time       `json:"actual_end"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	OvertimeRate   decimal.Decimal `json:"overtime_rate"`
}

func (h *Handler) recordExtraTime(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	var req recordExtraTimeRequest
	if !render.Decode(w, r, &req) {
		return
	}

	rec, err := h.svc.RecordExtraTime(r.Context(), invoice.ExtraTimeParams{
		OrganizationID: caller.OrganizationID,
		StaffID:        req.StaffID,
		ClientID:       req.ClientID,
		BookingID:      req.BookingID,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		ActualStart:    req.ActualStart,
		ActualEnd:      req.ActualEnd,
		HourlyRate:     req.HourlyRate,
		OvertimeRate:   req.OvertimeRate,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toExtraTime(rec))
}

func (h *Handler) listUninvoiced(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	clientID, ok := render.QueryID(w, r, "client_id")
	if !ok {
		return
	}

	if clientID == nil {
		http.Error(w, "client_id is required", http.StatusBadRequest)
		return
	}

	records, err := h.svc.ListUninvoicedExtraTime(r.Context(), caller.OrganizationID, *clientID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toExtraTimeList(records))
}

type markExtraTimeRequest struct {
	RecordIDs []uuid.UUID `json:"record_ids"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (h *Handler) markExtraTime(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	var req markExtraTimeRequest
	if !render.Decode(w, r, &req) {
		return
	}

	n, err := h.svc.MarkExtraTimeInvoiced(r.Context(), caller.OrganizationID, id, req.RecordIDs)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) removeExtraTime(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	recordID, ok := render.URLID(w, r, "recordID")
	if !ok {
		return
	}

	if err := h.svc.RemoveExtraTime(r.Context(), caller.OrganizationID, id, recordID); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.svc.Generate(r.Context(), caller.OrganizationID, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, countResponse{Count: n})
}

type totalResponse struct {
	Total decimal.Decimal `json:"total"`
}

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	total, err := h.svc.Recalculate(r.Context(), caller.OrganizationID, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, totalResponse{Total: total})
}

func (h *Handler) lock(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Lock(r.Context(), caller.OrganizationID, id, caller.UserID); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unlock(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Unlock(r.Context(), caller.OrganizationID, id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
