package expense

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/expense"
	"github.com/MrJamesThe3rd/careledger/internal/expense/csvimport"
	"github.com/MrJamesThe3rd/careledger/internal/http/render"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

const maxUploadSize = 10 << 20

// Notifier delivers best-effort notifications.
type Notifier interface {
	Notify(ctx context.Context, ev notification.Event) int
}

type Handler struct {
	svc      *expense.Service
	parser   *csvimport.Parser
	notifier Notifier
}

func NewHandler(svc *expense.Service, parser *csvimport.Parser, notifier Notifier) *Handler {
	return &Handler{svc: svc, parser: parser, notifier: notifier}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/import", h.importCSV)
	r.Post("/import/confirm", h.confirmImport)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	var req expense.CreateParams
	if !render.Decode(w, r, &req) {
		return
	}

	req.OrganizationID = caller.OrganizationID

	e, err := h.svc.Create(r.Context(), req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, e)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	filter := expense.ListFilter{
		OrganizationID: caller.OrganizationID,
		Uninvoiced:     r.URL.Query().Get("uninvoiced") == "true",
	}

	if filter.StaffID, ok = render.QueryID(w, r, "staff_id"); !ok {
		return
	}

	if filter.StartDate, ok = render.QueryDate(w, r, "start_date"); !ok {
		return
	}

	if filter.EndDate, ok = render.QueryDate(w, r, "end_date"); !ok {
		return
	}

	expenses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, expenses)
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

	e, err := h.svc.Get(r.Context(), caller.OrganizationID, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	id, ok := render.URLID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), caller.OrganizationID, id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type importSuccessResponse struct {
	Imported int                `json:"imported"`
	Expenses []*expense.Expense `json:"expenses"`
}

// importCSV takes a multipart upload with a file, the branch the expenses
// belong to and optionally the claiming carer and the export profile.
// Duplicates of stored expenses abort the import with 409 and the split.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	branchID, err := uuid.Parse(r.FormValue("branch_id"))
	if err != nil {
		http.Error(w, "branch_id field is required", http.StatusBadRequest)
		return
	}

	var staffID *uuid.UUID

	if s := r.FormValue("staff_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid staff_id", http.StatusBadRequest)
			return
		}

		staffID = &id
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.parser.ParseProfile(file, r.FormValue("profile"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for i := range params {
		params[i].OrganizationID = caller.OrganizationID
		params[i].BranchID = branchID
		params[i].StaffID = staffID
	}

	result, err := h.svc.ImportBatch(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		render.JSON(w, http.StatusConflict, result)
		return
	}

	h.announce(r.Context(), caller.OrganizationID, branchID, result.Imported)

	render.JSON(w, http.StatusCreated, importSuccessResponse{Imported: len(result.Imported), Expenses: result.Imported})
}

type confirmRequest struct {
	Params []expense.CreateParams `json:"params"`
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	caller, ok := render.Identity(w, r)
	if !ok {
		return
	}

	var req confirmRequest
	if !render.Decode(w, r, &req) {
		return
	}

	for i := range req.Params {
		req.Params[i].OrganizationID = caller.OrganizationID
	}

	expenses, err := h.svc.CreateBatch(r.Context(), req.Params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if len(expenses) > 0 {
		h.announce(r.Context(), caller.OrganizationID, expenses[0].BranchID, expenses)
	}

	render.JSON(w, http.StatusCreated, importSuccessResponse{Imported: len(expenses), Expenses: expenses})
}

func (h *Handler) announce(ctx context.Context, orgID, branchID uuid.UUID, expenses []*expense.Expense) {
	if len(expenses) == 0 {
		return
	}

	h.notifier.Notify(ctx, notification.Event{
		OrganizationID: orgID,
		Type:           "expenses_imported",
		Category:       "expenses",
		Priority:       notification.PriorityLow,
		Title:          "Expenses imported",
		Message:        fmt.Sprintf("%d expenses were imported and are ready to invoice.", len(expenses)),
		Data:           map[string]any{"count": len(expenses)},
		Audience:       notification.ToBranchAdmins(branchID),
	})
}
