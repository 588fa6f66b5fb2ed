package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/careledger/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	ListLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*LineItem, error)
	ListExpenseEntries(ctx context.Context, invoiceID uuid.UUID) ([]*ExpenseEntry, error)
	ListExtraTime(ctx context.Context, invoiceID uuid.UUID) ([]*ExtraTimeRecord, error)
	CreateExtraTime(ctx context.Context, rec *ExtraTimeRecord) error
	ListUninvoicedExtraTime(ctx context.Context, orgID uuid.UUID, clientID uuid.UUID) ([]*ExtraTimeRecord, error)
	MarkExpensesInvoiced(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID, invoiceID uuid.UUID) error
	ClearExpenseInvoiced(ctx context.Context, orgID uuid.UUID, id uuid.UUID, invoiceID uuid.UUID) error

	BeginLedger(ctx context.Context) (LedgerTx, error)
}

// LedgerTx mutates one invoice's ledger inside a database transaction.
// LockInvoice must be called first; it holds the invoice row until Commit or Rollback.
type LedgerTx interface {
	LockInvoice(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*Invoice, error)
	InsertExpenseEntries(ctx context.Context, entries []*ExpenseEntry) error
	GetExpenseEntry(ctx context.Context, invoiceID uuid.UUID, id uuid.UUID) (*ExpenseEntry, error)
	DeleteExpenseEntry(ctx context.Context, id uuid.UUID) error
	LockSourceExpenses(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	LockExtraTime(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*ExtraTimeRecord, error)
	MarkExtraTimeInvoiced(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error)
	ClearExtraTime(ctx context.Context, id uuid.UUID) error
	GenerateLedger(ctx context.Context, inv *Invoice) (int, error)
	SumLedger(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	SetTotal(ctx context.Context, invoiceID uuid.UUID, total decimal.Decimal) error
	SetLocked(ctx context.Context, invoiceID uuid.UUID, lockedBy uuid.UUID, at time.Time) error
	ClearLock(ctx context.Context, invoiceID uuid.UUID) error
	Commit() error
	Rollback() error
}

// Cache stores ledger read models under invalidation tags.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, tags []string) error
	Invalidate(ctx context.Context, tags []string) error
}

type Service struct {
	repo  Repository
	cache Cache
	now   func() time.Time
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

type CreateParams struct {
	OrganizationID uuid.UUID
	ClientID       uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
}

type ListFilter struct {
	OrganizationID uuid.UUID
	ClientID       *uuid.UUID
	Locked         *bool
}

// ExpenseEntryParams describes one expense entry to attach.
type ExpenseEntryParams struct {
	Category         string
	Description      string
	Amount           decimal.Decimal
	StaffPayAmount   *decimal.Decimal
	AdminCostPercent *decimal.Decimal
	SourceExpenseID  *uuid.UUID
}

// AttachExpensesParams carries source expenses either per entry or as a list.
// Listed ids not already carried by an entry are assigned, in order, to the
// entries without one.
type AttachExpensesParams struct {
	OrganizationID   uuid.UUID
	InvoiceID        uuid.UUID
	Entries          []ExpenseEntryParams
	SourceExpenseIDs []uuid.UUID
}

type ExtraTimeParams struct {
	OrganizationID uuid.UUID
	StaffID        uuid.UUID
	ClientID       uuid.UUID
	BookingID      *uuid.UUID
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ActualStart    time.Time
	ActualEnd      time.Time
	HourlyRate     decimal.Decimal
	OvertimeRate   decimal.Decimal
}

func ledgerKey(id uuid.UUID, version int64) string {
	return "invoice:ledger:" + id.String() + ":" + strconv.FormatInt(version, 10)
}
func invoiceTag(id uuid.UUID) string { return "invoice:" + id.String() }

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if params.EndDate.Before(params.StartDate) {
		return nil, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}

	inv := &Invoice{
		OrganizationID: params.OrganizationID,
		ClientID:       params.ClientID,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		Total:          new(decimal.Zero),
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// Ledger returns the invoice with all its entries, served from cache when fresh.
// Entries are cached under the invoice version, so a ledger loaded while a
// mutation was in flight is never served after that mutation commits.
func (s *Service) Ledger(ctx context.Context, orgID, id uuid.UUID) (*Ledger, error) {
	inv, err := s.repo.GetInvoice(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	key := ledgerKey(id, inv.Version)

	var cached Ledger

	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("ledger cache read failed", "invoice_id", id, "error", err)
	}

	if hit && err == nil && cached.Invoice != nil {
		return &cached, nil
	}

	items, err := s.repo.ListLineItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}

	expenses, err := s.repo.ListExpenseEntries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing expense entries: %w", err)
	}

	extra, err := s.repo.ListExtraTime(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing extra time: %w", err)
	}

	ledger := BuildLedger(inv, items, expenses, extra)

	if err := s.cache.Set(ctx, key, ledger, []string{invoiceTag(id)}); err != nil {
		slog.Warn("ledger cache write failed", "invoice_id", id, "error", err)
	}

	return ledger, nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Invalidate(ctx, []string{invoiceTag(id)}); err != nil {
		slog.Warn("ledger cache invalidation failed", "invoice_id", id, "error", err)
	}
}

// begin opens a ledger transaction and locks the invoice. When mutable is set a
// locked invoice is rejected with ErrLocked.
func (s *Service) begin(ctx context.Context, orgID, id uuid.UUID, mutable bool) (LedgerTx, *Invoice, error) {
	ltx, err := s.repo.BeginLedger(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin ledger: %w", err)
	}

	inv, err := ltx.LockInvoice(ctx, orgID, id)
	if err != nil {
		ltx.Rollback()
		return nil, nil, err
	}

	if mutable && inv.Locked {
		ltx.Rollback()
		return nil, nil, ErrLocked
	}

	return ltx, inv, nil
}

func validateEntries(entries []ExpenseEntryParams) error {
	if len(entries) == 0 {
		return &ValidationError{Field: "entries", Reason: "at least one entry is required"}
	}

	for i, e := range entries {
		field := fmt.Sprintf("entries[%d]", i)

		switch {
		case e.Category == "":
			return &ValidationError{Field: field + ".category", Reason: "is required"}
		case e.Amount.IsNegative():
			return &ValidationError{Field: field + ".amount", Reason: "must not be negative"}
		case e.StaffPayAmount != nil && e.StaffPayAmount.IsNegative():
			return &ValidationError{Field: field + ".staff_pay_amount", Reason: "must not be negative"}
		case e.AdminCostPercent != nil && (e.AdminCostPercent.IsNegative() || e.AdminCostPercent.GreaterThan(hundred)):
			return &ValidationError{Field: field + ".admin_cost_percent", Reason: "must be between 0 and 100"}
		}
	}

	return nil
}

// assignSources ties every source expense id to exactly one entry and returns
// the entries with their ids set, plus the ids in entry order.
func assignSources(entries []ExpenseEntryParams, listed []uuid.UUID) ([]ExpenseEntryParams, []uuid.UUID, error) {
	out := make([]ExpenseEntryParams, len(entries))
	copy(out, entries)

	carried := make(map[uuid.UUID]bool, len(listed))

	for i, e := range out {
		if e.SourceExpenseID == nil {
			continue
		}

		if carried[*e.SourceExpenseID] {
			return nil, nil, &ValidationError{Field: fmt.Sprintf("entries[%d].source_expense_id", i), Reason: "is used by another entry"}
		}

		carried[*e.SourceExpenseID] = true
	}

	next := 0

	for _, id := range listed {
		if carried[id] {
			continue
		}

		for next < len(out) && out[next].SourceExpenseID != nil {
			next++
		}

		if next == len(out) {
			return nil, nil, &ValidationError{Field: "source_expense_ids", Reason: id.String() + " has no entry to attach to"}
		}

		out[next].SourceExpenseID = new(id)
		carried[id] = true
	}

	var ids []uuid.UUID

	for _, e := range out {
		if e.SourceExpenseID != nil {
			ids = append(ids, *e.SourceExpenseID)
		}
	}

	return out, ids, nil
}

// AttachExpenses inserts expense entries and adds their sum to the invoice total.
// Source expenses are flagged as invoiced after commit; a failure there is only logged.
func (s *Service) AttachExpenses(ctx context.Context, params AttachExpensesParams) (_ []*ExpenseEntry, err error) {
	defer func() { metrics.ObserveWorkflow("invoice_attach_expenses", err) }()

	if err := validateEntries(params.Entries); err != nil {
		return nil, err
	}

	var sourceIDs []uuid.UUID

	params.Entries, sourceIDs, err = assignSources(params.Entries, params.SourceExpenseIDs)
	if err != nil {
		return nil, err
	}

	ltx, inv, err := s.begin(ctx, params.OrganizationID, params.InvoiceID, true)
	if err != nil {
		return nil, err
	}
	defer ltx.Rollback()

	if len(sourceIDs) > 0 {
		owned, err := ltx.LockSourceExpenses(ctx, inv.OrganizationID, sourceIDs)
		if err != nil {
			return nil, err
		}

		if err := checkOwned(sourceIDs, owned); err != nil {
			return nil, err
		}
	}

	entries := make([]*ExpenseEntry, len(params.Entries))
	sum := decimal.Zero

	for i, p := range params.Entries {
		entries[i] = &ExpenseEntry{
			InvoiceID:        inv.ID,
			OrganizationID:   inv.OrganizationID,
			Category:         p.Category,
			Description:      p.Description,
			Amount:           p.Amount,
			StaffPayAmount:   p.StaffPayAmount,
			AdminCostPercent: p.AdminCostPercent,
			SourceExpenseID:  p.SourceExpenseID,
		}
		sum = sum.Add(p.Amount)
	}

	if err := ltx.InsertExpenseEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("insert expense entries: %w", err)
	}

	if sum.IsPositive() {
		if err := ltx.SetTotal(ctx, inv.ID, inv.CurrentTotal().Add(sum)); err != nil {
			return nil, fmt.Errorf("update invoice total: %w", err)
		}
	}

	if err := ltx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attach expenses: %w", err)
	}

	if len(sourceIDs) > 0 {
		if err := s.repo.MarkExpensesInvoiced(ctx, inv.OrganizationID, sourceIDs, inv.ID); err != nil {
			slog.Warn("failed to flag source expenses as invoiced",
				"invoice_id", inv.ID, "expense_ids", sourceIDs, "error", err)
		}
	}

	s.invalidate(ctx, inv.ID)

	return entries, nil
}

func checkOwned(want, owned []uuid.UUID) error {
	found := make(map[uuid.UUID]bool, len(owned))
	for _, id := range owned {
		found[id] = true
	}

	for _, id := range want {
		if !found[id] {
			return &ValidationError{Field: "source_expense_id", Reason: id.String() + " is not an expense of this organization"}
		}
	}

	return nil
}

// DetachExpense removes one entry and subtracts its amount from the total, clamped at zero.
func (s *Service) DetachExpense(ctx context.Context, orgID, invoiceID, entryID uuid.UUID) (err error) {
	defer func() { metrics.ObserveWorkflow("invoice_detach_expense", err) }()

	ltx, inv, err := s.begin(ctx, orgID, invoiceID, true)
	if err != nil {
		return err
	}
	defer ltx.Rollback()

	entry, err := ltx.GetExpenseEntry(ctx, inv.ID, entryID)
	if err != nil {
		return err
	}

	if err := ltx.DeleteExpenseEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete expense entry: %w", err)
	}

	if err := ltx.SetTotal(ctx, inv.ID, SubtractClamped(inv.CurrentTotal(), entry.Amount)); err != nil {
		return fmt.Errorf("update invoice total: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return fmt.Errorf("commit detach expense: %w", err)
	}

	if entry.SourceExpenseID != nil {
		if err := s.repo.ClearExpenseInvoiced(ctx, inv.OrganizationID, *entry.SourceExpenseID, inv.ID); err != nil {
			slog.Warn("failed to unflag source expense",
				"invoice_id", inv.ID, "expense_id", *entry.SourceExpenseID, "error", err)
		}
	}

	s.invalidate(ctx, inv.ID)

	return nil
}

// RecordExtraTime stores an overtime claim with its cost frozen at creation.
func (s *Service) RecordExtraTime(ctx context.Context, params ExtraTimeParams) (*ExtraTimeRecord, error) {
	switch {
	case !params.ScheduledEnd.After(params.ScheduledStart):
		return nil, &ValidationError{Field: "scheduled_end", Reason: "must be after scheduled_start"}
	case !params.ActualEnd.After(params.ActualStart):
		return nil, &ValidationError{Field: "actual_end", Reason: "must be after actual_start"}
	case !params.HourlyRate.IsPositive():
		return nil, &ValidationError{Field: "hourly_rate", Reason: "must be positive"}
	}

	rate := params.OvertimeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	if rate.IsNegative() {
		return nil, &ValidationError{Field: "overtime_rate", Reason: "must not be negative"}
	}

	minutes := ExtraMinutes(params.ScheduledStart, params.ScheduledEnd, params.ActualStart, params.ActualEnd)
	ws := params.ScheduledStart

	rec := &ExtraTimeRecord{
		OrganizationID: params.OrganizationID,
		StaffID:        params.StaffID,
		ClientID:       params.ClientID,
		BookingID:      params.BookingID,
		WorkDate:       time.Date(ws.Year(), ws.Month(), ws.Day(), 0, 0, 0, 0, time.UTC),
		ScheduledStart: params.ScheduledStart,
		ScheduledEnd:   params.ScheduledEnd,
		ActualStart:    params.ActualStart,
		ActualEnd:      params.ActualEnd,
		HourlyRate:     params.HourlyRate,
		OvertimeRate:   rate,
		ExtraMinutes:   minutes,
		TotalCost:      ExtraTimeCost(minutes, params.HourlyRate, rate),
	}

	if err := s.repo.CreateExtraTime(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Service) ListUninvoicedExtraTime(ctx context.Context, orgID, clientID uuid.UUID) ([]*ExtraTimeRecord, error) {
	return s.repo.ListUninvoicedExtraTime(ctx, orgID, clientID)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// MarkExtraTimeInvoiced attaches extra-time records to an invoice and adds their
// frozen cost to its total. Records that are already invoiced are skipped, so
// repeating a call never adds a cost twice. Returns the number of records attached.
func (s *Service) MarkExtraTimeInvoiced(ctx context.Context, orgID, invoiceID uuid.UUID, ids []uuid.UUID) (_ int, err error) {
	if len(ids) == 0 {
		return 0, nil
	}

	defer func() { metrics.ObserveWorkflow("invoice_mark_extra_time", err) }()

	ids = dedupe(ids)

	ltx, inv, err := s.begin(ctx, orgID, invoiceID, true)
	if err != nil {
		return 0, err
	}
	defer ltx.Rollback()

	records, err := ltx.LockExtraTime(ctx, orgID, ids)
	if err != nil {
		return 0, fmt.Errorf("lock extra time: %w", err)
	}

	if len(records) != len(ids) {
		return 0, ErrExtraTimeNotFound
	}

	var pending []uuid.UUID

	sum := decimal.Zero

	for _, r := range records {
		if r.Invoiced {
			slog.Info("extra time already invoiced, skipping",
				"record_id", r.ID, "invoice_id", r.InvoiceID, "target_invoice_id", inv.ID)

			continue
		}

		pending = append(pending, r.ID)
		sum = sum.Add(r.TotalCost)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	n, err := ltx.MarkExtraTimeInvoiced(ctx, pending, inv.ID)
	if err != nil {
		return 0, fmt.Errorf("mark extra time invoiced: %w", err)
	}

	if err := ltx.SetTotal(ctx, inv.ID, inv.CurrentTotal().Add(sum)); err != nil {
		return 0, fmt.Errorf("update invoice total: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return 0, fmt.Errorf("commit mark extra time: %w", err)
	}

	s.invalidate(ctx, inv.ID)

	return int(n), nil
}

// RemoveExtraTime detaches one record and subtracts its frozen cost, clamped at zero.
func (s *Service) RemoveExtraTime(ctx context.Context, orgID, invoiceID, recordID uuid.UUID) (err error) {
	defer func() { metrics.ObserveWorkflow("invoice_remove_extra_time", err) }()

	ltx, inv, err := s.begin(ctx, orgID, invoiceID, true)
	if err != nil {
		return err
	}
	defer ltx.Rollback()

	records, err := ltx.LockExtraTime(ctx, orgID, []uuid.UUID{recordID})
	if err != nil {
		return fmt.Errorf("lock extra time: %w", err)
	}

	if len(records) == 0 {
		return ErrExtraTimeNotFound
	}

	rec := records[0]
	if !rec.Invoiced || rec.InvoiceID == nil || *rec.InvoiceID != inv.ID {
		return ErrExtraTimeNotAttached
	}

	if err := ltx.ClearExtraTime(ctx, rec.ID); err != nil {
		return fmt.Errorf("clear extra time: %w", err)
	}

	if err := ltx.SetTotal(ctx, inv.ID, SubtractClamped(inv.CurrentTotal(), rec.TotalCost)); err != nil {
		return fmt.Errorf("update invoice total: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return fmt.Errorf("commit remove extra time: %w", err)
	}

	s.invalidate(ctx, inv.ID)

	return nil
}

// Generate runs the visit-to-line-item procedure for the invoice's date range
// and recomputes the total from the ledger. Returns the number of line items added.
func (s *Service) Generate(ctx context.Context, orgID, id uuid.UUID) (_ int, err error) {
	defer func() { metrics.ObserveWorkflow("invoice_generate", err) }()

	ltx, inv, err := s.begin(ctx, orgID, id, true)
	if err != nil {
		return 0, err
	}
	defer ltx.Rollback()

	added, err := ltx.GenerateLedger(ctx, inv)
	if err != nil {
		return 0, fmt.Errorf("generate ledger: %w", err)
	}

	total, err := ltx.SumLedger(ctx, inv.ID)
	if err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}

	if err := ltx.SetTotal(ctx, inv.ID, total); err != nil {
		return 0, fmt.Errorf("update invoice total: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return 0, fmt.Errorf("commit generate: %w", err)
	}

	s.invalidate(ctx, inv.ID)

	return added, nil
}

// Recalculate rewrites the total from the constituent tables. Allowed on locked invoices.
func (s *Service) Recalculate(ctx context.Context, orgID, id uuid.UUID) (decimal.Decimal, error) {
	ltx, inv, err := s.begin(ctx, orgID, id, false)
	if err != nil {
		return decimal.Zero, err
	}
	defer ltx.Rollback()

	total, err := ltx.SumLedger(ctx, inv.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger: %w", err)
	}

	if err := ltx.SetTotal(ctx, inv.ID, total); err != nil {
		return decimal.Zero, fmt.Errorf("update invoice total: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("commit recalculate: %w", err)
	}

	s.invalidate(ctx, inv.ID)

	return total, nil
}

func (s *Service) Lock(ctx context.Context, orgID, id, lockedBy uuid.UUID) error {
	ltx, inv, err := s.begin(ctx, orgID, id, false)
	if err != nil {
		return err
	}
	defer ltx.Rollback()

	if inv.Locked {
		return nil
	}

	if err := ltx.SetLocked(ctx, inv.ID, lockedBy, s.now().UTC()); err != nil {
		return fmt.Errorf("lock invoice: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return fmt.Errorf("commit lock: %w", err)
	}

	s.invalidate(ctx, inv.ID)

	return nil
}

func (s *Service) Unlock(ctx context.Context, orgID, id uuid.UUID) error {
	ltx, inv, err := s.begin(ctx, orgID, id, false)
	if err != nil {
		return err
	}
	defer ltx.Rollback()

	if !inv.Locked {
		return nil
	}

	if err := ltx.ClearLock(ctx, inv.ID); err != nil {
		return fmt.Errorf("unlock invoice: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return fmt.Errorf("commit unlock: %w", err)
	}

	s.invalidate(ctx, inv.ID)

	return nil
}
