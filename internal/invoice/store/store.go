package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/careledger/internal/database"
	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectInvoiceColumns = `
	id, organization_id, client_id, start_date, end_date, total, amount,
	locked, locked_at, locked_by, created_at, updated_at, version
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var total decimal.NullDecimal

	if err := s.Scan(
		&inv.ID, &inv.OrganizationID, &inv.ClientID, &inv.StartDate, &inv.EndDate, &total, &inv.Amount,
		&inv.Locked, &inv.LockedAt, &inv.LockedBy, &inv.CreatedAt, &inv.UpdatedAt, &inv.Version,
	); err != nil {
		return nil, err
	}

	if total.Valid {
		inv.Total = new(total.Decimal)
	}

	return &inv, nil
}

const selectLineItemColumns = `id, invoice_id, booking_id, description, quantity, unit_price, line_total, created_at`

func scanLineItem(s scanner) (*invoice.LineItem, error) {
	var li invoice.LineItem
	if err := s.Scan(
		&li.ID, &li.InvoiceID, &li.BookingID, &li.Description, &li.Quantity, &li.UnitPrice, &li.LineTotal, &li.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &li, nil
}

const selectExpenseEntryColumns = `
	id, invoice_id, organization_id, category, description, amount,
	staff_pay_amount, admin_cost_percent, source_expense_id, created_at
`

func scanExpenseEntry(s scanner) (*invoice.ExpenseEntry, error) {
	var e invoice.ExpenseEntry

	var staffPay, adminPct decimal.NullDecimal

	if err := s.Scan(
		&e.ID, &e.InvoiceID, &e.OrganizationID, &e.Category, &e.Description, &e.Amount,
		&staffPay, &adminPct, &e.SourceExpenseID, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	if staffPay.Valid {
		e.StaffPayAmount = new(staffPay.Decimal)
	}

	if adminPct.Valid {
		e.AdminCostPercent = new(adminPct.Decimal)
	}

	return &e, nil
}

const selectExtraTimeColumns = `
	id, organization_id, staff_id, client_id, booking_id, work_date,
	scheduled_start, scheduled_end, actual_start, actual_end,
	hourly_rate, overtime_rate, extra_minutes, total_cost, invoiced, invoice_id, created_at
`

func scanExtraTime(s scanner) (*invoice.ExtraTimeRecord, error) {
	var r invoice.ExtraTimeRecord
	if err := s.Scan(
		&r.ID, &r.OrganizationID, &r.StaffID, &r.ClientID, &r.BookingID, &r.WorkDate,
		&r.ScheduledStart, &r.ScheduledEnd, &r.ActualStart, &r.ActualEnd,
		&r.HourlyRate, &r.OvertimeRate, &r.ExtraMinutes, &r.TotalCost, &r.Invoiced, &r.InvoiceID, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &r, nil
}

func queryAll[T any](ctx context.Context, q querier, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return out, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (organization_id, client_id, start_date, end_date, total, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, amount, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.OrganizationID,
		inv.ClientID,
		inv.StartDate,
		inv.EndDate,
		inv.Total,
	).Scan(&inv.ID, &inv.Amount, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, orgID, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1 AND organization_id = $2`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE organization_id = $1`

	args := []any{filter.OrganizationID}
	argIdx := 2

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.Locked != nil {
		query += fmt.Sprintf(" AND locked = $%d", argIdx)

		args = append(args, *filter.Locked)
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	invs, err := queryAll(ctx, s.db, scanInvoice, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	return invs, nil
}

func (s *Store) ListLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*invoice.LineItem, error) {
	query := `SELECT ` + selectLineItemColumns + ` FROM invoice_line_items WHERE invoice_id = $1 ORDER BY created_at, id`

	items, err := queryAll(ctx, s.db, scanLineItem, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}

	return items, nil
}

func (s *Store) ListExpenseEntries(ctx context.Context, invoiceID uuid.UUID) ([]*invoice.ExpenseEntry, error) {
	query := `SELECT ` + selectExpenseEntryColumns + ` FROM invoice_expense_entries WHERE invoice_id = $1 ORDER BY created_at, id`

	entries, err := queryAll(ctx, s.db, scanExpenseEntry, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing expense entries: %w", err)
	}

	return entries, nil
}

func (s *Store) ListExtraTime(ctx context.Context, invoiceID uuid.UUID) ([]*invoice.ExtraTimeRecord, error) {
	query := `SELECT ` + selectExtraTimeColumns + ` FROM extra_time_records
		WHERE invoice_id = $1 AND invoiced ORDER BY work_date, id`

	records, err := queryAll(ctx, s.db, scanExtraTime, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing extra time: %w", err)
	}

	return records, nil
}

func (s *Store) ListUninvoicedExtraTime(ctx context.Context, orgID, clientID uuid.UUID) ([]*invoice.ExtraTimeRecord, error) {
	query := `SELECT ` + selectExtraTimeColumns + ` FROM extra_time_records
		WHERE organization_id = $1 AND client_id = $2 AND NOT invoiced ORDER BY work_date, id`

	records, err := queryAll(ctx, s.db, scanExtraTime, query, orgID, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing uninvoiced extra time: %w", err)
	}

	return records, nil
}

func (s *Store) CreateExtraTime(ctx context.Context, r *invoice.ExtraTimeRecord) error {
	query := `
		INSERT INTO extra_time_records (
			organization_id, staff_id, client_id, booking_id, work_date,
			scheduled_start, scheduled_end, actual_start, actual_end,
			hourly_rate, overtime_rate, extra_minutes, total_cost
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.OrganizationID, r.StaffID, r.ClientID, r.BookingID, r.WorkDate,
		r.ScheduledStart, r.ScheduledEnd, r.ActualStart, r.ActualEnd,
		r.HourlyRate, r.OvertimeRate, r.ExtraMinutes, r.TotalCost,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating extra time: %w", err)
	}

	return nil
}

func (s *Store) MarkExpensesInvoiced(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID, invoiceID uuid.UUID) error {
	query := `
		UPDATE expenses
		SET invoiced = TRUE, invoice_id = $1, updated_at = NOW()
		WHERE organization_id = $2 AND id = ANY($3::uuid[])
	`

	if _, err := s.db.ExecContext(ctx, query, invoiceID, orgID, database.UUIDArray(ids)); err != nil {
		return fmt.Errorf("marking expenses invoiced: %w", err)
	}

	return nil
}

// ClearExpenseInvoiced only unflags an expense still billed against invoiceID.
func (s *Store) ClearExpenseInvoiced(ctx context.Context, orgID uuid.UUID, id uuid.UUID, invoiceID uuid.UUID) error {
	query := `
		UPDATE expenses
		SET invoiced = FALSE, invoice_id = NULL, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2 AND invoice_id = $3
	`

	if _, err := s.db.ExecContext(ctx, query, orgID, id, invoiceID); err != nil {
		return fmt.Errorf("clearing expense invoiced flag: %w", err)
	}

	return nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (s *Store) BeginLedger(ctx context.Context) (invoice.LedgerTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

func (ltx *ledgerTx) Commit() error   { return ltx.tx.Commit() }
func (ltx *ledgerTx) Rollback() error { return ltx.tx.Rollback() }

// LockInvoice takes the invoice row lock by bumping its version, so ledgers
// cached under an earlier version are never read again once this commits.
func (ltx *ledgerTx) LockInvoice(ctx context.Context, orgID, id uuid.UUID) (*invoice.Invoice, error) {
	query := `UPDATE invoices SET version = version + 1
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + selectInvoiceColumns

	inv, err := scanInvoice(ltx.tx.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("locking invoice: %w", err)
	}

	return inv, nil
}

func (ltx *ledgerTx) InsertExpenseEntries(ctx context.Context, entries []*invoice.ExpenseEntry) error {
	query := `
		INSERT INTO invoice_expense_entries (
			invoice_id, organization_id, category, description, amount,
			staff_pay_amount, admin_cost_percent, source_expense_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	for _, e := range entries {
		err := ltx.tx.QueryRowContext(ctx, query,
			e.InvoiceID, e.OrganizationID, e.Category, e.Description, e.Amount,
			e.StaffPayAmount, e.AdminCostPercent, e.SourceExpenseID,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting expense entry: %w", err)
		}
	}

	return nil
}

func (ltx *ledgerTx) GetExpenseEntry(ctx context.Context, invoiceID, id uuid.UUID) (*invoice.ExpenseEntry, error) {
	query := `SELECT ` + selectExpenseEntryColumns + ` FROM invoice_expense_entries WHERE id = $1 AND invoice_id = $2`

	e, err := scanExpenseEntry(ltx.tx.QueryRowContext(ctx, query, id, invoiceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrEntryNotFound
		}

		return nil, fmt.Errorf("getting expense entry: %w", err)
	}

	return e, nil
}

func (ltx *ledgerTx) DeleteExpenseEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := ltx.tx.ExecContext(ctx, `DELETE FROM invoice_expense_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting expense entry: %w", err)
	}

	return nil
}

func (ltx *ledgerTx) LockExtraTime(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*invoice.ExtraTimeRecord, error) {
	query := `SELECT ` + selectExtraTimeColumns + ` FROM extra_time_records
		WHERE organization_id = $1 AND id = ANY($2::uuid[])
		ORDER BY id
		FOR UPDATE`

	records, err := queryAll(ctx, ltx.tx, scanExtraTime, query, orgID, database.UUIDArray(ids))
	if err != nil {
		return nil, fmt.Errorf("locking extra time: %w", err)
	}

	return records, nil
}

func (ltx *ledgerTx) LockSourceExpenses(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM expenses
		WHERE organization_id = $1 AND id = ANY($2::uuid[])
		ORDER BY id
		FOR UPDATE`

	rows, err := ltx.tx.QueryContext(ctx, query, orgID, database.UUIDArray(ids))
	if err != nil {
		return nil, fmt.Errorf("locking source expenses: %w", err)
	}
	defer rows.Close()

	var found []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning source expense: %w", err)
		}

		found = append(found, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source expenses: %w", err)
	}

	return found, nil
}

func (ltx *ledgerTx) MarkExtraTimeInvoiced(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	query := `
		UPDATE extra_time_records
		SET invoiced = TRUE, invoice_id = $1
		WHERE id = ANY($2::uuid[]) AND NOT invoiced
	`

	res, err := ltx.tx.ExecContext(ctx, query, invoiceID, database.UUIDArray(ids))
	if err != nil {
		return 0, fmt.Errorf("marking extra time invoiced: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}

	return n, nil
}

func (ltx *ledgerTx) ClearExtraTime(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE extra_time_records SET invoiced = FALSE, invoice_id = NULL WHERE id = $1`

	if _, err := ltx.tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("clearing extra time: %w", err)
	}

	return nil
}

func (ltx *ledgerTx) GenerateLedger(ctx context.Context, inv *invoice.Invoice) (int, error) {
	var added int

	err := ltx.tx.QueryRowContext(ctx,
		`SELECT generate_invoice_ledger($1, $2, $3, $4)`,
		inv.ID, inv.ClientID, inv.StartDate, inv.EndDate,
	).Scan(&added)
	if err != nil {
		return 0, fmt.Errorf("calling generate_invoice_ledger: %w", err)
	}

	return added, nil
}

func (ltx *ledgerTx) SumLedger(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(line_total), 0) FROM invoice_line_items WHERE invoice_id = $1)
			+ (SELECT COALESCE(SUM(amount), 0) FROM invoice_expense_entries WHERE invoice_id = $1)
			+ (SELECT COALESCE(SUM(total_cost), 0) FROM extra_time_records WHERE invoice_id = $1 AND invoiced)
	`

	var total decimal.Decimal
	if err := ltx.tx.QueryRowContext(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing ledger: %w", err)
	}

	return total, nil
}

func (ltx *ledgerTx) SetTotal(ctx context.Context, invoiceID uuid.UUID, total decimal.Decimal) error {
	query := `UPDATE invoices SET total = $1, updated_at = NOW() WHERE id = $2`

	if _, err := ltx.tx.ExecContext(ctx, query, total, invoiceID); err != nil {
		return fmt.Errorf("setting invoice total: %w", err)
	}

	return nil
}

func (ltx *ledgerTx) SetLocked(ctx context.Context, invoiceID, lockedBy uuid.UUID, at time.Time) error {
	query := `UPDATE invoices SET locked = TRUE, locked_at = $1, locked_by = $2, updated_at = NOW() WHERE id = $3`

	if _, err := ltx.tx.ExecContext(ctx, query, at, lockedBy, invoiceID); err != nil {
		return fmt.Errorf("locking invoice: %w", err)
	}

	return nil
}

func (ltx *ledgerTx) ClearLock(ctx context.Context, invoiceID uuid.UUID) error {
	query := `UPDATE invoices SET locked = FALSE, locked_at = NULL, locked_by = NULL, updated_at = NOW() WHERE id = $1`

	if _, err := ltx.tx.ExecContext(ctx, query, invoiceID); err != nil {
		return fmt.Errorf("unlocking invoice: %w", err)
	}

	return nil
}
