package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/expense"
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

const selectExpenseColumns = `
	id, organization_id, branch_id, staff_id, category, description, raw_description,
	amount, incurred_on, invoiced, invoice_id, created_at, updated_at
`

func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	if err := s.Scan(
		&e.ID, &e.OrganizationID, &e.BranchID, &e.StaffID, &e.Category, &e.Description, &e.RawDescription,
		&e.Amount, &e.IncurredOn, &e.Invoiced, &e.InvoiceID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

func collect(rows *sql.Rows) ([]*expense.Expense, error) {
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

const insertExpense = `
	INSERT INTO expenses (organization_id, branch_id, staff_id, category, description, raw_description, amount, incurred_on)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q queryRower, e *expense.Expense) error {
	err := q.QueryRowContext(ctx, insertExpense,
		e.OrganizationID,
		e.BranchID,
		e.StaffID,
		e.Category,
		e.Description,
		e.RawDescription,
		e.Amount,
		e.IncurredOn,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	return insert(ctx, s.db, e)
}

func (s *Store) GetExpense(ctx context.Context, orgID, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE id = $1 AND organization_id = $2`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE organization_id = $1`

	args := []any{filter.OrganizationID}
	argIdx := 2

	if filter.Uninvoiced {
		query += " AND NOT invoiced"
	}

	if filter.StaffID != nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argIdx)

		args = append(args, *filter.StaffID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND incurred_on >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND incurred_on <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY incurred_on, created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return collect(rows)
}

// DeleteExpense removes an expense that has not been invoiced.
func (s *Store) DeleteExpense(ctx context.Context, orgID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1 AND organization_id = $2 AND NOT invoiced`, id, orgID)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func importLockKey(orgID uuid.UUID, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write(orgID[:])
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx    *sql.Tx
	orgID uuid.UUID
}

func (s *Store) BeginImport(ctx context.Context, orgID uuid.UUID, minDate, maxDate time.Time) (expense.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(orgID, minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, orgID: orgID}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

// FindDuplicates returns stored expenses in the params' date range that match
// an incoming row on date, amount and raw description.
func (itx *importTx) FindDuplicates(ctx context.Context, params []expense.CreateParams) ([]*expense.Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date           string
		Amount         string
		RawDescription string
	}

	minDate := params[0].IncurredOn
	maxDate := params[0].IncurredOn
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.IncurredOn.Before(minDate) {
			minDate = p.IncurredOn
		}

		if p.IncurredOn.After(maxDate) {
			maxDate = p.IncurredOn
		}

		keySet[lookupKey{
			Date:           p.IncurredOn.Format(time.DateOnly),
			Amount:         p.Amount.StringFixed(2),
			RawDescription: p.RawDescription,
		}] = struct{}{}
	}

	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE organization_id = $1 AND incurred_on >= $2 AND incurred_on <= $3
		ORDER BY incurred_on`

	rows, err := itx.tx.QueryContext(ctx, query, itx.orgID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	existing, err := collect(rows)
	if err != nil {
		return nil, err
	}

	var duplicates []*expense.Expense

	for _, e := range existing {
		k := lookupKey{
			Date:           e.IncurredOn.Format(time.DateOnly),
			Amount:         e.Amount.StringFixed(2),
			RawDescription: e.RawDescription,
		}

		if _, found := keySet[k]; found {
			duplicates = append(duplicates, e)
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateExpenses(ctx context.Context, expenses []*expense.Expense) error {
	for _, e := range expenses {
		if err := insert(ctx, itx.tx, e); err != nil {
			return err
		}
	}

	return nil
}
