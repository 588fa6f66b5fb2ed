package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/invoice"
	"github.com/MrJamesThe3rd/careledger/internal/invoice/store"
)

var invoiceColumns = []string{
	"id", "organization_id", "client_id", "start_date", "end_date", "total", "amount",
	"locked", "locked_at", "locked_by", "created_at", "updated_at", "version",
}

func newMock(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_GetInvoice(t *testing.T) {
	s, mock := newMock(t)

	id, orgID, clientID := uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE id = \\$1 AND organization_id = \\$2").
		WithArgs(id, orgID).
		WillReturnRows(sqlmock.NewRows(invoiceColumns).AddRow(
			id.String(), orgID.String(), clientID.String(), start, start.AddDate(0, 1, -1), nil, "42.00",
			false, nil, nil, now, nil, int64(3),
		))

	inv, err := s.GetInvoice(context.Background(), orgID, id)
	require.NoError(t, err)

	assert.Equal(t, id, inv.ID)
	assert.Equal(t, clientID, inv.ClientID)
	assert.Nil(t, inv.Total)
	assert.True(t, decimal.RequireFromString("42.00").Equal(inv.CurrentTotal()))
	assert.Nil(t, inv.LockedBy)
	assert.Equal(t, int64(3), inv.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetInvoice_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	_, err := s.GetInvoice(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}

func TestStore_ListInvoices_Filters(t *testing.T) {
	s, mock := newMock(t)

	orgID, clientID := uuid.New(), uuid.New()
	locked := true

	mock.ExpectQuery("WHERE organization_id = \\$1 AND client_id = \\$2 AND locked = \\$3 ORDER BY").
		WithArgs(orgID, clientID, true).
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	got, err := s.ListInvoices(context.Background(), invoice.ListFilter{
		OrganizationID: orgID,
		ClientID:       &clientID,
		Locked:         &locked,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_MarkExpensesInvoiced_ScopedToOrganization(t *testing.T) {
	s, mock := newMock(t)

	invoiceID, orgID := uuid.New(), uuid.New()
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	mock.ExpectExec(regexp.QuoteMeta("WHERE organization_id = $2 AND id = ANY($3::uuid[])")).
		WithArgs(invoiceID, orgID, "{11111111-1111-1111-1111-111111111111}").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.MarkExpensesInvoiced(context.Background(), orgID, []uuid.UUID{a}, invoiceID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ClearExpenseInvoiced_OnlyThisInvoice(t *testing.T) {
	s, mock := newMock(t)

	invoiceID, orgID, expenseID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("WHERE organization_id = $1 AND id = $2 AND invoice_id = $3")).
		WithArgs(orgID, expenseID, invoiceID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.ClearExpenseInvoiced(context.Background(), orgID, expenseID, invoiceID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerTx_LockSourceExpenses(t *testing.T) {
	s, mock := newMock(t)

	orgID := uuid.New()
	own := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	foreign := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE organization_id = $1 AND id = ANY($2::uuid[])")).
		WithArgs(orgID, "{22222222-2222-2222-2222-222222222222,33333333-3333-3333-3333-333333333333}").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(own.String()))
	mock.ExpectRollback()

	ltx, err := s.BeginLedger(context.Background())
	require.NoError(t, err)

	found, err := ltx.LockSourceExpenses(context.Background(), orgID, []uuid.UUID{own, foreign})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{own}, found)

	require.NoError(t, ltx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerTx_AttachFlow(t *testing.T) {
	s, mock := newMock(t)

	id, orgID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invoices SET version = version + 1")).
		WithArgs(id, orgID).
		WillReturnRows(sqlmock.NewRows(invoiceColumns).AddRow(
			id.String(), orgID.String(), uuid.NewString(), now, now, "100.00", "0",
			false, nil, nil, now, nil, int64(3),
		))
	mock.ExpectQuery("INSERT INTO invoice_expense_entries").
		WithArgs(id, orgID, "mileage", "", decimal.RequireFromString("25.50"), nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.NewString(), now))
	mock.ExpectExec("UPDATE invoices SET total = \\$1").
		WithArgs(decimal.RequireFromString("125.50"), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()

	ltx, err := s.BeginLedger(ctx)
	require.NoError(t, err)

	inv, err := ltx.LockInvoice(ctx, orgID, id)
	require.NoError(t, err)
	require.NotNil(t, inv.Total)

	entries := []*invoice.ExpenseEntry{{
		InvoiceID:      id,
		OrganizationID: orgID,
		Category:       "mileage",
		Amount:         decimal.RequireFromString("25.50"),
	}}
	require.NoError(t, ltx.InsertExpenseEntries(ctx, entries))
	assert.NotEqual(t, uuid.Nil, entries[0].ID)

	require.NoError(t, ltx.SetTotal(ctx, id, inv.CurrentTotal().Add(entries[0].Amount)))
	require.NoError(t, ltx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerTx_MarkExtraTimeInvoiced_OnlyPendingRows(t *testing.T) {
	s, mock := newMock(t)

	invoiceID := uuid.New()
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ANY($2::uuid[]) AND NOT invoiced")).
		WithArgs(invoiceID, "{11111111-1111-1111-1111-111111111111,22222222-2222-2222-2222-222222222222}").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	ctx := context.Background()

	ltx, err := s.BeginLedger(ctx)
	require.NoError(t, err)

	n, err := ltx.MarkExtraTimeInvoiced(ctx, []uuid.UUID{a, b}, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, ltx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerTx_GetExpenseEntry_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM invoice_expense_entries WHERE id = \\$1 AND invoice_id = \\$2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	ctx := context.Background()

	ltx, err := s.BeginLedger(ctx)
	require.NoError(t, err)

	_, err = ltx.GetExpenseEntry(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, invoice.ErrEntryNotFound)

	require.NoError(t, ltx.Rollback())
}

func TestLedgerTx_SumLedger(t *testing.T) {
	s, mock := newMock(t)

	invoiceID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("COALESCE\\(SUM\\(line_total\\), 0\\)").
		WithArgs(invoiceID).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("154.00"))
	mock.ExpectRollback()

	ctx := context.Background()

	ltx, err := s.BeginLedger(ctx)
	require.NoError(t, err)

	total, err := ltx.SumLedger(ctx, invoiceID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("154").Equal(total))

	require.NoError(t, ltx.Rollback())
}

func TestLedgerTx_GenerateLedger(t *testing.T) {
	s, mock := newMock(t)

	inv := &invoice.Invoice{
		ID:        uuid.New(),
		ClientID:  uuid.New(),
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT generate_invoice_ledger($1, $2, $3, $4)")).
		WithArgs(inv.ID, inv.ClientID, inv.StartDate, inv.EndDate).
		WillReturnRows(sqlmock.NewRows([]string{"generate_invoice_ledger"}).AddRow(4))
	mock.ExpectRollback()

	ctx := context.Background()

	ltx, err := s.BeginLedger(ctx)
	require.NoError(t, err)

	added, err := ltx.GenerateLedger(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, 4, added)

	require.NoError(t, ltx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
