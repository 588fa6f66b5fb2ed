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

	"github.com/MrJamesThe3rd/careledger/internal/expense"
	"github.com/MrJamesThe3rd/careledger/internal/expense/store"
)

var expenseColumns = []string{
	"id", "organization_id", "branch_id", "staff_id", "category", "description", "raw_description",
	"amount", "incurred_on", "invoiced", "invoice_id", "created_at", "updated_at",
}

func newMock(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_GetExpense(t *testing.T) {
	s, mock := newMock(t)

	id, orgID, branchID := uuid.New(), uuid.New(), uuid.New()
	day := time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM expenses WHERE id = \\$1 AND organization_id = \\$2").
		WithArgs(id, orgID).
		WillReturnRows(sqlmock.NewRows(expenseColumns).AddRow(
			id.String(), orgID.String(), branchID.String(), nil, "travel", "Taxi", "UBER TRIP",
			"15.40", day, false, nil, day, nil,
		))

	got, err := s.GetExpense(context.Background(), orgID, id)
	require.NoError(t, err)
	assert.Equal(t, "travel", got.Category)
	assert.Nil(t, got.StaffID)
	assert.True(t, decimal.RequireFromString("15.40").Equal(got.Amount))
}

func TestStore_GetExpense_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("FROM expenses").WillReturnRows(sqlmock.NewRows(expenseColumns))

	_, err := s.GetExpense(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, expense.ErrNotFound)
}

func TestStore_ListExpenses_Filters(t *testing.T) {
	s, mock := newMock(t)

	orgID, staffID := uuid.New(), uuid.New()
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE organization_id = $1 AND NOT invoiced AND staff_id = $2 AND incurred_on >= $3 ORDER BY incurred_on, created_at")).
		WithArgs(orgID, staffID, start).
		WillReturnRows(sqlmock.NewRows(expenseColumns))

	got, err := s.ListExpenses(context.Background(), expense.ListFilter{
		OrganizationID: orgID,
		Uninvoiced:     true,
		StaffID:        &staffID,
		StartDate:      &start,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteExpense_InvoicedIsNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("DELETE FROM expenses WHERE id = \\$1 AND organization_id = \\$2 AND NOT invoiced").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteExpense(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, expense.ErrNotFound)
}

func TestImportTx_FindDuplicatesAndCreate(t *testing.T) {
	s, mock := newMock(t)

	orgID, branchID := uuid.New(), uuid.New()
	day := time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC)
	existingID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE organization_id = $1 AND incurred_on >= $2 AND incurred_on <= $3")).
		WithArgs(orgID, day, day).
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(existingID.String(), orgID.String(), branchID.String(), nil, "food", "Coffee", "COFFEE SHOP",
				"3.2", day, false, nil, day, nil).
			AddRow(uuid.NewString(), orgID.String(), branchID.String(), nil, "food", "Other", "OTHER",
				"3.20", day, false, nil, day, nil))
	mock.ExpectQuery("INSERT INTO expenses").
		WithArgs(orgID, branchID, nil, "food", "Lunch", "LUNCH", "11", day).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.NewString(), day))
	mock.ExpectCommit()

	ctx := context.Background()

	itx, err := s.BeginImport(ctx, orgID, day, day)
	require.NoError(t, err)

	dups, err := itx.FindDuplicates(ctx, []expense.CreateParams{
		{RawDescription: "COFFEE SHOP", Amount: decimal.RequireFromString("3.20"), IncurredOn: day},
	})
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, existingID, dups[0].ID)

	e := &expense.Expense{
		OrganizationID: orgID,
		BranchID:       branchID,
		Category:       "food",
		Description:    "Lunch",
		RawDescription: "LUNCH",
		Amount:         decimal.NewFromInt(11),
		IncurredOn:     day,
	}
	require.NoError(t, itx.CreateExpenses(ctx, []*expense.Expense{e}))
	assert.NotEqual(t, uuid.Nil, e.ID)

	require.NoError(t, itx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
