package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/booking"
	"github.com/MrJamesThe3rd/careledger/internal/booking/store"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

var bookingColumns = []string{
	"id", "organization_id", "branch_id", "client_id", "staff_id", "start_time", "end_time", "status",
	"late_start", "missed", "cancellation_request_status", "reschedule_request_status",
	"alert_sent_at", "created_at", "updated_at",
}

func newMock(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_GetBooking_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("FROM bookings WHERE id = \\$1 AND organization_id = \\$2").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := s.GetBooking(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestStore_ListChangeRequests_StatusFilter(t *testing.T) {
	s, mock := newMock(t)

	orgID := uuid.New()
	pending := booking.RequestPending

	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_change_requests WHERE organization_id = $1 AND status = $2 ORDER BY created_at, id")).
		WithArgs(orgID, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := s.ListChangeRequests(context.Background(), booking.RequestFilter{OrganizationID: orgID, Status: &pending})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewTx_CancellationApproval(t *testing.T) {
	s, mock := newMock(t)

	orgID, bookingID, clientID := uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2025, 5, 28, 9, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id = \\$1 AND organization_id = \\$2 FOR UPDATE").
		WithArgs(bookingID, orgID).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
			bookingID.String(), orgID.String(), uuid.NewString(), clientID.String(), nil, start, start.Add(time.Hour), "scheduled",
			false, false, "pending", nil,
			nil, now, nil,
		))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(nil, start, start.Add(time.Hour), "cancelled", false, false, "approved", nil, nil, bookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(sqlmock.AnyArg(), orgID, "notification", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()

	rtx, err := s.BeginReview(ctx)
	require.NoError(t, err)

	b, err := rtx.LockBooking(ctx, orgID, bookingID)
	require.NoError(t, err)
	require.NotNil(t, b.CancellationRequestStatus)
	assert.Equal(t, booking.RequestPending, *b.CancellationRequestStatus)
	assert.Nil(t, b.StaffID)

	approved := booking.RequestApproved
	b.Status = booking.StatusCancelled
	b.CancellationRequestStatus = &approved

	require.NoError(t, rtx.UpdateBooking(ctx, b))
	require.NoError(t, rtx.Enqueue(ctx, notification.Event{
		OrganizationID: orgID,
		Type:           "booking_change_approved",
		Priority:       notification.PriorityHigh,
		Title:          "Visit cancelled",
		Audience:       notification.ToClient(clientID),
	}))
	require.NoError(t, rtx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewTx_LockChangeRequest_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM booking_change_requests").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	ctx := context.Background()

	rtx, err := s.BeginReview(ctx)
	require.NoError(t, err)

	_, err = rtx.LockChangeRequest(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, booking.ErrRequestNotFound)
	require.NoError(t, rtx.Rollback())
}

func TestReviewTx_ClaimOverdueBookings(t *testing.T) {
	s, mock := newMock(t)

	now := time.Now()
	cutoff := now.Add(-15 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 FOR UPDATE SKIP LOCKED")).
		WithArgs(cutoff, now, 200).
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectRollback()

	ctx := context.Background()

	rtx, err := s.BeginReview(ctx)
	require.NoError(t, err)

	got, err := rtx.ClaimOverdueBookings(ctx, cutoff, now, 200)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, rtx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewTx_IsActiveCarer(t *testing.T) {
	s, mock := newMock(t)

	orgID, branchID, userID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("u.role = 'carer' AND u.active AND a.disabled_at IS NULL")).
		WithArgs(userID, orgID, branchID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	rtx, err := s.BeginReview(context.Background())
	require.NoError(t, err)

	ok, err := rtx.IsActiveCarer(context.Background(), orgID, branchID, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rtx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
