package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/booking"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
	"github.com/MrJamesThe3rd/careledger/internal/outbox"
	outboxstore "github.com/MrJamesThe3rd/careledger/internal/outbox/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectBookingColumns = `
	id, organization_id, branch_id, client_id, staff_id, start_time, end_time, status,
	late_start, missed, cancellation_request_status, reschedule_request_status,
	alert_sent_at, created_at, updated_at
`

func scanBooking(s scanner) (*booking.Booking, error) {
	var b booking.Booking
	if err := s.Scan(
		&b.ID, &b.OrganizationID, &b.BranchID, &b.ClientID, &b.StaffID, &b.StartTime, &b.EndTime, &b.Status,
		&b.LateStart, &b.Missed, &b.CancellationRequestStatus, &b.RescheduleRequestStatus,
		&b.AlertSentAt, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &b, nil
}

const selectChangeRequestColumns = `
	id, organization_id, booking_id, client_id, requested_by, type, status, reason, admin_notes,
	new_date, new_time, reviewed_by, reviewed_at, created_at
`

func scanChangeRequest(s scanner) (*booking.ChangeRequest, error) {
	var r booking.ChangeRequest
	if err := s.Scan(
		&r.ID, &r.OrganizationID, &r.BookingID, &r.ClientID, &r.RequestedBy, &r.Type, &r.Status, &r.Reason, &r.AdminNotes,
		&r.NewDate, &r.NewTime, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &r, nil
}

const selectUnavailabilityColumns = `
	id, organization_id, booking_id, staff_id, reason, notes, status, admin_notes,
	reviewed_by, reviewed_at, new_staff_id, reassigned_at, created_at
`

func scanUnavailability(s scanner) (*booking.UnavailabilityRequest, error) {
	var r booking.UnavailabilityRequest
	if err := s.Scan(
		&r.ID, &r.OrganizationID, &r.BookingID, &r.StaffID, &r.Reason, &r.Notes, &r.Status, &r.AdminNotes,
		&r.ReviewedBy, &r.ReviewedAt, &r.NewStaffID, &r.ReassignedAt, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &r, nil
}

func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
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

func (s *Store) GetBooking(ctx context.Context, orgID, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE id = $1 AND organization_id = $2`

	b, err := scanBooking(s.db.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}

		return nil, fmt.Errorf("getting booking: %w", err)
	}

	return b, nil
}

func (s *Store) ListBookings(ctx context.Context, filter booking.BookingFilter) ([]*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE organization_id = $1`

	args := []any{filter.OrganizationID}
	argIdx := 2

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.StaffID != nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argIdx)

		args = append(args, *filter.StaffID)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND start_time >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND start_time < $%d", argIdx)

		args = append(args, *filter.To)
	}

	query += " ORDER BY start_time, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}

	return collect(rows, scanBooking)
}

func (s *Store) ListChangeRequests(ctx context.Context, filter booking.RequestFilter) ([]*booking.ChangeRequest, error) {
	query := `SELECT ` + selectChangeRequestColumns + ` FROM booking_change_requests WHERE organization_id = $1`
	args := []any{filter.OrganizationID}

	if filter.Status != nil {
		query += " AND status = $2"

		args = append(args, string(*filter.Status))
	}

	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing change requests: %w", err)
	}

	return collect(rows, scanChangeRequest)
}

func (s *Store) ListUnavailability(ctx context.Context, filter booking.RequestFilter) ([]*booking.UnavailabilityRequest, error) {
	query := `SELECT ` + selectUnavailabilityColumns + ` FROM unavailability_requests WHERE organization_id = $1`
	args := []any{filter.OrganizationID}

	if filter.Status != nil {
		query += " AND status = $2"

		args = append(args, string(*filter.Status))
	}

	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing unavailability requests: %w", err)
	}

	return collect(rows, scanUnavailability)
}

type reviewTx struct {
	tx *sql.Tx
}

func (s *Store) BeginReview(ctx context.Context) (booking.ReviewTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning review tx: %w", err)
	}

	return &reviewTx{tx: dbTx}, nil
}

func (r *reviewTx) Commit() error   { return r.tx.Commit() }
func (r *reviewTx) Rollback() error { return r.tx.Rollback() }

func (r *reviewTx) LockBooking(ctx context.Context, orgID, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE id = $1 AND organization_id = $2 FOR UPDATE`

	b, err := scanBooking(r.tx.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}

		return nil, fmt.Errorf("locking booking: %w", err)
	}

	return b, nil
}

func (r *reviewTx) UpdateBooking(ctx context.Context, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET staff_id = $1, start_time = $2, end_time = $3, status = $4, late_start = $5, missed = $6,
			cancellation_request_status = $7, reschedule_request_status = $8, alert_sent_at = $9,
			updated_at = NOW()
		WHERE id = $10
	`

	_, err := r.tx.ExecContext(ctx, query,
		b.StaffID, b.StartTime, b.EndTime, string(b.Status), b.LateStart, b.Missed,
		b.CancellationRequestStatus, b.RescheduleRequestStatus, b.AlertSentAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating booking: %w", err)
	}

	return nil
}

func (r *reviewTx) InsertChangeRequest(ctx context.Context, req *booking.ChangeRequest) error {
	query := `
		INSERT INTO booking_change_requests (
			organization_id, booking_id, client_id, requested_by, type, status, reason, new_date, new_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.tx.QueryRowContext(ctx, query,
		req.OrganizationID, req.BookingID, req.ClientID, req.RequestedBy,
		string(req.Type), string(req.Status), req.Reason, req.NewDate, req.NewTime,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting change request: %w", err)
	}

	return nil
}

func (r *reviewTx) LockChangeRequest(ctx context.Context, orgID, id uuid.UUID) (*booking.ChangeRequest, error) {
	query := `SELECT ` + selectChangeRequestColumns + ` FROM booking_change_requests
		WHERE id = $1 AND organization_id = $2 FOR UPDATE`

	req, err := scanChangeRequest(r.tx.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRequestNotFound
		}

		return nil, fmt.Errorf("locking change request: %w", err)
	}

	return req, nil
}

func (r *reviewTx) ResolveChangeRequest(ctx context.Context, req *booking.ChangeRequest) error {
	query := `
		UPDATE booking_change_requests
		SET status = $1, admin_notes = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $5
	`

	if _, err := r.tx.ExecContext(ctx, query, string(req.Status), req.AdminNotes, req.ReviewedBy, req.ReviewedAt, req.ID); err != nil {
		return fmt.Errorf("resolving change request: %w", err)
	}

	return nil
}

func (r *reviewTx) InsertUnavailability(ctx context.Context, req *booking.UnavailabilityRequest) error {
	query := `
		INSERT INTO unavailability_requests (organization_id, booking_id, staff_id, reason, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.tx.QueryRowContext(ctx, query,
		req.OrganizationID, req.BookingID, req.StaffID, req.Reason, req.Notes, string(req.Status),
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting unavailability request: %w", err)
	}

	return nil
}

func (r *reviewTx) LockUnavailability(ctx context.Context, orgID, id uuid.UUID) (*booking.UnavailabilityRequest, error) {
	query := `SELECT ` + selectUnavailabilityColumns + ` FROM unavailability_requests
		WHERE id = $1 AND organization_id = $2 FOR UPDATE`

	req, err := scanUnavailability(r.tx.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRequestNotFound
		}

		return nil, fmt.Errorf("locking unavailability request: %w", err)
	}

	return req, nil
}

func (r *reviewTx) ResolveUnavailability(ctx context.Context, req *booking.UnavailabilityRequest) error {
	query := `
		UPDATE unavailability_requests
		SET status = $1, admin_notes = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $5
	`

	if _, err := r.tx.ExecContext(ctx, query, string(req.Status), req.AdminNotes, req.ReviewedBy, req.ReviewedAt, req.ID); err != nil {
		return fmt.Errorf("resolving unavailability request: %w", err)
	}

	return nil
}

func (r *reviewTx) MarkReassigned(ctx context.Context, req *booking.UnavailabilityRequest) error {
	query := `
		UPDATE unavailability_requests
		SET status = $1, new_staff_id = $2, reassigned_at = $3
		WHERE id = $4
	`

	if _, err := r.tx.ExecContext(ctx, query, string(req.Status), req.NewStaffID, req.ReassignedAt, req.ID); err != nil {
		return fmt.Errorf("marking request reassigned: %w", err)
	}

	return nil
}

func (r *reviewTx) IsActiveCarer(ctx context.Context, orgID, branchID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users u
			JOIN accounts a ON a.id = u.id
			WHERE u.id = $1 AND u.organization_id = $2 AND u.branch_id = $3
			  AND u.role = 'carer' AND u.active AND a.disabled_at IS NULL
		)
	`

	var ok bool
	if err := r.tx.QueryRowContext(ctx, query, userID, orgID, branchID).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking carer: %w", err)
	}

	return ok, nil
}

// ClaimOverdueBookings locks scheduled visits that are due a late-start alert
// (never alerted, started before lateCutoff) or a missed alert (ended by now).
// Rows locked by a concurrent run are skipped.
func (r *reviewTx) ClaimOverdueBookings(ctx context.Context, lateCutoff, now time.Time, limit int) ([]*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings
		WHERE status = 'scheduled'
		  AND ((alert_sent_at IS NULL AND start_time <= $1) OR (NOT missed AND end_time <= $2))
		ORDER BY start_time, id
		LIMIT $3
		FOR UPDATE SKIP LOCKED`

	rows, err := r.tx.QueryContext(ctx, query, lateCutoff, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claiming overdue bookings: %w", err)
	}

	return collect(rows, scanBooking)
}

func (r *reviewTx) Enqueue(ctx context.Context, ev notification.Event) error {
	e, err := outbox.NewNotification(ev)
	if err != nil {
		return err
	}

	return outboxstore.Enqueue(ctx, r.tx, e)
}
