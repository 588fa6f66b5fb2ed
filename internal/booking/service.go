package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/metrics"
	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=booking
type Repository interface {
	GetBooking(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error)
	ListChangeRequests(ctx context.Context, filter RequestFilter) ([]*ChangeRequest, error)
	ListUnavailability(ctx context.Context, filter RequestFilter) ([]*UnavailabilityRequest, error)

	BeginReview(ctx context.Context) (ReviewTx, error)
}

// ReviewTx applies one workflow step atomically. Lock* methods hold the row
// until Commit or Rollback; Enqueue writes a notification to the outbox in the
// same transaction.
type ReviewTx interface {
	LockBooking(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*Booking, error)
	UpdateBooking(ctx context.Context, b *Booking) error
	InsertChangeRequest(ctx context.Context, req *ChangeRequest) error
	LockChangeRequest(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*ChangeRequest, error)
	ResolveChangeRequest(ctx context.Context, req *ChangeRequest) error
	InsertUnavailability(ctx context.Context, req *UnavailabilityRequest) error
	LockUnavailability(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*UnavailabilityRequest, error)
	ResolveUnavailability(ctx context.Context, req *UnavailabilityRequest) error
	MarkReassigned(ctx context.Context, req *UnavailabilityRequest) error
	IsActiveCarer(ctx context.Context, orgID, branchID, userID uuid.UUID) (bool, error)
	ClaimOverdueBookings(ctx context.Context, lateCutoff time.Time, now time.Time, limit int) ([]*Booking, error)
	Enqueue(ctx context.Context, ev notification.Event) error
	Commit() error
	Rollback() error
}

type BookingFilter struct {
	OrganizationID uuid.UUID
	ClientID       *uuid.UUID
	StaffID        *uuid.UUID
	From           *time.Time
	To             *time.Time
}

type RequestFilter struct {
	OrganizationID uuid.UUID
	Status         *RequestStatus
}

const alertBatchSize = 200

type Service struct {
	repo      Repository
	loc       *time.Location
	lateGrace time.Duration
	now       func() time.Time
}

// NewService builds the workflow service. loc is the zone reschedule dates and
// times are entered in; lateGrace is how long after its start a visit may go
// unstarted before it is flagged late.
func NewService(repo Repository, loc *time.Location, lateGrace time.Duration) *Service {
	return &Service{repo: repo, loc: loc, lateGrace: lateGrace, now: time.Now}
}

func (s *Service) GetBooking(ctx context.Context, orgID, id uuid.UUID) (*Booking, error) {
	return s.repo.GetBooking(ctx, orgID, id)
}

func (s *Service) ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error) {
	return s.repo.ListBookings(ctx, filter)
}

func (s *Service) ListChangeRequests(ctx context.Context, filter RequestFilter) ([]*ChangeRequest, error) {
	return s.repo.ListChangeRequests(ctx, filter)
}

func (s *Service) ListUnavailability(ctx context.Context, filter RequestFilter) ([]*UnavailabilityRequest, error) {
	return s.repo.ListUnavailability(ctx, filter)
}

// local returns a copy of b with times in the scheduling zone, for messages.
func (s *Service) local(b *Booking) *Booking {
	c := *b
	c.StartTime = b.StartTime.In(s.loc)
	c.EndTime = b.EndTime.In(s.loc)

	return &c
}

func (s *Service) begin(ctx context.Context) (ReviewTx, error) {
	rtx, err := s.repo.BeginReview(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin review: %w", err)
	}

	return rtx, nil
}

// SubmitChangeParams describes a change request. When ClientID is set the
// booking must belong to that client.
type SubmitChangeParams struct {
	OrganizationID uuid.UUID
	ClientID       *uuid.UUID
	BookingID      uuid.UUID
	RequestedBy    uuid.UUID
	Type           RequestType
	Reason         string
	NewDate        *string
	NewTime        *string
}

func (s *Service) validateReschedule(date, clock *string) (time.Time, error) {
	if date == nil || *date == "" || clock == nil || *clock == "" {
		return time.Time{}, &ValidationError{Field: "new_date", Reason: "reschedule requires new_date and new_time"}
	}

	start, err := ComposeStart(*date, *clock, s.loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "new_date", Reason: "expected YYYY-MM-DD and HH:MM"}
	}

	return start, nil
}

// SubmitChangeRequest records a client's cancellation or reschedule request
// against a scheduled visit and alerts the branch admins.
func (s *Service) SubmitChangeRequest(ctx context.Context, params SubmitChangeParams) (_ *ChangeRequest, err error) {
	defer func() { metrics.ObserveWorkflow("booking_submit_change", err) }()

	switch params.Type {
	case RequestCancellation:
	case RequestReschedule:
		if _, err := s.validateReschedule(params.NewDate, params.NewTime); err != nil {
			return nil, err
		}
	default:
		return nil, &ValidationError{Field: "type", Reason: "must be cancellation or reschedule"}
	}

	rtx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rtx.Rollback()

	b, err := rtx.LockBooking(ctx, params.OrganizationID, params.BookingID)
	if err != nil {
		return nil, err
	}

	if params.ClientID != nil && b.ClientID != *params.ClientID {
		return nil, ErrNotFound
	}

	if b.Status != StatusScheduled {
		return nil, ErrNotScheduled
	}

	req := &ChangeRequest{
		OrganizationID: b.OrganizationID,
		BookingID:      b.ID,
		ClientID:       b.ClientID,
		RequestedBy:    params.RequestedBy,
		Type:           params.Type,
		Status:         RequestPending,
		Reason:         params.Reason,
		NewDate:        params.NewDate,
		NewTime:        params.NewTime,
	}

	if err := rtx.InsertChangeRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("insert change request: %w", err)
	}

	b.setRequestStatus(req.Type, RequestPending)

	if err := rtx.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if err := rtx.Enqueue(ctx, changeRequestSubmitted(req, s.local(b))); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit change request: %w", err)
	}

	return req, nil
}

type ReviewParams struct {
	OrganizationID uuid.UUID
	RequestID      uuid.UUID
	ReviewerID     uuid.UUID
	Decision       Decision
	AdminNotes     string
}

type ReviewResult struct {
	Request *ChangeRequest `json:"request"`
	Booking *Booking       `json:"booking"`
}

// ReviewChangeRequest approves or rejects a pending change request. The request,
// the booking and the client's notification are written in one transaction.
func (s *Service) ReviewChangeRequest(ctx context.Context, params ReviewParams) (_ *ReviewResult, err error) {
	defer func() { metrics.ObserveWorkflow("booking_review_change", err) }()

	if !params.Decision.Valid() {
		return nil, &ValidationError{Field: "decision", Reason: "must be approved or rejected"}
	}

	rtx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rtx.Rollback()

	req, err := rtx.LockChangeRequest(ctx, params.OrganizationID, params.RequestID)
	if err != nil {
		return nil, err
	}

	if req.Status != RequestPending {
		return nil, ErrAlreadyResolved
	}

	b, err := rtx.LockBooking(ctx, req.OrganizationID, req.BookingID)
	if err != nil {
		return nil, err
	}

	if params.Decision == Approve {
		// Completed, missed or cancelled visits are final.
		if b.Status != StatusScheduled {
			return nil, ErrNotScheduled
		}

		switch req.Type {
		case RequestCancellation:
			b.Status = StatusCancelled
		case RequestReschedule:
			start, err := s.validateReschedule(req.NewDate, req.NewTime)
			if err != nil {
				return nil, err
			}

			duration := b.Duration()
			b.StartTime = start
			b.EndTime = start.Add(duration)

			// Alerts belong to the old slot.
			b.LateStart = false
			b.Missed = false
			b.AlertSentAt = nil
		}
	}

	now := s.now()

	req.Status = RequestStatus(params.Decision)
	req.AdminNotes = params.AdminNotes
	req.ReviewedBy = &params.ReviewerID
	req.ReviewedAt = &now

	b.setRequestStatus(req.Type, req.Status)

	if err := rtx.ResolveChangeRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("resolve change request: %w", err)
	}

	if err := rtx.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if err := rtx.Enqueue(ctx, changeRequestResolved(req, s.local(b))); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit review: %w", err)
	}

	return &ReviewResult{Request: req, Booking: b}, nil
}

type ReportUnavailabilityParams struct {
	OrganizationID uuid.UUID
	BookingID      uuid.UUID
	StaffID        uuid.UUID
	Reason         string
	Notes          string
}

// ReportUnavailability records that the assigned carer cannot attend a visit.
func (s *Service) ReportUnavailability(ctx context.Context, params ReportUnavailabilityParams) (_ *UnavailabilityRequest, err error) {
	defer func() { metrics.ObserveWorkflow("booking_report_unavailability", err) }()

	if params.Reason == "" {
		return nil, &ValidationError{Field: "reason", Reason: "is required"}
	}

	rtx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rtx.Rollback()

	b, err := rtx.LockBooking(ctx, params.OrganizationID, params.BookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != StatusScheduled {
		return nil, ErrNotScheduled
	}

	if b.StaffID == nil || *b.StaffID != params.StaffID {
		return nil, &ValidationError{Field: "staff_id", Reason: "is not assigned to this booking"}
	}

	req := &UnavailabilityRequest{
		OrganizationID: b.OrganizationID,
		BookingID:      b.ID,
		StaffID:        params.StaffID,
		Reason:         params.Reason,
		Notes:          params.Notes,
		Status:         RequestPending,
	}

	if err := rtx.InsertUnavailability(ctx, req); err != nil {
		return nil, fmt.Errorf("insert unavailability: %w", err)
	}

	if err := rtx.Enqueue(ctx, unavailabilityReported(req, s.local(b))); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit unavailability: %w", err)
	}

	return req, nil
}

type UnavailabilityResult struct {
	Request              *UnavailabilityRequest `json:"request"`
	ReassignmentRequired bool                   `json:"reassignment_required"`
}

// ReviewUnavailability records the decision and tells the carer. Approval never
// picks a replacement: the result reports ReassignmentRequired instead.
func (s *Service) ReviewUnavailability(ctx context.Context, params ReviewParams) (_ *UnavailabilityResult, err error) {
	defer func() { metrics.ObserveWorkflow("booking_review_unavailability", err) }()

	if !params.Decision.Valid() {
		return nil, &ValidationError{Field: "decision", Reason: "must be approved or rejected"}
	}

	rtx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rtx.Rollback()

	req, err := rtx.LockUnavailability(ctx, params.OrganizationID, params.RequestID)
	if err != nil {
		return nil, err
	}

	if req.Status != RequestPending {
		return nil, ErrAlreadyResolved
	}

	now := s.now()

	req.Status = RequestStatus(params.Decision)
	req.AdminNotes = params.AdminNotes
	req.ReviewedBy = &params.ReviewerID
	req.ReviewedAt = &now

	if err := rtx.ResolveUnavailability(ctx, req); err != nil {
		return nil, fmt.Errorf("resolve unavailability: %w", err)
	}

	if err := rtx.Enqueue(ctx, unavailabilityResolved(req)); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit unavailability review: %w", err)
	}

	return &UnavailabilityResult{
		Request:              req,
		ReassignmentRequired: req.Status == RequestApproved,
	}, nil
}

type ReassignResult struct {
	Request *UnavailabilityRequest `json:"request"`
	Booking *Booking               `json:"booking"`
}

type ReassignParams struct {
	OrganizationID uuid.UUID
	RequestID      uuid.UUID
	NewStaffID     uuid.UUID
}

// Reassign moves the visit of an approved unavailability request to another carer.
func (s *Service) Reassign(ctx context.Context, params ReassignParams) (_ *ReassignResult, err error) {
	defer func() { metrics.ObserveWorkflow("booking_reassign", err) }()

	if params.NewStaffID == uuid.Nil {
		return nil, &ValidationError{Field: "new_staff_id", Reason: "is required"}
	}

	rtx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rtx.Rollback()

	req, err := rtx.LockUnavailability(ctx, params.OrganizationID, params.RequestID)
	if err != nil {
		return nil, err
	}

	if req.Status != RequestApproved {
		return nil, ErrNotApproved
	}

	if params.NewStaffID == req.StaffID {
		return nil, &ValidationError{Field: "new_staff_id", Reason: "must differ from the unavailable carer"}
	}

	b, err := rtx.LockBooking(ctx, req.OrganizationID, req.BookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != StatusScheduled {
		return nil, ErrNotScheduled
	}

	carer, err := rtx.IsActiveCarer(ctx, b.OrganizationID, b.BranchID, params.NewStaffID)
	if err != nil {
		return nil, fmt.Errorf("check carer: %w", err)
	}

	if !carer {
		return nil, &ValidationError{Field: "new_staff_id", Reason: "is not an active carer of this branch"}
	}

	now := s.now()

	b.StaffID = &params.NewStaffID
	req.Status = RequestReassigned
	req.NewStaffID = &params.NewStaffID
	req.ReassignedAt = &now

	if err := rtx.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if err := rtx.MarkReassigned(ctx, req); err != nil {
		return nil, fmt.Errorf("mark reassigned: %w", err)
	}

	if err := rtx.Enqueue(ctx, visitReassigned(s.local(b), params.NewStaffID)); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reassignment: %w", err)
	}

	return &ReassignResult{Request: req, Booking: b}, nil
}

type AlertResult struct {
	LateStarts int `json:"late_starts"`
	Missed     int `json:"missed"`
}

// GenerateVisitAlerts flags scheduled visits that have not started within the
// grace period as late, and those past their end as missed, alerting branch
// admins once per flag.
func (s *Service) GenerateVisitAlerts(ctx context.Context) (_ AlertResult, err error) {
	defer func() { metrics.ObserveWorkflow("booking_visit_alerts", err) }()

	var res AlertResult

	rtx, err := s.begin(ctx)
	if err != nil {
		return res, err
	}
	defer rtx.Rollback()

	now := s.now()

	bookings, err := rtx.ClaimOverdueBookings(ctx, now.Add(-s.lateGrace), now, alertBatchSize)
	if err != nil {
		return res, fmt.Errorf("claim overdue bookings: %w", err)
	}

	for _, b := range bookings {
		if !b.EndTime.After(now) {
			b.Missed = true
			b.Status = StatusMissed
			res.Missed++
		} else {
			b.LateStart = true
			res.LateStarts++
		}

		b.AlertSentAt = &now

		if err := rtx.UpdateBooking(ctx, b); err != nil {
			return AlertResult{}, fmt.Errorf("flag booking %s: %w", b.ID, err)
		}

		if err := rtx.Enqueue(ctx, visitAlert(s.local(b))); err != nil {
			return AlertResult{}, fmt.Errorf("enqueue alert: %w", err)
		}
	}

	if err := rtx.Commit(); err != nil {
		return AlertResult{}, fmt.Errorf("commit visit alerts: %w", err)
	}

	return res, nil
}
