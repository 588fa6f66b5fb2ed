package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusMissed     Status = "missed"
)

type RequestType string

const (
	RequestCancellation RequestType = "cancellation"
	RequestReschedule   RequestType = "reschedule"
)

type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestApproved   RequestStatus = "approved"
	RequestRejected   RequestStatus = "rejected"
	RequestReassigned RequestStatus = "reassigned"
)

// Decision is an admin's verdict on a pending request.
type Decision string

const (
	Approve Decision = "approved"
	Reject  Decision = "rejected"
)

func (d Decision) Valid() bool {
	return d == Approve || d == Reject
}

type Booking struct {
	ID                        uuid.UUID      `json:"id"`
	OrganizationID            uuid.UUID      `json:"organization_id"`
	BranchID                  uuid.UUID      `json:"branch_id"`
	ClientID                  uuid.UUID      `json:"client_id"`
	StaffID                   *uuid.UUID     `json:"staff_id"`
	StartTime                 time.Time      `json:"start_time"`
	EndTime                   time.Time      `json:"end_time"`
	Status                    Status         `json:"status"`
	LateStart                 bool           `json:"late_start"`
	Missed                    bool           `json:"missed"`
	CancellationRequestStatus *RequestStatus `json:"cancellation_request_status"`
	RescheduleRequestStatus   *RequestStatus `json:"reschedule_request_status"`
	AlertSentAt               *time.Time     `json:"alert_sent_at"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 *time.Time     `json:"updated_at"`
}

func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// setRequestStatus records status on the per-type request marker of the booking.
func (b *Booking) setRequestStatus(t RequestType, status RequestStatus) {
	switch t {
	case RequestCancellation:
		b.CancellationRequestStatus = &status
	case RequestReschedule:
		b.RescheduleRequestStatus = &status
	}
}

type ChangeRequest struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	BookingID      uuid.UUID     `json:"booking_id"`
	ClientID       uuid.UUID     `json:"client_id"`
	RequestedBy    uuid.UUID     `json:"requested_by"`
	Type           RequestType   `json:"type"`
	Status         RequestStatus `json:"status"`
	Reason         string        `json:"reason"`
	AdminNotes     string        `json:"admin_notes"`
	NewDate        *string       `json:"new_date"`
	NewTime        *string       `json:"new_time"`
	ReviewedBy     *uuid.UUID    `json:"reviewed_by"`
	ReviewedAt     *time.Time    `json:"reviewed_at"`
	CreatedAt      time.Time     `json:"created_at"`
}

type UnavailabilityRequest struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	BookingID      uuid.UUID     `json:"booking_id"`
	StaffID        uuid.UUID     `json:"staff_id"`
	Reason         string        `json:"reason"`
	Notes          string        `json:"notes"`
	Status         RequestStatus `json:"status"`
	AdminNotes     string        `json:"admin_notes"`
	ReviewedBy     *uuid.UUID    `json:"reviewed_by"`
	ReviewedAt     *time.Time    `json:"reviewed_at"`
	NewStaffID     *uuid.UUID    `json:"new_staff_id"`
	ReassignedAt   *time.Time    `json:"reassigned_at"`
	CreatedAt      time.Time     `json:"created_at"`
}

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = dateLayout + " " + timeLayout
)

// ComposeStart joins a "YYYY-MM-DD" date and an "HH:MM" time into an instant in loc.
func ComposeStart(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q %q: %w", date, clock, err)
	}

	return t, nil
}
