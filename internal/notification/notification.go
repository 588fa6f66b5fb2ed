package notification

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow     Priority = "low"
	PriorityNormal  Priority = "normal"
	PriorityHigh    Priority = "high"
	PriorityWarning Priority = "warning"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityWarning:
		return true
	}

	return false
}

type AudienceKind string

const (
	AudienceUser         AudienceKind = "user"
	AudienceClient       AudienceKind = "client"
	AudienceBranchAdmins AudienceKind = "branch_admins"
	AudienceBranchStaff  AudienceKind = "branch_staff"
)

// Audience names who receives an event. Only the id matching Kind is read.
type Audience struct {
	Kind     AudienceKind `json:"kind"`
	UserID   uuid.UUID    `json:"user_id,omitzero"`
	ClientID uuid.UUID    `json:"client_id,omitzero"`
	BranchID uuid.UUID    `json:"branch_id,omitzero"`
}

func ToUser(id uuid.UUID) Audience         { return Audience{Kind: AudienceUser, UserID: id} }
func ToClient(id uuid.UUID) Audience       { return Audience{Kind: AudienceClient, ClientID: id} }
func ToBranchAdmins(id uuid.UUID) Audience { return Audience{Kind: AudienceBranchAdmins, BranchID: id} }
func ToBranchStaff(id uuid.UUID) Audience  { return Audience{Kind: AudienceBranchStaff, BranchID: id} }

func (a Audience) validate() error {
	var id uuid.UUID

	switch a.Kind {
	case AudienceUser:
		id = a.UserID
	case AudienceClient:
		id = a.ClientID
	case AudienceBranchAdmins, AudienceBranchStaff:
		id = a.BranchID
	default:
		return &ValidationError{Field: "audience.kind", Reason: "unknown audience " + string(a.Kind)}
	}

	if id == uuid.Nil {
		return &ValidationError{Field: "audience", Reason: "missing id for " + string(a.Kind)}
	}

	return nil
}

// Event is one thing that happened, addressed to an audience. ID makes
// delivery idempotent: each recipient gets at most one row per event.
type Event struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	Type           string         `json:"type"`
	Category       string         `json:"category"`
	Priority       Priority       `json:"priority"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Data           map[string]any `json:"data,omitempty"`
	Audience       Audience       `json:"audience"`
	Email          bool           `json:"email,omitempty"`
}

type Notification struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	UserID         uuid.UUID      `json:"user_id"`
	EventID        uuid.UUID      `json:"event_id"`
	Type           string         `json:"type"`
	Category       string         `json:"category"`
	Priority       Priority       `json:"priority"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Data           map[string]any `json:"data"`
	ReadAt         *time.Time     `json:"read_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Recipient is a verified, enabled account.
type Recipient struct {
	UserID uuid.UUID
	Email  string
	Name   string
}
