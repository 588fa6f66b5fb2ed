package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/mail"
	"github.com/MrJamesThe3rd/careledger/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	ResolveAudience(ctx context.Context, orgID uuid.UUID, audience Audience) ([]uuid.UUID, error)
	VerifyAccounts(ctx context.Context, ids []uuid.UUID) ([]Recipient, error)
	InsertNotifications(ctx context.Context, notes []*Notification) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]*Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

type ListFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int
}

type Service struct {
	repo   Repository
	mailer Mailer
	now    func() time.Time
}

func NewService(repo Repository, mailer Mailer) *Service {
	return &Service{repo: repo, mailer: mailer, now: time.Now}
}

func validateEvent(ev Event) error {
	switch {
	case ev.OrganizationID == uuid.Nil:
		return &ValidationError{Field: "organization_id", Reason: "is required"}
	case ev.Type == "":
		return &ValidationError{Field: "type", Reason: "is required"}
	case ev.Title == "":
		return &ValidationError{Field: "title", Reason: "is required"}
	case !ev.Priority.Valid():
		return &ValidationError{Field: "priority", Reason: "must be low, normal, high or warning"}
	}

	return ev.Audience.validate()
}

// Deliver resolves the event's audience and writes one notification per enabled
// account. It returns the number of rows created; replays of the same event id
// create nothing. Email is best-effort and never fails delivery.
func (s *Service) Deliver(ctx context.Context, ev Event) (int, error) {
	if err := validateEvent(ev); err != nil {
		return 0, err
	}

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	ids, err := s.repo.ResolveAudience(ctx, ev.OrganizationID, ev.Audience)
	if err != nil {
		metrics.NotificationFailures.WithLabelValues("resolve").Inc()
		return 0, fmt.Errorf("resolving audience: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	recipients, err := s.repo.VerifyAccounts(ctx, ids)
	if err != nil {
		metrics.NotificationFailures.WithLabelValues("resolve").Inc()
		return 0, fmt.Errorf("verifying accounts: %w", err)
	}

	if len(recipients) == 0 {
		return 0, nil
	}

	data := ev.Data
	if data == nil {
		data = map[string]any{}
	}

	notes := make([]*Notification, len(recipients))
	for i, r := range recipients {
		notes[i] = &Notification{
			OrganizationID: ev.OrganizationID,
			UserID:         r.UserID,
			EventID:        ev.ID,
			Type:           ev.Type,
			Category:       ev.Category,
			Priority:       ev.Priority,
			Title:          ev.Title,
			Message:        ev.Message,
			Data:           data,
		}
	}

	n, err := s.repo.InsertNotifications(ctx, notes)
	if err != nil {
		metrics.NotificationFailures.WithLabelValues("insert").Inc()
		return 0, fmt.Errorf("inserting notifications: %w", err)
	}

	metrics.NotificationsCreated.Add(float64(n))

	if ev.Email && n > 0 {
		s.email(ctx, ev, recipients)
	}

	return int(n), nil
}

func (s *Service) email(ctx context.Context, ev Event, recipients []Recipient) {
	for _, r := range recipients {
		if r.Email == "" {
			continue
		}

		err := s.mailer.Send(ctx, mail.Message{
			ToEmail: r.Email,
			ToName:  r.Name,
			Subject: ev.Title,
			Text:    ev.Message,
		})
		if err != nil {
			metrics.NotificationFailures.WithLabelValues("email").Inc()
			slog.Warn("failed to email notification", "event_id", ev.ID, "user_id", r.UserID, "error", err)
		}
	}
}

// Notify is the fire-and-forget form of Deliver: failures are logged and report 0.
func (s *Service) Notify(ctx context.Context, ev Event) int {
	n, err := s.Deliver(ctx, ev)
	if err != nil {
		slog.Warn("notification not delivered", "type", ev.Type, "event_id", ev.ID, "error", err)
		return 0
	}

	return n
}

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Notification, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	return s.repo.List(ctx, filter)
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id, s.now())
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.repo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}

	return int(n), nil
}
