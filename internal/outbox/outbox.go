// Package outbox queues side effects in the same transaction as the write that
// caused them and delivers them afterwards with retries.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

const KindNotification = "notification"

type Event struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Kind           string
	Payload        json.RawMessage
	Attempts       int
	CreatedAt      time.Time
}

// NewNotification wraps a notification event. The notification's ID doubles as
// the outbox event ID so a replayed dispatch inserts no duplicate rows.
func NewNotification(ev notification.Event) (*Event, error) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding notification event: %w", err)
	}

	return &Event{
		ID:             ev.ID,
		OrganizationID: ev.OrganizationID,
		Kind:           KindNotification,
		Payload:        payload,
	}, nil
}

type NotificationSender interface {
	Deliver(ctx context.Context, ev notification.Event) (int, error)
}

// Notifications delivers notification events through the notification service.
type Notifications struct {
	sender NotificationSender
}

func NewNotifications(sender NotificationSender) *Notifications {
	return &Notifications{sender: sender}
}

func (n *Notifications) Deliver(ctx context.Context, ev *Event) error {
	if ev.Kind != KindNotification {
		return fmt.Errorf("unsupported outbox event kind %q", ev.Kind)
	}

	var ne notification.Event
	if err := json.Unmarshal(ev.Payload, &ne); err != nil {
		return fmt.Errorf("decoding notification event %s: %w", ev.ID, err)
	}

	if _, err := n.sender.Deliver(ctx, ne); err != nil {
		return err
	}

	return nil
}
