package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/outbox"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Enqueue writes ev through exec, normally the caller's transaction, so the
// event commits or rolls back with the change that produced it.
func Enqueue(ctx context.Context, exec Execer, ev *outbox.Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	query := `
		INSERT INTO outbox_events (id, organization_id, kind, payload, next_attempt_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	if _, err := exec.ExecContext(ctx, query, ev.ID, ev.OrganizationID, ev.Kind, string(ev.Payload)); err != nil {
		return fmt.Errorf("enqueueing %s event: %w", ev.Kind, err)
	}

	return nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dispatchTx struct {
	tx *sql.Tx
}

func (s *Store) BeginDispatch(ctx context.Context) (outbox.DispatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning dispatch tx: %w", err)
	}

	return &dispatchTx{tx: dbTx}, nil
}

func (d *dispatchTx) Commit() error   { return d.tx.Commit() }
func (d *dispatchTx) Rollback() error { return d.tx.Rollback() }

func (d *dispatchTx) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*outbox.Event, error) {
	query := `
		SELECT id, organization_id, kind, payload, attempts, created_at
		FROM outbox_events
		WHERE dispatched_at IS NULL AND next_attempt_at IS NOT NULL AND next_attempt_at <= $1
		ORDER BY next_attempt_at, created_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`

	rows, err := d.tx.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claiming outbox events: %w", err)
	}
	defer rows.Close()

	var events []*outbox.Event

	for rows.Next() {
		var (
			ev      outbox.Event
			payload []byte
		)

		if err := rows.Scan(&ev.ID, &ev.OrganizationID, &ev.Kind, &payload, &ev.Attempts, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning outbox event: %w", err)
		}

		ev.Payload = payload
		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outbox events: %w", err)
	}

	return events, nil
}

func (d *dispatchTx) MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE outbox_events
		SET dispatched_at = $1, attempts = attempts + 1, next_attempt_at = NULL, last_error = NULL
		WHERE id = $2
	`

	if _, err := d.tx.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("marking outbox event dispatched: %w", err)
	}

	return nil
}

func (d *dispatchTx) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt *time.Time, lastErr string) error {
	query := `
		UPDATE outbox_events
		SET attempts = $1, next_attempt_at = $2, last_error = $3
		WHERE id = $4
	`

	if _, err := d.tx.ExecContext(ctx, query, attempts, nextAttemptAt, lastErr, id); err != nil {
		return fmt.Errorf("marking outbox event failed: %w", err)
	}

	return nil
}
