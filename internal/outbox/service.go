package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=outbox
type Repository interface {
	BeginDispatch(ctx context.Context) (DispatchTx, error)
}

// DispatchTx holds claimed events locked until Commit or Rollback.
type DispatchTx interface {
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Event, error)
	MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt *time.Time, lastErr string) error
	Commit() error
	Rollback() error
}

type Deliverer interface {
	Deliver(ctx context.Context, ev *Event) error
}

const (
	baseBackoff = 30 * time.Second
	maxBackoff  = time.Hour
)

// Backoff is the delay before retry number attempt (1-based): 30s doubling, capped at an hour.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := baseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}

	return d
}

type Result struct {
	Dispatched int
	Retried    int
	Parked     int
}

type Dispatcher struct {
	repo        Repository
	deliverer   Deliverer
	batchSize   int
	maxAttempts int
	now         func() time.Time
}

func NewDispatcher(repo Repository, deliverer Deliverer, batchSize, maxAttempts int) *Dispatcher {
	return &Dispatcher{
		repo:        repo,
		deliverer:   deliverer,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// RunOnce claims one batch of due events and delivers them. Failed events are
// rescheduled with backoff; after maxAttempts they are parked with no next attempt.
func (d *Dispatcher) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	dtx, err := d.repo.BeginDispatch(ctx)
	if err != nil {
		return res, fmt.Errorf("begin dispatch: %w", err)
	}
	defer dtx.Rollback()

	now := d.now()

	events, err := dtx.ClaimDue(ctx, now, d.batchSize)
	if err != nil {
		return res, fmt.Errorf("claiming events: %w", err)
	}

	for _, ev := range events {
		deliverErr := d.deliverer.Deliver(ctx, ev)
		if deliverErr == nil {
			if err := dtx.MarkDispatched(ctx, ev.ID, now); err != nil {
				return res, fmt.Errorf("marking event %s dispatched: %w", ev.ID, err)
			}

			metrics.OutboxEvents.WithLabelValues("dispatched").Inc()
			res.Dispatched++

			continue
		}

		attempts := ev.Attempts + 1

		var next *time.Time
		if attempts < d.maxAttempts {
			next = new(now.Add(Backoff(attempts)))
		}

		if err := dtx.MarkFailed(ctx, ev.ID, attempts, next, deliverErr.Error()); err != nil {
			return res, fmt.Errorf("marking event %s failed: %w", ev.ID, err)
		}

		if next == nil {
			metrics.OutboxEvents.WithLabelValues("parked").Inc()
			slog.Error("outbox event parked", "event_id", ev.ID, "kind", ev.Kind, "attempts", attempts, "error", deliverErr)
			res.Parked++
		} else {
			metrics.OutboxEvents.WithLabelValues("retried").Inc()
			slog.Warn("outbox event delivery failed", "event_id", ev.ID, "kind", ev.Kind, "attempts", attempts, "retry_at", *next, "error", deliverErr)
			res.Retried++
		}
	}

	if err := dtx.Commit(); err != nil {
		return res, fmt.Errorf("commit dispatch: %w", err)
	}

	return res, nil
}
