// Package jobs runs the background work of the worker process on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrJamesThe3rd/careledger/internal/booking"
	"github.com/MrJamesThe3rd/careledger/internal/metrics"
	"github.com/MrJamesThe3rd/careledger/internal/outbox"
)

const (
	JobOutboxDispatch = "outbox-dispatch"
	JobVisitAlerts    = "visit-alerts"
)

type OutboxDispatcher interface {
	RunOnce(ctx context.Context) (outbox.Result, error)
}

type AlertGenerator interface {
	GenerateVisitAlerts(ctx context.Context) (booking.AlertResult, error)
}

// Runner executes single job runs. Each run gets its own timeout and never
// lets a panic escape into the scheduler.
type Runner struct {
	dispatcher OutboxDispatcher
	alerts     AlertGenerator
	timeout    time.Duration
}

func NewRunner(dispatcher OutboxDispatcher, alerts AlertGenerator, timeout time.Duration) *Runner {
	return &Runner{dispatcher: dispatcher, alerts: alerts, timeout: timeout}
}

func (r *Runner) DispatchOutbox(ctx context.Context) error {
	return r.runWithRecovery(ctx, JobOutboxDispatch, func(ctx context.Context) error {
		res, err := r.dispatcher.RunOnce(ctx)
		if err != nil {
			return err
		}

		if res.Dispatched+res.Retried+res.Parked > 0 {
			slog.Info("outbox dispatched",
				"dispatched", res.Dispatched, "retried", res.Retried, "parked", res.Parked)
		}

		return nil
	})
}

func (r *Runner) VisitAlerts(ctx context.Context) error {
	return r.runWithRecovery(ctx, JobVisitAlerts, func(ctx context.Context) error {
		res, err := r.alerts.GenerateVisitAlerts(ctx)
		if err != nil {
			return err
		}

		slog.Info("visit alerts generated", "late_starts", res.LateStarts, "missed", res.Missed)

		return nil
	})
}

// Run executes the named job once.
func (r *Runner) Run(ctx context.Context, name string) error {
	switch name {
	case JobOutboxDispatch:
		return r.DispatchOutbox(ctx)
	case JobVisitAlerts:
		return r.VisitAlerts(ctx)
	}

	return fmt.Errorf("unknown job %q", name)
}

func (r *Runner) runWithRecovery(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", name, p)
		}

		if err != nil {
			slog.Error("job failed", "job", name, "error", err)
		}

		metrics.ObserveJob(name, err)
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	slog.Debug("starting job", "job", name)

	return fn(ctx)
}

// Scheduler triggers Runner jobs from cron expressions.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	ctx    context.Context
	cancel context.CancelFunc
}

// Schedules maps job names to cron specs ("@every 30s", "*/5 * * * *").
type Schedules map[string]string

func NewScheduler(runner *Runner, schedules Schedules, loc *time.Location) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner: runner,
		ctx:    ctx,
		cancel: cancel,
	}

	for name, spec := range schedules {
		if name != JobOutboxDispatch && name != JobVisitAlerts {
			cancel()
			return nil, fmt.Errorf("unknown job %q", name)
		}

		if _, err := s.cron.AddFunc(spec, func() { _ = runner.Run(s.ctx, name) }); err != nil {
			cancel()
			return nil, fmt.Errorf("registering job %s (%q): %w", name, spec, err)
		}

		slog.Info("job registered", "job", name, "schedule", spec)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
