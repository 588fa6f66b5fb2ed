package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/booking"
	"github.com/MrJamesThe3rd/careledger/internal/jobs"
	"github.com/MrJamesThe3rd/careledger/internal/metrics"
	"github.com/MrJamesThe3rd/careledger/internal/outbox"
)

type fakeDispatcher struct {
	calls    int
	err      error
	deadline bool
}

func (f *fakeDispatcher) RunOnce(ctx context.Context) (outbox.Result, error) {
	f.calls++
	_, f.deadline = ctx.Deadline()

	return outbox.Result{Dispatched: 2}, f.err
}

type fakeAlerts struct {
	panics bool
}

func (f *fakeAlerts) GenerateVisitAlerts(context.Context) (booking.AlertResult, error) {
	if f.panics {
		panic("boom")
	}

	return booking.AlertResult{LateStarts: 1}, nil
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name       string
		job        string
		dispatcher *fakeDispatcher
		alerts     *fakeAlerts
		wantErr    bool
	}{
		{name: "OutboxSuccess", job: jobs.JobOutboxDispatch, dispatcher: &fakeDispatcher{}, alerts: &fakeAlerts{}},
		{name: "OutboxError", job: jobs.JobOutboxDispatch, dispatcher: &fakeDispatcher{err: errors.New("db down")}, alerts: &fakeAlerts{}, wantErr: true},
		{name: "AlertsSuccess", job: jobs.JobVisitAlerts, dispatcher: &fakeDispatcher{}, alerts: &fakeAlerts{}},
		{name: "AlertsPanicRecovered", job: jobs.JobVisitAlerts, dispatcher: &fakeDispatcher{}, alerts: &fakeAlerts{panics: true}, wantErr: true},
		{name: "UnknownJob", job: "reindex", dispatcher: &fakeDispatcher{}, alerts: &fakeAlerts{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := jobs.NewRunner(tt.dispatcher, tt.alerts, time.Minute)

			err := r.Run(context.Background(), tt.job)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRunner_AppliesTimeoutAndCountsRuns(t *testing.T) {
	d := &fakeDispatcher{}
	r := jobs.NewRunner(d, &fakeAlerts{}, time.Minute)

	before := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(jobs.JobOutboxDispatch, "success"))

	require.NoError(t, r.DispatchOutbox(context.Background()))

	assert.Equal(t, 1, d.calls)
	assert.True(t, d.deadline)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.JobRuns.WithLabelValues(jobs.JobOutboxDispatch, "success")))
}

func TestNewScheduler(t *testing.T) {
	r := jobs.NewRunner(&fakeDispatcher{}, &fakeAlerts{}, time.Minute)

	s, err := jobs.NewScheduler(r, jobs.Schedules{
		jobs.JobOutboxDispatch: "@every 30s",
		jobs.JobVisitAlerts:    "*/30 * * * *",
	}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	s.Stop(ctx)
}

func TestNewScheduler_Invalid(t *testing.T) {
	r := jobs.NewRunner(&fakeDispatcher{}, &fakeAlerts{}, time.Minute)

	_, err := jobs.NewScheduler(r, jobs.Schedules{jobs.JobOutboxDispatch: "every now and then"}, time.UTC)
	assert.Error(t, err)

	_, err = jobs.NewScheduler(r, jobs.Schedules{"reindex": "@hourly"}, time.UTC)
	assert.ErrorContains(t, err, "unknown job")
}
