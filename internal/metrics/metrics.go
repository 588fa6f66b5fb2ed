package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careledger_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "careledger_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	WorkflowOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careledger_workflow_operations_total",
		Help: "Ledger and booking workflow mutations by operation and outcome.",
	}, []string{"operation", "outcome"})

	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "careledger_notifications_created_total",
		Help: "Notification rows inserted.",
	})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careledger_notification_failures_total",
		Help: "Notification delivery failures by stage (resolve, insert, email).",
	}, []string{"stage"})

	OutboxEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careledger_outbox_events_total",
		Help: "Outbox events handled by the dispatcher by outcome (dispatched, retried, parked).",
	}, []string{"outcome"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careledger_job_runs_total",
		Help: "Scheduled job runs by job name and outcome.",
	}, []string{"job", "outcome"})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}

// ObserveWorkflow counts one workflow mutation.
func ObserveWorkflow(operation string, err error) {
	WorkflowOperations.WithLabelValues(operation, outcome(err)).Inc()
}

// ObserveJob counts one scheduled job run.
func ObserveJob(job string, err error) {
	JobRuns.WithLabelValues(job, outcome(err)).Inc()
}
