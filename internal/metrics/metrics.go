package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsEnqueued counts jobs enqueued, by trigger.
	JobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshd_jobs_enqueued_total",
			Help: "Total number of refresh jobs enqueued",
		},
		[]string{"trigger"},
	)

	// JobsProcessed counts jobs that reached a terminal status.
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshd_jobs_processed_total",
			Help: "Total number of refresh jobs that reached a terminal status",
		},
		[]string{"status"},
	)

	// JobDuration tracks job-handler processing time.
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "refreshd_job_duration_seconds",
			Help:    "Job handler processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	// WatchersCreated counts watcher rows created.
	WatchersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refreshd_watchers_created_total",
			Help: "Total number of transfer watchers created",
		},
	)

	// WatchersResolved counts watchers that reached a terminal state.
	WatchersResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshd_watchers_resolved_total",
			Help: "Total number of transfer watchers reaching a terminal state",
		},
		[]string{"status"},
	)

	// ActiveWalletWorkers tracks the current supervised worker count.
	ActiveWalletWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refreshd_active_wallet_workers",
			Help: "Number of currently supervised wallet workers",
		},
	)

	// LockContention counts lock-acquisition failures, by caller.
	LockContention = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshd_lock_contention_total",
			Help: "Total number of wallet lock acquisition failures",
		},
		[]string{"caller"},
	)

	// NodeAPIErrors counts HTTP calls to the node that failed.
	NodeAPIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshd_node_api_errors_total",
			Help: "Total number of failed calls to the node HTTP API",
		},
		[]string{"call"},
	)

	// CancellationsInvoked counts failtransfers calls made.
	CancellationsInvoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refreshd_cancellations_invoked_total",
			Help: "Total number of failtransfers calls invoked by the cancellation predicate",
		},
	)
)
