package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	OutboxPublishFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_publish_failures_total",
			Help: "Total number of outbox publish failures",
		},
		[]string{"service", "event_type"},
	)

	OutboxDeadLetteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_dead_lettered_total",
			Help: "Outbox events moved to the dead letter table after exhausting retries",
		},
		[]string{"service", "event_type"},
	)

	ImportJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_import_jobs_total",
			Help: "Profile import jobs by final status",
		},
		[]string{"status"},
	)

	LinkFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "link_metadata_fetch_duration_seconds",
			Help:    "Duration of link metadata fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	TxRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_tx_retries_total",
			Help: "Transactions retried after a serialization failure or deadlock",
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)
)
