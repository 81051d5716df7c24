package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheRequests counts cache facade lookups by result (hit|miss|error).
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campuscore_cache_requests_total",
			Help: "Total number of cache facade lookups",
		},
		[]string{"result"},
	)

	// InvalidationBatches counts scope invalidation iterations and their outcome (ok|error).
	InvalidationBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campuscore_cache_invalidation_batches_total",
			Help: "Total number of scope invalidation scan batches",
		},
		[]string{"result"},
	)

	// TimetableCommits counts timetable replacements by outcome (committed|rejected|error).
	TimetableCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campuscore_timetable_commits_total",
			Help: "Total number of timetable replacement attempts",
		},
		[]string{"result"},
	)

	// AccessGrants counts issued document access grants by requester role.
	AccessGrants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campuscore_access_grants_total",
			Help: "Total number of issued document access grants",
		},
		[]string{"role"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campuscore_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
