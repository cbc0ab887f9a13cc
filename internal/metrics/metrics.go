// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_service_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "post_service_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// EngagementOps counts engagement writes. op is one of post_like,
	// post_rate, comment_create, comment_delete, comment_like; result is the
	// outcome (liked, unliked, ok) or the error class.
	EngagementOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_service_engagement_operations_total",
			Help: "Engagement operations by kind and outcome.",
		},
		[]string{"op", "result"},
	)
)
