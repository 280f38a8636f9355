package mockapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "heroes_api_requests_total",
		Help: "Requests served by the mock heroes API.",
	},
	[]string{"method", "route", "status"},
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "heroes_api_request_duration_seconds",
		Help:    "Latency of mock heroes API requests.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)
