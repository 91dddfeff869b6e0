// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCRequests counts Connect calls by procedure and result code.
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billcal_rpc_requests_total",
		Help: "Connect RPC calls by procedure and code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes Connect call latency by procedure.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billcal_rpc_duration_seconds",
		Help:    "Connect RPC latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure"})

	// HTTPRequests counts plain HTTP requests by route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billcal_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes plain HTTP request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billcal_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// AnalyticsRequests counts Matomo API calls by method and outcome.
	AnalyticsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billcal_analytics_requests_total",
		Help: "Matomo API calls by method and outcome.",
	}, []string{"method", "outcome"})

	// AnalyticsBreakerState is 0 closed, 1 half-open, 2 open.
	AnalyticsBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "billcal_analytics_breaker_state",
		Help: "Matomo circuit breaker state (0 closed, 1 half-open, 2 open).",
	})

	// InstancesGenerated counts bill instances created by the monthly backfill.
	InstancesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billcal_bill_instances_generated_total",
		Help: "Bill instances created by the monthly backfill.",
	})
)
