// Package metrics registers the Prometheus metrics of the vault server.
// HTTP metrics are updated by the API middleware, business metrics by the
// service layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filevault_http_requests_total",
			Help: "Total number of HTTP requests handled by the vault server",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration is the HTTP request latency histogram.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filevault_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

var (
	// ObjectsTotal tracks the current number of catalog objects per
	// security status.
	ObjectsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filevault_objects_total",
			Help: "Current number of vault objects by security status",
		},
		[]string{"status"},
	)

	// ScansTotal counts completed scans by outcome, including the
	// fail-open path.
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filevault_scans_total",
			Help: "Completed file scans by resulting status",
		},
		[]string{"status", "fail_open"},
	)

	// DownloadsBlockedTotal counts downloads denied because the object is
	// infected.
	DownloadsBlockedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filevault_downloads_blocked_total",
			Help: "Downloads denied due to an INFECTED security status",
		},
	)
)
