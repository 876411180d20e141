// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation. Metrics() records HTTP
// traffic labelled by method, registered route and status; route templates
// (e.g. /api/v1/buyers/:id) keep label cardinality bounded, and requests that
// match no route share the "unmatched" path label. The lead
// counters below are incremented by handlers and the rate limiter.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Status is omitted to keep histogram cardinality low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// Exports stream whole tables, so buckets reach well past JSON sizes.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 5 << 10, 25 << 10, 100 << 10,
				500 << 10, 1 << 20, 5 << 20, 25 << 20,
			},
		},
		[]string{"method", "path"},
	)

	leadMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_mutations_total",
			Help: "Lead writes by action (create, update, delete) and outcome.",
		},
		[]string{"action", "outcome"},
	)

	importRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_import_rows_total",
			Help: "CSV import rows by outcome (imported, rejected).",
		},
		[]string{"outcome"},
	)

	exportRows = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_export_rows_total",
			Help: "Rows written by CSV exports.",
		},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_rate_limited_total",
			Help: "Requests rejected by per-action quotas.",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize,
		leadMutations, importRows, exportRows, rateLimited)
}

// ObserveMutation counts one lead write. Outcome is a short label such as
// "ok", "conflict" or "invalid".
func ObserveMutation(action, outcome string) {
	leadMutations.WithLabelValues(action, outcome).Inc()
}

// ObserveImport counts the rows of one import.
func ObserveImport(imported, rejected int) {
	importRows.WithLabelValues("imported").Add(float64(imported))
	importRows.WithLabelValues("rejected").Add(float64(rejected))
}

// ObserveExport counts exported rows.
func ObserveExport(rows int) {
	exportRows.Add(float64(rows))
}

// Metrics instruments every request. Mount promhttp.Handler() separately.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
