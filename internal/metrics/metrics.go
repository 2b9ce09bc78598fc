// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache read outcomes
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultFallback = "fallback"
)

// Collector holds all Prometheus metrics for the service
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Cache metrics
	CacheReads         *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec
	CacheKeysDeleted   prometheus.Counter
	CacheDuration      *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry. Each call returns
// an independent instance so tests can create as many as they need.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CacheReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_reads_total",
				Help:      "Cache reads by entity kind and outcome (hit, miss, fallback)",
			},
			[]string{"kind", "result"},
		),
		CacheInvalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_invalidations_total",
				Help:      "Invalidation passes by mutated kind and status",
			},
			[]string{"kind", "status"},
		),
		CacheKeysDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_keys_deleted_total",
				Help:      "Cache keys removed by invalidation and purge",
			},
		),
		CacheDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_operation_duration_seconds",
				Help:      "Cache store call duration in seconds",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.CacheReads,
		c.CacheInvalidations,
		c.CacheKeysDeleted,
		c.CacheDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry backing this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the /metrics handler for this collector
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a finished HTTP request
func (c *Collector) RecordHTTPRequest(method, route, status string, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordCacheRead records the outcome of a read-through lookup
func (c *Collector) RecordCacheRead(kind, result string) {
	c.CacheReads.WithLabelValues(kind, result).Inc()
}

// RecordInvalidation records an invalidation pass and the keys it removed
func (c *Collector) RecordInvalidation(kind string, deleted int64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.CacheInvalidations.WithLabelValues(kind, status).Inc()
	if deleted > 0 {
		c.CacheKeysDeleted.Add(float64(deleted))
	}
}

// ObserveCacheOp records the duration of a single store call
func (c *Collector) ObserveCacheOp(op string, start time.Time) {
	c.CacheDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
