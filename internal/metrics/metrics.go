// Package metrics collects Prometheus metrics for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of the collector used by the auth handlers.
type Recorder interface {
	RecordAuth(operation, source string)
}

// Collector holds the registered metrics.
type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	authResults    *prometheus.CounterVec
	storageBackend *prometheus.GaugeVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_auth_results_total",
			Help: "Successful authentications by operation and the path that served them.",
		}, []string{"operation", "source"}),
		storageBackend: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portfolio_storage_backend",
			Help: "Set to 1 for the storage backend selected at startup.",
		}, []string{"backend"}),
	}

	reg.MustRegister(c.requests, c.latency, c.authResults, c.storageBackend)
	return c
}

// Middleware records request count and latency per chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (c *Collector) RecordAuth(operation, source string) {
	c.authResults.WithLabelValues(operation, source).Inc()
}

// SetStorageBackend marks backend as the active one.
func (c *Collector) SetStorageBackend(backend string) {
	c.storageBackend.Reset()
	c.storageBackend.WithLabelValues(backend).Set(1)
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
