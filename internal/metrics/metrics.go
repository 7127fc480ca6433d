package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the asset store HTTP surface and
// for outgoing asset client calls, on a private registry.
type Metrics struct {
	reqTotal      *prometheus.CounterVec
	reqLatency    *prometheus.HistogramVec
	clientTotal   *prometheus.CounterVec
	clientLatency *prometheus.HistogramVec
	storeAssets   prometheus.Gauge
	registry      *prometheus.Registry
}

// NewMetrics creates a new Metrics instance with a private Prometheus registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	reqLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	clientTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetclient_requests_total",
			Help: "Asset store calls made by the client, by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	clientLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assetclient_request_duration_seconds",
			Help:    "Asset store call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	storeAssets := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "assetstore_assets",
		Help: "Number of assets held by the store after the last write",
	})

	registry.MustRegister(reqTotal, reqLatency, clientTotal, clientLatency, storeAssets)

	return &Metrics{
		reqTotal:      reqTotal,
		reqLatency:    reqLatency,
		clientTotal:   clientTotal,
		clientLatency: clientLatency,
		storeAssets:   storeAssets,
		registry:      registry,
	}
}

// Middleware returns a Chi middleware that collects metrics
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rw, r)

			// Use Chi's route pattern so ids don't explode the label space
			path := r.URL.Path
			if chiCtx := chi.RouteContext(r.Context()); chiCtx != nil {
				if pattern := chiCtx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			status := http.StatusText(rw.code)
			m.reqTotal.WithLabelValues(r.Method, path, status).Inc()
			m.reqLatency.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveCall records one outgoing asset client call.
// statusCode 0 means the request never got a response.
func (m *Metrics) ObserveCall(op string, statusCode int, elapsed time.Duration) {
	m.clientTotal.WithLabelValues(op, outcome(statusCode)).Inc()
	m.clientLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetStoreSize records the number of stored assets
func (m *Metrics) SetStoreSize(n int) {
	m.storeAssets.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the private registry, mostly for tests and pushers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func outcome(statusCode int) string {
	switch {
	case statusCode == 0:
		return "transport_error"
	case statusCode >= 200 && statusCode < 300:
		return "ok"
	default:
		return strconv.Itoa(statusCode)
	}
}

// statusRecorder captures the HTTP status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	return sr.ResponseWriter.Write(b)
}
