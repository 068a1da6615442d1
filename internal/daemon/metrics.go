package daemon

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ledger operation results.
const (
	resultOK       = "ok"
	resultInvalid  = "invalid"
	resultNotFound = "not_found"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	ledgerOps *prometheus.CounterVec
	sessions  prometheus.Gauge
	duration  *prometheus.HistogramVec
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		ledgerOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cbudget_ledger_operations_total",
			Help: "Ledger operations by kind and outcome.",
		}, []string{"op", "result"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "cbudget_sessions",
			Help: "Live sessions held by the service.",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cbudget_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) observeOp(op, result string) {
	m.ledgerOps.WithLabelValues(op, result).Inc()
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the event stream working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// instrument logs every request and records its latency.
func instrument(next http.Handler, m *Metrics, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		m.duration.WithLabelValues(r.Method, strconv.Itoa(rec.code)).Observe(elapsed.Seconds())

		level := slog.LevelInfo
		if rec.code >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if rec.code >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"code", rec.code,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}
