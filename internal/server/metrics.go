package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server. Each instance owns
// its registry, so several servers (or tests) never collide on
// registration.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	activeRequests      prometheus.Gauge
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	calculationsTotal   *prometheus.CounterVec
	calculationDuration *prometheus.HistogramVec
	digitsComputed      prometheus.Counter
}

// NewMetrics creates and registers the server's collectors together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "picalc_active_requests",
			Help: "Number of HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picalc_requests_total",
			Help: "HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "picalc_request_duration_seconds",
			Help:    "HTTP request latency by path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		calculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picalc_calculations_total",
			Help: "π computations by algorithm and outcome.",
		}, []string{"algorithm", "status"}),
		calculationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "picalc_calculation_duration_seconds",
			Help:    "π computation time by algorithm.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"algorithm"}),
		digitsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "picalc_digits_computed_total",
			Help: "Total number of digits returned by successful computations.",
		}),
	}
	reg.MustRegister(
		m.activeRequests, m.requestsTotal, m.requestDuration,
		m.calculationsTotal, m.calculationDuration, m.digitsComputed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	// Series without observations are not exported; seed the request
	// counter so a fresh scrape shows every picalc family.
	m.requestsTotal.WithLabelValues("/metrics", "200").Add(0)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(path string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(d.Seconds())
}

// RecordCalculation records one π computation.
func (m *Metrics) RecordCalculation(algorithm string, digits int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.calculationsTotal.WithLabelValues(algorithm, status).Inc()
	m.calculationDuration.WithLabelValues(algorithm).Observe(d.Seconds())
	if err == nil {
		m.digitsComputed.Add(float64(digits))
	}
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
