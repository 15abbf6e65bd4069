package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GriffinCanCode/webcache/internal/domain/webcache"
	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Process metrics
	ProcessesActive   prometheus.Gauge
	ProcessesInactive prometheus.Gauge

	// Allocation metrics
	GlobalSizeLimit  prometheus.Gauge
	GroupBytes       *prometheus.GaugeVec
	Recomputes       *prometheus.CounterVec
	CapacityMessages prometheus.Counter
	EnactSkipped     prometheus.Counter
}

// NewMetrics creates a metrics collector registered with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webcache_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webcache_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		// Process metrics
		ProcessesActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webcache_processes_active",
				Help: "Number of active renderer processes at the last revision",
			},
		),
		ProcessesInactive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webcache_processes_inactive",
				Help: "Number of inactive renderer processes at the last revision",
			},
		),

		// Allocation metrics
		GlobalSizeLimit: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webcache_global_size_limit_bytes",
				Help: "Cache budget shared by all renderer processes",
			},
		),
		GroupBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webcache_group_bytes",
				Help: "Reported cache bytes summed per process group",
			},
			[]string{"group", "kind"},
		),
		Recomputes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webcache_recomputes_total",
				Help: "Total number of allocation revisions by chosen tier",
			},
			[]string{"tier", "tactics"},
		),
		CapacityMessages: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webcache_capacity_messages_total",
				Help: "Total number of capacity commands sent to renderers",
			},
		),
		EnactSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webcache_enact_skipped_total",
				Help: "Total number of allocations skipped because the renderer had exited",
			},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ReportRecompute records the outcome of a revision
func (m *Metrics) ReportRecompute(strategy webcache.Strategy, activeCount, inactiveCount int) {
	m.ProcessesActive.Set(float64(activeCount))
	m.ProcessesInactive.Set(float64(inactiveCount))
	m.setGroup("active", strategy.ActiveStats)
	m.setGroup("inactive", strategy.InactiveStats)
	m.Recomputes.WithLabelValues(strconv.Itoa(strategy.Tier), strategy.Pair.String()).Inc()
}

// ReportEnact records how many capacity commands went out
func (m *Metrics) ReportEnact(result webcache.EnactResult) {
	m.CapacityMessages.Add(float64(result.Sent))
	m.EnactSkipped.Add(float64(result.Skipped))
}

// ReportGlobalSizeLimit records the current budget
func (m *Metrics) ReportGlobalSizeLimit(bytes uint64) {
	m.GlobalSizeLimit.Set(float64(bytes))
}

func (m *Metrics) setGroup(group string, stats types.UsageStats) {
	m.GroupBytes.WithLabelValues(group, "capacity").Set(float64(stats.Capacity))
	m.GroupBytes.WithLabelValues(group, "live").Set(float64(stats.LiveSize))
	m.GroupBytes.WithLabelValues(group, "dead").Set(float64(stats.DeadSize))
}
