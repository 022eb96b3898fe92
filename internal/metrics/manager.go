// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultHit   = "hit"
	ResultMiss  = "miss"
)

type Manager struct {
	// counters
	CounterRequests         *prometheus.CounterVec
	CounterPlanTransitions  *prometheus.CounterVec
	CounterPlanGenerations  *prometheus.CounterVec
	CounterContextCache     *prometheus.CounterVec
	CounterTrackingRecorded prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration      *prometheus.HistogramVec
	HistContextBuildDuration *prometheus.HistogramVec
	HistGenerationDuration   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitcoach", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitcoach", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		CounterPlanTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "plan_transitions_total",
			Help:      "Plan lifecycle transitions by outcome",
		}, []string{"transition", "result"}),
		CounterPlanGenerations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "plan_generations_total",
			Help:      "Plan generation calls by outcome",
		}, []string{"result"}),
		CounterContextCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "context_cache_total",
			Help:      "Context snapshot cache lookups by outcome",
		}, []string{"result"}),
		CounterTrackingRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tracking_records_total",
			Help:      "The total number of logged activities",
		}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HistContextBuildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "context_build_duration_seconds",
			Help:      "Time to assemble a user context snapshot",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
		HistGenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "plan_generation_duration_seconds",
			Help:      "Total duration of a generatePlan call",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}),
	}
}

// RecordTransition counts a plan transition outcome.
func (m *Manager) RecordTransition(transition string, err error) {
	m.CounterPlanTransitions.WithLabelValues(transition, result(err)).Inc()
}

// RecordGeneration counts a generation outcome.
func (m *Manager) RecordGeneration(err error) {
	m.CounterPlanGenerations.WithLabelValues(result(err)).Inc()
}

// RecordCache counts a cache hit or miss.
func (m *Manager) RecordCache(hit bool) {
	if hit {
		m.CounterContextCache.WithLabelValues(ResultHit).Inc()
		return
	}
	m.CounterContextCache.WithLabelValues(ResultMiss).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
