package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Report Metrics
	ReportDuration      prometheus.Histogram
	ReportOutcomesTotal *prometheus.CounterVec

	// Provider Metrics
	ProviderFetchDuration *prometheus.HistogramVec
	ProviderErrorsTotal   *prometheus.CounterVec
	ProviderBreakerState  prometheus.Gauge

	// Narrative Metrics
	ConditionsTotal     *prometheus.CounterVec
	RendererMissesTotal *prometheus.CounterVec
}

// NewCollector creates a new metrics collector registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by code",
			},
			[]string{"error_code", "endpoint"},
		),

		ReportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_duration_seconds",
				Help:      "Time to build a report, including the provider fetch",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),

		ReportOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_outcomes_total",
				Help:      "Report requests by outcome (ok or error code)",
			},
			[]string{"outcome"},
		),

		ProviderFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_fetch_duration_seconds",
				Help:      "Forecast provider request duration in seconds by result",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"result"},
		),

		ProviderErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_errors_total",
				Help:      "Forecast provider failures by error code",
			},
			[]string{"error_code"},
		),

		ProviderBreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "provider_breaker_state",
				Help:      "Circuit breaker state for the forecast provider (0 closed, 1 half-open, 2 open)",
			},
		),

		ConditionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conditions_detected_total",
				Help:      "Classified weather conditions by report section and topic",
			},
			[]string{"section", "topic"},
		),

		RendererMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renderer_misses_total",
				Help:      "Condition topics that had no narrative renderer",
			},
			[]string{"topic"},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments API error counter
func (c *Collector) RecordAPIError(code, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(code, endpoint).Inc()
}

// RecordReportOutcome counts a finished report request. Successful reports use "ok".
func (c *Collector) RecordReportOutcome(outcome string) {
	c.ReportOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordProviderError increments the provider failure counter
func (c *Collector) RecordProviderError(code string) {
	c.ProviderErrorsTotal.WithLabelValues(code).Inc()
}

// SetBreakerState records the provider circuit breaker state.
func (c *Collector) SetBreakerState(state int) {
	c.ProviderBreakerState.Set(float64(state))
}

// RecordCondition counts one classified condition.
func (c *Collector) RecordCondition(section, topic string) {
	c.ConditionsTotal.WithLabelValues(section, topic).Inc()
}

// RecordRendererMiss counts a condition topic that had no renderer.
func (c *Collector) RecordRendererMiss(topic string) {
	c.RendererMissesTotal.WithLabelValues(topic).Inc()
}
