package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "prism"

// DefaultLatencyBuckets cover provider completion calls, which routinely run
// for multiple seconds.
var DefaultLatencyBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}

// AdapterMetrics tracks adapter activity in Prometheus.
type AdapterMetrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	errors       *prometheus.CounterVec
	retries      *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	tokens       *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
	health       *prometheus.GaugeVec
}

// NewAdapterMetrics creates and registers the adapter metric set.
// If registry is nil a fresh one is created, pre-loaded with the standard
// Go runtime and process collectors.
func NewAdapterMetrics(namespace string, registry *prometheus.Registry) *AdapterMetrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &AdapterMetrics{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "requests_total",
				Help:      "Total completion requests by adapter, provider, and model",
			},
			[]string{"adapter", "provider", "model"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "errors_total",
				Help:      "Total failed requests by adapter and error type",
			},
			[]string{"adapter", "error_type"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "retries_total",
				Help:      "Total retry attempts by adapter and error tag",
			},
			[]string{"adapter", "tag"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "request_duration_seconds",
				Help:      "Completion request latency in seconds",
				Buckets:   DefaultLatencyBuckets,
			},
			[]string{"adapter", "provider"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "tokens_total",
				Help:      "Total tokens consumed by adapter and kind (prompt or completion)",
			},
			[]string{"adapter", "kind"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"adapter"},
		),
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "health_status",
				Help:      "Adapter health from the last probe (1=healthy, 0=unhealthy)",
			},
			[]string{"adapter"},
		),
	}

	registry.MustRegister(
		m.requests,
		m.errors,
		m.retries,
		m.latency,
		m.tokens,
		m.breakerState,
		m.health,
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *AdapterMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest counts one completion request.
func (m *AdapterMetrics) RecordRequest(adapter, provider, model string) {
	m.requests.WithLabelValues(adapter, provider, model).Inc()
}

// RecordError counts one failed request by error type.
func (m *AdapterMetrics) RecordError(adapter, errorType string) {
	m.errors.WithLabelValues(adapter, errorType).Inc()
}

// RecordRetry counts one retry attempt tagged with the error class that
// triggered it.
func (m *AdapterMetrics) RecordRetry(adapter, tag string) {
	m.retries.WithLabelValues(adapter, tag).Inc()
}

// ObserveLatency records one request duration in seconds.
func (m *AdapterMetrics) ObserveLatency(adapter, provider string, seconds float64) {
	m.latency.WithLabelValues(adapter, provider).Observe(seconds)
}

// AddTokens accumulates token usage. Kind is "prompt" or "completion".
func (m *AdapterMetrics) AddTokens(adapter, kind string, n int) {
	if n <= 0 {
		return
	}
	m.tokens.WithLabelValues(adapter, kind).Add(float64(n))
}

// SetBreakerState publishes the adapter's circuit breaker state.
func (m *AdapterMetrics) SetBreakerState(adapter string, state int) {
	m.breakerState.WithLabelValues(adapter).Set(float64(state))
}

// UpdateHealth publishes the result of the adapter's most recent probe.
func (m *AdapterMetrics) UpdateHealth(adapter string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	m.health.WithLabelValues(adapter).Set(v)
}
