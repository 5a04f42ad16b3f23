// Package observability exposes the service's Prometheus metrics. Each
// Metrics instance owns its registry, so tests can build one without
// colliding with the default global registry.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	stageDuration    *prometheus.HistogramVec
	tokensUsed       *prometheus.CounterVec
	requestCost      prometheus.Histogram
	errorsTotal      *prometheus.CounterVec
	retrievalResults prometheus.Histogram
	confidence       prometheus.Histogram
	fallbacksTotal   prometheus.Counter
	activeRequests   prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assistant_stage_duration_seconds",
			Help:    "Latency of each workflow stage.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		tokensUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_tokens_total",
			Help: "Tokens consumed by model calls.",
		}, []string{"type"}),
		requestCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_request_cost_usd",
			Help:    "Estimated model cost per request in USD.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_errors_total",
			Help: "Errors by type.",
		}, []string{"type"}),
		retrievalResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_retrieval_results",
			Help:    "Documents returned per knowledge base search.",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_confidence",
			Help:    "Confidence of produced recommendations.",
			Buckets: []float64{0.1, 0.3, 0.5, 0.7, 0.8, 0.9, 1},
		}),
		fallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistant_fallbacks_total",
			Help: "Recommendations replaced by the fallback answer.",
		}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "assistant_active_requests",
			Help: "Recommendation requests currently in flight.",
		}),
	}

	m.registry.MustRegister(
		m.stageDuration,
		m.tokensUsed,
		m.requestCost,
		m.errorsTotal,
		m.retrievalResults,
		m.confidence,
		m.fallbacksTotal,
		m.activeRequests,
	)

	return m
}

func (m *Metrics) ObserveStageDuration(stage string, seconds float64) {
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) ObserveRetrievalResults(count int) {
	m.retrievalResults.Observe(float64(count))
}

func (m *Metrics) ObserveConfidence(confidence float64) {
	m.confidence.Observe(confidence)
}

func (m *Metrics) AddTokens(promptTokens, completionTokens int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(promptTokens))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completionTokens))
}

func (m *Metrics) ObserveRequestCost(cost float64) {
	m.requestCost.Observe(cost)
}

func (m *Metrics) IncError(kind string) {
	m.errorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncFallback() {
	m.fallbacksTotal.Inc()
}

func (m *Metrics) RequestStarted() {
	m.activeRequests.Inc()
}

func (m *Metrics) RequestFinished() {
	m.activeRequests.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
