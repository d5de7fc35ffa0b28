package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "force"

// Metrics is safe to use through a nil pointer; every method no-ops.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	rateLimited *prometheus.CounterVec

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	pipelineStage    *prometheus.CounterVec
	pipelineLatency  *prometheus.HistogramVec
	lowConfidence    *prometheus.CounterVec
	languageFallback prometheus.Counter
	languageCache    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request latency.", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "Requests currently being served.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "rate_limited_total",
			Help: "Requests rejected by the per-user limiter.",
		}, []string{"route"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "llm", Name: "requests_total",
			Help: "Chat completion attempts by model and outcome.",
		}, []string{"model", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "llm", Name: "request_duration_seconds",
			Help:    "Chat completion latency including retries.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		}, []string{"model", "outcome"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "llm", Name: "tokens_total",
			Help: "Tokens reported by the upstream usage block.",
		}, []string{"model", "direction"}),
		pipelineStage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "generation", Name: "stage_total",
			Help: "Generation pipeline stage transitions.",
		}, []string{"pipeline", "stage", "outcome"}),
		pipelineLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "generation", Name: "duration_seconds",
			Help:    "End to end generation latency.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		}, []string{"pipeline", "outcome"}),
		lowConfidence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "generation", Name: "low_confidence_total",
			Help: "Accepted generations flagged as low confidence.",
		}, []string{"pipeline"}),
		languageFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "generation", Name: "language_fallback_total",
			Help: "Language detections that fell back to the default language.",
		}),
		languageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "generation", Name: "language_cache_total",
			Help: "Language detection cache lookups.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight, m.rateLimited,
		m.llmRequests, m.llmLatency, m.llmTokens,
		m.pipelineStage, m.pipelineLatency, m.lowConfidence,
		m.languageFallback, m.languageCache,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) IncRateLimited(route string) {
	if m != nil {
		m.rateLimited.WithLabelValues(route).Inc()
	}
}

// ObserveLLMAttempt counts a single upstream attempt.
func (m *Metrics) ObserveLLMAttempt(model, outcome string) {
	if m != nil {
		m.llmRequests.WithLabelValues(model, outcome).Inc()
	}
}

// ObserveLLMRequest records a finished call, retries included.
func (m *Metrics) ObserveLLMRequest(model, outcome string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(model, outcome).Observe(dur.Seconds())
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

func (m *Metrics) ObservePipelineStage(pipeline, stage, outcome string) {
	if m != nil {
		m.pipelineStage.WithLabelValues(pipeline, stage, outcome).Inc()
	}
}

func (m *Metrics) ObservePipeline(pipeline, outcome string, dur time.Duration) {
	if m != nil {
		m.pipelineLatency.WithLabelValues(pipeline, outcome).Observe(dur.Seconds())
	}
}

func (m *Metrics) IncLowConfidence(pipeline string) {
	if m != nil {
		m.lowConfidence.WithLabelValues(pipeline).Inc()
	}
}

func (m *Metrics) IncLanguageFallback() {
	if m != nil {
		m.languageFallback.Inc()
	}
}

func (m *Metrics) ObserveLanguageCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.languageCache.WithLabelValues("hit").Inc()
		return
	}
	m.languageCache.WithLabelValues("miss").Inc()
}
