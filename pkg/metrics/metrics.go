// Package metrics exposes prometheus collectors for AI generation and spend.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "collectly"

type collectors struct {
	generationsTotal *prometheus.CounterVec
	fallbacksTotal   *prometheus.CounterVec
	failuresTotal    *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
	costUSDTotal     *prometheus.CounterVec

	generationLatency *prometheus.HistogramVec

	alertsTotal *prometheus.CounterVec
}

var singleton = sync.OnceValue(func() *collectors {
	return &collectors{
		generationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_generations_total",
			Help:      "Completed AI generations by backend tier, model and interaction type.",
		}, []string{"tier", "model", "type"}),
		fallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_fallbacks_total",
			Help:      "Generations served by the fallback backend, by serving tier.",
		}, []string{"tier"}),
		failuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_failures_total",
			Help:      "Generations that failed, by reason.",
		}, []string{"reason"}),
		tokensTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_tokens_total",
			Help:      "Tokens consumed, by model and kind (prompt/completion).",
		}, []string{"model", "kind"}),
		costUSDTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_cost_usd_total",
			Help:      "Estimated AI spend in USD, by model.",
		}, []string{"model"}),
		generationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_generation_latency_seconds",
			Help:      "End-to-end generation latency including fallback.",
			Buckets: []float64{
				0.1, 0.25, 0.5,
				1, 2, 5,
				10, 20, 30, 60,
			},
		}, []string{"tier"}),
		alertsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cost_alerts_total",
			Help:      "Cost alerts raised after a generation, by category and level.",
		}, []string{"category", "level"}),
	}
})

// Generation is what ObserveGeneration records.
type Generation struct {
	Tier             string
	Model            string
	Type             string
	FellBack         bool
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
	Duration         time.Duration
}

// ObserveGeneration records a successful generation.
func ObserveGeneration(g Generation) {
	m := singleton()
	m.generationsTotal.WithLabelValues(g.Tier, g.Model, g.Type).Inc()
	if g.FellBack {
		m.fallbacksTotal.WithLabelValues(g.Tier).Inc()
	}
	if g.PromptTokens > 0 {
		m.tokensTotal.WithLabelValues(g.Model, "prompt").Add(float64(g.PromptTokens))
	}
	if g.CompletionTokens > 0 {
		m.tokensTotal.WithLabelValues(g.Model, "completion").Add(float64(g.CompletionTokens))
	}
	if g.CostUSD > 0 {
		m.costUSDTotal.WithLabelValues(g.Model).Add(g.CostUSD)
	}
	m.generationLatency.WithLabelValues(g.Tier).Observe(g.Duration.Seconds())
}

// Failure reasons.
const (
	ReasonValidation  = "validation"
	ReasonBudget      = "budget_exceeded"
	ReasonUnavailable = "service_unavailable"
	ReasonCancelled   = "cancelled"
	ReasonStore       = "store"
)

// ObserveFailure counts a failed generation.
func ObserveFailure(reason string) {
	singleton().failuresTotal.WithLabelValues(reason).Inc()
}

// ObserveAlert counts a raised cost alert.
func ObserveAlert(category, level string) {
	singleton().alertsTotal.WithLabelValues(category, level).Inc()
}
