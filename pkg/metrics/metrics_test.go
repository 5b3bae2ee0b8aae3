package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGeneration(t *testing.T) {
	m := singleton()
	before := testutil.ToFloat64(m.generationsTotal.WithLabelValues("premium", "metrics-test-model", "email_generation"))
	fallbacks := testutil.ToFloat64(m.fallbacksTotal.WithLabelValues("premium"))

	ObserveGeneration(Generation{
		Tier:             "premium",
		Model:            "metrics-test-model",
		Type:             "email_generation",
		FellBack:         true,
		PromptTokens:     10,
		CompletionTokens: 30,
		CostUSD:          0.5,
		Duration:         time.Second,
	})

	assert.Equal(t, before+1, testutil.ToFloat64(m.generationsTotal.WithLabelValues("premium", "metrics-test-model", "email_generation")))
	assert.Equal(t, fallbacks+1, testutil.ToFloat64(m.fallbacksTotal.WithLabelValues("premium")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.tokensTotal.WithLabelValues("metrics-test-model", "completion")))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.costUSDTotal.WithLabelValues("metrics-test-model")))
}

func TestObserveFailureAndAlert(t *testing.T) {
	m := singleton()
	before := testutil.ToFloat64(m.failuresTotal.WithLabelValues(ReasonBudget))
	ObserveFailure(ReasonBudget)
	assert.Equal(t, before+1, testutil.ToFloat64(m.failuresTotal.WithLabelValues(ReasonBudget)))

	alerts := testutil.ToFloat64(m.alertsTotal.WithLabelValues("monthly_limit", "medium"))
	ObserveAlert("monthly_limit", "medium")
	assert.Equal(t, alerts+1, testutil.ToFloat64(m.alertsTotal.WithLabelValues("monthly_limit", "medium")))
}
