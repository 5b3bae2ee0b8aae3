package costs

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ModelMetric summarizes spend for one model. AvgCostPerToken is scaled by
// 1e6 (USD per million tokens).
type ModelMetric struct {
	Model                 string    `json:"model"`
	TotalCost             float64   `json:"total_cost"`
	Interactions          int       `json:"interactions"`
	TotalTokens           int       `json:"total_tokens"`
	AvgCostPerInteraction float64   `json:"avg_cost_per_interaction"`
	AvgCostPerToken       float64   `json:"avg_cost_per_token"`
	PerformanceScore      float64   `json:"performance_score"`
	LastUsed              time.Time `json:"last_used"`
}

// ModelMetrics returns per-model metrics sorted by total cost descending,
// ties broken by model name.
//
// PerformanceScore is a cost heuristic, max(0, 100 - costPerToken*100000),
// computed on the unscaled per-token cost.
func ModelMetrics(records []Record) []ModelMetric {
	type acc struct {
		metric ModelMetric
		cost   decimal.Decimal
	}
	byModel := make(map[string]*acc)
	for _, r := range records {
		name := r.model()
		a, ok := byModel[name]
		if !ok {
			a = &acc{metric: ModelMetric{Model: name}, cost: decimal.Zero}
			byModel[name] = a
		}
		_, _, total := r.tokens()
		a.cost = a.cost.Add(r.cost())
		a.metric.Interactions++
		a.metric.TotalTokens += total
		if r.CreatedAt.After(a.metric.LastUsed) {
			a.metric.LastUsed = r.CreatedAt.UTC()
		}
	}

	metrics := make([]ModelMetric, 0, len(byModel))
	for _, a := range byModel {
		m := a.metric
		m.TotalCost = roundDecimal(a.cost, 2)
		total, _ := a.cost.Float64()
		if m.Interactions > 0 {
			m.AvgCostPerInteraction = roundDecimal(a.cost.Div(decimal.NewFromInt(int64(m.Interactions))), 4)
		}
		perToken := 0.0
		if m.TotalTokens > 0 {
			perToken = total / float64(m.TotalTokens)
		}
		m.AvgCostPerToken = roundDecimal(decimal.NewFromFloat(perToken*1_000_000), 4)
		m.PerformanceScore = Round2(math.Max(0, 100-perToken*100_000))
		metrics = append(metrics, m)
	}
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].TotalCost != metrics[j].TotalCost {
			return metrics[i].TotalCost > metrics[j].TotalCost
		}
		return metrics[i].Model < metrics[j].Model
	})
	return metrics
}
