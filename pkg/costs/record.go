package costs

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Unknown is the key used for records missing a model or type.
const Unknown = "unknown"

// Record is the slice of an AI interaction the aggregator reads.
type Record struct {
	Model            string    `json:"model"`
	Type             string    `json:"type"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	CostUSD          float64   `json:"cost_usd"`
	CreatedAt        time.Time `json:"created_at"`
}

func (r Record) model() string { return orUnknown(r.Model) }

func (r Record) kind() string { return orUnknown(r.Type) }

func (r Record) cost() decimal.Decimal {
	if math.IsNaN(r.CostUSD) || math.IsInf(r.CostUSD, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(r.CostUSD)
}

func (r Record) tokens() (prompt, completion, total int) {
	prompt, completion, total = nonNegative(r.PromptTokens), nonNegative(r.CompletionTokens), nonNegative(r.TotalTokens)
	if total == 0 {
		total = prompt + completion
	}
	return prompt, completion, total
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Unknown
	}
	return s
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Round2 rounds half away from zero to cents. Round2(Round2(x)) == Round2(x).
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return roundDecimal(decimal.NewFromFloat(x), 2)
}

func roundDecimal(d decimal.Decimal, places int32) float64 {
	f, _ := d.Round(places).Float64()
	return f
}
