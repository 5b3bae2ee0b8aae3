package ai

// Pricing is the per-unit USD price of a backend. Unit is the number of
// tokens the prices refer to (1e6 for premium, 1e3 for low-cost).
type Pricing struct {
	InputPrice  float64 `json:"input_price"`
	OutputPrice float64 `json:"output_price"`
	Unit        float64 `json:"unit"`
}

const (
	PerMillionTokens  = 1_000_000
	PerThousandTokens = 1_000
)

// PremiumPricing prices are USD per 1M tokens.
func PremiumPricing(input, output float64) Pricing {
	return Pricing{InputPrice: input, OutputPrice: output, Unit: PerMillionTokens}
}

// LowCostPricing prices are USD per 1K tokens.
func LowCostPricing(input, output float64) Pricing {
	return Pricing{InputPrice: input, OutputPrice: output, Unit: PerThousandTokens}
}

// Cost approximates the USD cost of totalTokens using the mean of the input
// and output price. Input and output tokens are not priced separately.
func (p Pricing) Cost(totalTokens int) float64 {
	if totalTokens <= 0 || p.Unit <= 0 {
		return 0
	}
	avg := (p.InputPrice + p.OutputPrice) / 2
	return float64(totalTokens) / p.Unit * avg
}
