package costs

import "fmt"

// Limits is an organization's spend policy.
type Limits struct {
	MonthlyUSD            float64 `json:"monthly_limit_usd"`
	DailyUSD              float64 `json:"daily_limit_usd"`
	AlertThresholdPercent float64 `json:"alert_threshold_percent"`
}

const (
	DefaultMonthlyUSD            = 1000
	DefaultDailyUSD              = 50
	DefaultAlertThresholdPercent = 80
)

// DefaultLimits applies when an organization has no stored settings and
// nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MonthlyUSD:            DefaultMonthlyUSD,
		DailyUSD:              DefaultDailyUSD,
		AlertThresholdPercent: DefaultAlertThresholdPercent,
	}
}

// Validate checks ranges accepted by the settings API.
func (l Limits) Validate() error {
	if l.MonthlyUSD < 0 {
		return fmt.Errorf("monthly_limit_usd must be >= 0, got %v", l.MonthlyUSD)
	}
	if l.DailyUSD < 0 {
		return fmt.Errorf("daily_limit_usd must be >= 0, got %v", l.DailyUSD)
	}
	if l.AlertThresholdPercent < 0 || l.AlertThresholdPercent > 100 {
		return fmt.Errorf("alert_threshold_percent must be between 0 and 100, got %v", l.AlertThresholdPercent)
	}
	return nil
}
