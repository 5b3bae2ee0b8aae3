package costs

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is spend against one limit.
type Bucket struct {
	Spent      float64 `json:"spent"`
	Limit      float64 `json:"limit"`
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
}

// Usage is current-month and current-day spend.
type Usage struct {
	Monthly Bucket `json:"monthly"`
	Daily   Bucket `json:"daily"`
}

// ComputeUsage sums records falling in the UTC month and UTC date of now.
// Records outside both windows are ignored.
func ComputeUsage(records []Record, limits Limits, now time.Time) Usage {
	now = now.UTC()
	year, month, day := now.Date()

	monthly, daily := decimal.Zero, decimal.Zero
	for _, r := range records {
		if r.CreatedAt.IsZero() {
			continue
		}
		y, m, d := r.CreatedAt.UTC().Date()
		if y != year || m != month {
			continue
		}
		c := r.cost()
		monthly = monthly.Add(c)
		if d == day {
			daily = daily.Add(c)
		}
	}
	return Usage{
		Monthly: newBucket(monthly, limits.MonthlyUSD),
		Daily:   newBucket(daily, limits.DailyUSD),
	}
}

func newBucket(spent decimal.Decimal, limit float64) Bucket {
	l := decimal.NewFromFloat(limit)
	b := Bucket{
		Spent:     roundDecimal(spent, 2),
		Limit:     limit,
		Remaining: roundDecimal(l.Sub(spent), 2),
	}
	if limit > 0 {
		b.Percentage = roundDecimal(spent.Div(l).Mul(decimal.NewFromInt(100)), 2)
	}
	return b
}

// Alert types, levels and categories.
const (
	AlertWarning = "warning"
	AlertError   = "error"

	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"

	CategoryMonthlyLimit   = "monthly_limit"
	CategoryDailyLimit     = "daily_limit"
	CategoryBudgetExceeded = "budget_exceeded"
)

// Alert is a threshold crossing.
type Alert struct {
	Type       string  `json:"type"`
	Level      string  `json:"level"`
	Category   string  `json:"category"`
	Message    string  `json:"message"`
	Percentage float64 `json:"percentage"`
}

// Alerts evaluates the four rules independently, in order: monthly warning,
// daily warning, monthly exceeded, daily exceeded.
func Alerts(u Usage, thresholdPercent float64) []Alert {
	alerts := make([]Alert, 0, 4)
	if u.Monthly.Percentage >= thresholdPercent {
		alerts = append(alerts, warning(CategoryMonthlyLimit, "monthly", u.Monthly))
	}
	if u.Daily.Percentage >= thresholdPercent {
		alerts = append(alerts, warning(CategoryDailyLimit, "daily", u.Daily))
	}
	if u.Monthly.Percentage >= 100 {
		alerts = append(alerts, exceeded("monthly", u.Monthly))
	}
	if u.Daily.Percentage >= 100 {
		alerts = append(alerts, exceeded("daily", u.Daily))
	}
	return alerts
}

func warning(category, period string, b Bucket) Alert {
	level := LevelMedium
	if b.Percentage >= 95 {
		level = LevelHigh
	}
	return Alert{
		Type:       AlertWarning,
		Level:      level,
		Category:   category,
		Message:    fmt.Sprintf("%.2f%% of %s AI budget used ($%.2f of $%.2f)", b.Percentage, period, b.Spent, b.Limit),
		Percentage: b.Percentage,
	}
}

func exceeded(period string, b Bucket) Alert {
	return Alert{
		Type:       AlertError,
		Level:      LevelCritical,
		Category:   CategoryBudgetExceeded,
		Message:    fmt.Sprintf("%s AI budget exceeded ($%.2f of $%.2f)", period, b.Spent, b.Limit),
		Percentage: b.Percentage,
	}
}

// Exceeded reports whether either limit is fully spent.
func (u Usage) Exceeded() bool {
	return u.Monthly.Percentage >= 100 || u.Daily.Percentage >= 100
}
