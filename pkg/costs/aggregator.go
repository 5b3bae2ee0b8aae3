// Package costs turns AI interaction records into spend analytics, usage
// against limits and threshold alerts. Everything here is a pure fold over
// records already fetched from the store.
package costs

import "time"

// Report is the full cost view for one organization.
type Report struct {
	Analytics    []Group       `json:"analytics"`
	Usage        Usage         `json:"usage"`
	ModelMetrics []ModelMetric `json:"model_metrics"`
	Alerts       []Alert       `json:"alerts"`
	Limits       Limits        `json:"limits"`
	GroupBy      GroupBy       `json:"group_by"`
}

// Aggregator binds a clock to the aggregation functions.
type Aggregator struct {
	now func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now returns the aggregator's current time in UTC.
func (a *Aggregator) Now() time.Time { return a.now().UTC() }

// MonthStart is the first instant of the current UTC month.
func (a *Aggregator) MonthStart() time.Time {
	now := a.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Usage computes current usage and alerts from month-to-date records.
func (a *Aggregator) Usage(monthToDate []Record, limits Limits) (Usage, []Alert) {
	u := ComputeUsage(monthToDate, limits, a.Now())
	return u, Alerts(u, limits.AlertThresholdPercent)
}

// Report groups ranged records and evaluates usage over monthToDate, which
// is queried separately so usage does not depend on the requested range.
func (a *Aggregator) Report(ranged, monthToDate []Record, groupBy GroupBy, limits Limits) Report {
	usage, alerts := a.Usage(monthToDate, limits)
	return Report{
		Analytics:    Aggregate(ranged, groupBy),
		Usage:        usage,
		ModelMetrics: ModelMetrics(ranged),
		Alerts:       alerts,
		Limits:       limits,
		GroupBy:      groupBy,
	}
}
