package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choraleia/collectly/pkg/costs"
)

func TestCostService_Report(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.recordSpend(t, "org-1", 1.25, fixedNow.Add(-2*time.Hour))
	f.recordSpend(t, "org-1", 2.00, time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC))
	f.recordSpend(t, "org-1", 5.00, time.Date(2024, time.April, 20, 9, 0, 0, 0, time.UTC))
	f.recordSpend(t, "org-2", 100, fixedNow.Add(-time.Hour))

	report, err := f.costs.Report(ctx, ReportQuery{OrganizationID: "org-1", GroupBy: "month"})
	require.NoError(t, err)
	require.Len(t, report.Analytics, 2)
	assert.Equal(t, "2024-04", report.Analytics[0].Key)
	assert.Equal(t, 3.25, report.Analytics[1].TotalCost)
	assert.Equal(t, costs.GroupByMonth, report.GroupBy)
	assert.Equal(t, testLimits, report.Limits)

	assert.Equal(t, 3.25, report.Usage.Monthly.Spent, "usage covers month to date only")
	assert.Equal(t, 32.5, report.Usage.Monthly.Percentage)
	assert.Equal(t, 1.25, report.Usage.Daily.Spent)
	assert.Empty(t, report.Alerts)
	require.Len(t, report.ModelMetrics, 1)
	assert.Equal(t, 8.25, report.ModelMetrics[0].TotalCost)
}

func TestCostService_ReportRangeDoesNotChangeUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.recordSpend(t, "org-1", 4.5, fixedNow.Add(-time.Hour))
	f.recordSpend(t, "org-1", 1, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))

	report, err := f.costs.Report(ctx, ReportQuery{
		OrganizationID: "org-1",
		From:           time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Analytics)
	assert.Equal(t, costs.GroupByDay, report.GroupBy)
	assert.Equal(t, 5.5, report.Usage.Monthly.Spent)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, costs.CategoryDailyLimit, report.Alerts[0].Category)
}

func TestCostService_ReportValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.costs.Report(ctx, ReportQuery{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.costs.Report(ctx, ReportQuery{OrganizationID: "o", GroupBy: "year"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.costs.Report(ctx, ReportQuery{OrganizationID: "o", From: fixedNow, To: fixedNow.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
