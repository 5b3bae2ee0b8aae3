// AI spend reporting
package service

import (
	"context"
	"strings"
	"time"

	"github.com/choraleia/collectly/pkg/costs"
)

// DefaultReportWindow is the range used when a report query has no from.
const DefaultReportWindow = 30 * 24 * time.Hour

// ReportQuery selects the interactions a cost report covers.
type ReportQuery struct {
	OrganizationID string
	From           time.Time
	To             time.Time
	GroupBy        string
	Model          string
	Type           string
}

// CostService builds cost reports from stored interactions.
type CostService struct {
	interactions *InteractionStore
	settings     *SettingsService
	aggregator   *costs.Aggregator
}

func NewCostService(interactions *InteractionStore, settings *SettingsService, aggregator *costs.Aggregator) *CostService {
	if aggregator == nil {
		aggregator = costs.NewAggregator()
	}
	return &CostService{
		interactions: interactions,
		settings:     settings,
		aggregator:   aggregator,
	}
}

// Report groups the interactions in the requested range. Usage and alerts
// always cover the current month to date, whatever the range and filters.
func (s *CostService) Report(ctx context.Context, q ReportQuery) (*costs.Report, error) {
	if strings.TrimSpace(q.OrganizationID) == "" {
		return nil, invalidInput("organization_id is required")
	}
	groupBy, err := costs.ParseGroupBy(q.GroupBy)
	if err != nil {
		return nil, invalidInput("%v", err)
	}
	to := q.To
	if to.IsZero() {
		to = s.aggregator.Now()
	}
	from := q.From
	if from.IsZero() {
		from = to.Add(-DefaultReportWindow)
	}
	if !from.Before(to) {
		return nil, invalidInput("from must be before to")
	}

	limits, err := s.settings.CostLimits(ctx, q.OrganizationID)
	if err != nil {
		return nil, err
	}
	ranged, err := s.interactions.ListByOrganization(ctx, q.OrganizationID, from, to, InteractionFilter{Model: q.Model, Type: q.Type})
	if err != nil {
		return nil, err
	}
	monthToDate, err := s.monthToDate(ctx, q.OrganizationID)
	if err != nil {
		return nil, err
	}

	report := s.aggregator.Report(ToCostRecords(ranged), monthToDate, groupBy, limits)
	return &report, nil
}

// Usage returns current spend and the alerts it raises.
func (s *CostService) Usage(ctx context.Context, organizationID string) (costs.Usage, []costs.Alert, error) {
	limits, err := s.settings.CostLimits(ctx, organizationID)
	if err != nil {
		return costs.Usage{}, nil, err
	}
	records, err := s.monthToDate(ctx, organizationID)
	if err != nil {
		return costs.Usage{}, nil, err
	}
	usage, alerts := s.aggregator.Usage(records, limits)
	return usage, alerts, nil
}

func (s *CostService) monthToDate(ctx context.Context, organizationID string) ([]costs.Record, error) {
	interactions, err := s.interactions.ListByOrganization(ctx, organizationID, s.aggregator.MonthStart(), time.Time{}, InteractionFilter{})
	if err != nil {
		return nil, err
	}
	return ToCostRecords(interactions), nil
}
