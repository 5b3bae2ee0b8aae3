// Organization cost-limit settings
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/choraleia/collectly/pkg/costs"
	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/event"
	"github.com/choraleia/collectly/pkg/utils"
)

// SettingsService reads and updates per-organization cost limits. Cache
// failures are logged and never fail a request.
type SettingsService struct {
	db       *gorm.DB
	defaults costs.Limits
	cache    LimitsCache
	emitter  *event.Emitter
	logger   *slog.Logger
}

// NewSettingsService creates the service. cache may be nil; a nil emitter
// means the global one.
func NewSettingsService(database *gorm.DB, defaults costs.Limits, cache LimitsCache, emitter *event.Emitter) *SettingsService {
	if emitter == nil {
		emitter = event.Global()
	}
	return &SettingsService{
		db:       database,
		defaults: defaults,
		cache:    cache,
		emitter:  emitter,
		logger:   utils.GetLogger(),
	}
}

// Defaults returns the limits applied to organizations without settings.
func (s *SettingsService) Defaults() costs.Limits { return s.defaults }

// CostLimits returns the organization's limits, or the defaults when none
// are stored.
func (s *SettingsService) CostLimits(ctx context.Context, organizationID string) (costs.Limits, error) {
	if strings.TrimSpace(organizationID) == "" {
		return costs.Limits{}, invalidInput("organization_id is required")
	}
	if s.cache != nil {
		limits, ok, err := s.cache.Get(ctx, organizationID)
		if err != nil {
			s.logger.Warn("Cost limits cache read failed", "organizationID", organizationID, "error", err)
		} else if ok {
			return limits, nil
		}
	}

	var row db.OrganizationSettings
	err := s.db.WithContext(ctx).First(&row, "organization_id = ?", organizationID).Error
	var limits costs.Limits
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		limits = s.defaults
	case err != nil:
		return costs.Limits{}, errors.Wrap(err, "load organization settings")
	default:
		limits = costs.Limits{
			MonthlyUSD:            row.MonthlyLimitUSD,
			DailyUSD:              row.DailyLimitUSD,
			AlertThresholdPercent: row.AlertThresholdPercent,
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, organizationID, limits); err != nil {
			s.logger.Warn("Cost limits cache write failed", "organizationID", organizationID, "error", err)
		}
	}
	return limits, nil
}

// UpdateCostLimits validates and upserts the organization's limits.
func (s *SettingsService) UpdateCostLimits(ctx context.Context, organizationID string, limits costs.Limits) (costs.Limits, error) {
	if strings.TrimSpace(organizationID) == "" {
		return costs.Limits{}, invalidInput("organization_id is required")
	}
	if err := limits.Validate(); err != nil {
		return costs.Limits{}, invalidInput("%v", err)
	}

	row := db.OrganizationSettings{
		OrganizationID:        organizationID,
		MonthlyLimitUSD:       limits.MonthlyUSD,
		DailyLimitUSD:         limits.DailyUSD,
		AlertThresholdPercent: limits.AlertThresholdPercent,
		UpdatedAt:             time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organization_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"monthly_limit_usd", "daily_limit_usd", "alert_threshold_percent", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return costs.Limits{}, errors.Wrap(err, "save organization settings")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, organizationID); err != nil {
			s.logger.Warn("Cost limits cache invalidation failed", "organizationID", organizationID, "error", err)
		}
	}
	s.logger.Info("Cost limits updated",
		"organizationID", organizationID,
		"monthlyLimitUSD", limits.MonthlyUSD,
		"dailyLimitUSD", limits.DailyUSD,
		"alertThresholdPercent", limits.AlertThresholdPercent)
	s.emitter.Emit(event.SettingsChangedEvent{OrganizationID: organizationID})
	return limits, nil
}
