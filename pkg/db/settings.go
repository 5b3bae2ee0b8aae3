// Database models for per-organization settings
package db

import "time"

// OrganizationSettings holds the admin-editable AI budget for one organization.
type OrganizationSettings struct {
	OrganizationID        string    `json:"organization_id" gorm:"primaryKey;size:36"`
	MonthlyLimitUSD       float64   `json:"monthly_limit_usd"`
	DailyLimitUSD         float64   `json:"daily_limit_usd"`
	AlertThresholdPercent float64   `json:"alert_threshold_percent"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (OrganizationSettings) TableName() string {
	return "organization_settings"
}
