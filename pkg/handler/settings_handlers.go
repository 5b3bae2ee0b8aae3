package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/choraleia/collectly/pkg/costs"
	"github.com/choraleia/collectly/pkg/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
	logger   *slog.Logger
}

func NewSettingsHandler(settings *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

type costLimitsRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	costs.Limits
}

// GetCostLimits handles GET /api/settings/cost-limits?organization_id=.
func (h *SettingsHandler) GetCostLimits(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		badRequest(c, "organization_id is required")
		return
	}
	limits, err := h.settings.CostLimits(c.Request.Context(), orgID)
	if err != nil {
		writeError(c, h.logger, "Failed to load cost limits", err)
		return
	}
	ok(c, limits)
}

// UpdateCostLimits handles PUT /api/settings/cost-limits.
func (h *SettingsHandler) UpdateCostLimits(c *gin.Context) {
	var req costLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	limits, err := h.settings.UpdateCostLimits(c.Request.Context(), req.OrganizationID, req.Limits)
	if err != nil {
		writeError(c, h.logger, "Failed to update cost limits", err)
		return
	}
	ok(c, limits)
}
