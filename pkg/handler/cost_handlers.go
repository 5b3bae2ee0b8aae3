package handler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/choraleia/collectly/pkg/service"
)

type CostHandler struct {
	costs  *service.CostService
	logger *slog.Logger
}

func NewCostHandler(costs *service.CostService, logger *slog.Logger) *CostHandler {
	return &CostHandler{costs: costs, logger: logger}
}

// Report handles GET /api/ai/costs.
// Query params: organization_id (required), from, to (RFC 3339 or
// YYYY-MM-DD, a bare to date is inclusive), group_by
// (day|week|month|model|type), model, type.
func (h *CostHandler) Report(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		badRequest(c, "organization_id is required")
		return
	}
	from, err := parseTime(c.Query("from"), false)
	if err != nil {
		badRequest(c, "invalid from: "+err.Error())
		return
	}
	to, err := parseTime(c.Query("to"), true)
	if err != nil {
		badRequest(c, "invalid to: "+err.Error())
		return
	}

	report, err := h.costs.Report(c.Request.Context(), service.ReportQuery{
		OrganizationID: orgID,
		From:           from,
		To:             to,
		GroupBy:        c.Query("group_by"),
		Model:          c.Query("model"),
		Type:           c.Query("type"),
	})
	if err != nil {
		writeError(c, h.logger, "Failed to build cost report", err)
		return
	}
	ok(c, report)
}

// parseTime accepts RFC 3339 timestamps and bare UTC dates. Empty is zero.
// A bare date parsed as the end of a range yields the next midnight, so the
// exclusive bound still covers the whole day.
func parseTime(v string, end bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", v)
	}
	if end {
		return t.AddDate(0, 0, 1), nil
	}
	return t, nil
}
