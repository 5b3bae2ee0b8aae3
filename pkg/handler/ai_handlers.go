package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/choraleia/collectly/pkg/service"
)

type AIHandler struct {
	generation *service.GenerationService
	logger     *slog.Logger
}

func NewAIHandler(generation *service.GenerationService, logger *slog.Logger) *AIHandler {
	return &AIHandler{generation: generation, logger: logger}
}

// Generate handles POST /api/ai/generate.
func (h *AIHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.generation.Generate(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "Failed to generate content", err)
		return
	}
	ok(c, res)
}

// Analyze handles POST /api/ai/analyze/:communicationId?organization_id=.
func (h *AIHandler) Analyze(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		badRequest(c, "organization_id is required")
		return
	}
	res, err := h.generation.AnalyzeEmail(c.Request.Context(), orgID, c.Param("communicationId"))
	if err != nil {
		writeError(c, h.logger, "Failed to analyze communication", err)
		return
	}
	ok(c, res)
}
