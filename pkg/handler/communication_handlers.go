package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/event"
	"github.com/choraleia/collectly/pkg/service"
)

type CommunicationHandler struct {
	communications *service.CommunicationStore
	threads        *service.ThreadService
	emitter        *event.Emitter
	logger         *slog.Logger
}

func NewCommunicationHandler(communications *service.CommunicationStore, threads *service.ThreadService, emitter *event.Emitter, logger *slog.Logger) *CommunicationHandler {
	if emitter == nil {
		emitter = event.Global()
	}
	return &CommunicationHandler{
		communications: communications,
		threads:        threads,
		emitter:        emitter,
		logger:         logger,
	}
}

type createCommunicationRequest struct {
	OrganizationID  string    `json:"organization_id" binding:"required"`
	CaseID          string    `json:"case_id"`
	DebtorID        string    `json:"debtor_id"`
	Type            string    `json:"type"`
	Direction       string    `json:"direction" binding:"required"`
	Subject         string    `json:"subject"`
	Content         string    `json:"content"`
	FromEmail       string    `json:"from_email"`
	ToEmail         string    `json:"to_email"`
	ThreadID        string    `json:"thread_id"`
	AISentiment     string    `json:"ai_sentiment"`
	ComplianceFlags []string  `json:"compliance_flags"`
	Status          string    `json:"status"`
	SentAt          time.Time `json:"sent_at"`
}

// Create handles POST /api/communications.
func (h *CommunicationHandler) Create(c *gin.Context) {
	var req createCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	comm := &db.CommunicationLog{
		OrganizationID:  req.OrganizationID,
		CaseID:          req.CaseID,
		DebtorID:        req.DebtorID,
		Type:            req.Type,
		Direction:       req.Direction,
		Subject:         req.Subject,
		Content:         req.Content,
		FromEmail:       req.FromEmail,
		ToEmail:         req.ToEmail,
		ThreadID:        req.ThreadID,
		AISentiment:     req.AISentiment,
		ComplianceFlags: req.ComplianceFlags,
		Status:          req.Status,
		SentAt:          req.SentAt,
	}
	if err := h.communications.Create(c.Request.Context(), comm); err != nil {
		writeError(c, h.logger, "Failed to create communication", err)
		return
	}
	h.emitter.Emit(event.CommunicationCreatedEvent{
		OrganizationID:  comm.OrganizationID,
		CommunicationID: comm.ID,
		ThreadID:        comm.ThreadID,
	})
	ok(c, comm)
}

// ListThreads handles GET /api/communications/threads?organization_id=&case_id=.
func (h *CommunicationHandler) ListThreads(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		badRequest(c, "organization_id is required")
		return
	}
	list, err := h.threads.List(c.Request.Context(), orgID, c.Query("case_id"))
	if err != nil {
		writeError(c, h.logger, "Failed to list threads", err)
		return
	}
	ok(c, list)
}

// GetThread handles GET /api/communications/threads/:threadId?organization_id=.
func (h *CommunicationHandler) GetThread(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		badRequest(c, "organization_id is required")
		return
	}
	detail, err := h.threads.Analyze(c.Request.Context(), orgID, c.Param("threadId"))
	if err != nil {
		writeError(c, h.logger, "Failed to analyze thread", err)
		return
	}
	ok(c, detail)
}
