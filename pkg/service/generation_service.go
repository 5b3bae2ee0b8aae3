// AI generation: budget gate, templating, routing, persistence and alerts
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/choraleia/collectly/pkg/ai"
	"github.com/choraleia/collectly/pkg/costs"
	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/event"
	"github.com/choraleia/collectly/pkg/metrics"
	"github.com/choraleia/collectly/pkg/prompt"
	"github.com/choraleia/collectly/pkg/utils"
)

// Generator routes a prompt to a backend. *ai.Router implements it.
type Generator interface {
	Generate(ctx context.Context, complexity ai.Complexity, prompt string, reqCtx ai.RequestContext, opts ai.Options) (*ai.GeneratedContent, error)
}

// TemplateRequest asks for a prompt built from a stored template.
type TemplateRequest struct {
	Kind      prompt.Kind       `json:"kind"`
	Locale    string            `json:"locale,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// GenerateRequest is one generation. Exactly one of Prompt and Template is set.
type GenerateRequest struct {
	OrganizationID string             `json:"organization_id"`
	CaseID         string             `json:"case_id,omitempty"`
	Type           db.InteractionType `json:"type"`
	Complexity     ai.Complexity      `json:"complexity"`
	Prompt         string             `json:"prompt,omitempty"`
	Template       *TemplateRequest   `json:"template,omitempty"`
	Priority       ai.Priority        `json:"priority,omitempty"`
	Options        ai.Options         `json:"options"`
}

// GenerateResult is returned to the caller after the interaction is stored.
type GenerateResult struct {
	InteractionID string        `json:"interaction_id"`
	Content       string        `json:"content"`
	Model         string        `json:"model"`
	Tier          ai.Tier       `json:"tier"`
	FellBack      bool          `json:"fell_back"`
	Usage         ai.Usage      `json:"usage"`
	CostUSD       float64       `json:"cost_usd"`
	Alerts        []costs.Alert `json:"alerts"`
}

// GenerationService wires the router to persistence, metrics and events.
type GenerationService struct {
	router         Generator
	interactions   *InteractionStore
	communications *CommunicationStore
	costs          *CostService
	templates      *prompt.Library
	emitter        *event.Emitter
	enforceBudget  bool
	logger         *slog.Logger
}

// GenerationOption configures a GenerationService.
type GenerationOption func(*GenerationService)

// WithTemplates replaces the built-in template library.
func WithTemplates(l *prompt.Library) GenerationOption {
	return func(s *GenerationService) {
		if l != nil {
			s.templates = l
		}
	}
}

// WithEmitter sets the event emitter.
func WithEmitter(e *event.Emitter) GenerationOption {
	return func(s *GenerationService) {
		if e != nil {
			s.emitter = e
		}
	}
}

// WithBudgetEnforcement rejects generations once a limit is fully spent.
func WithBudgetEnforcement(enabled bool) GenerationOption {
	return func(s *GenerationService) { s.enforceBudget = enabled }
}

func NewGenerationService(router Generator, interactions *InteractionStore, communications *CommunicationStore, costService *CostService, opts ...GenerationOption) *GenerationService {
	s := &GenerationService{
		router:         router,
		interactions:   interactions,
		communications: communications,
		costs:          costService,
		templates:      prompt.Default(),
		emitter:        event.Global(),
		logger:         utils.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GenerationService) validate(req *GenerateRequest) error {
	if strings.TrimSpace(req.OrganizationID) == "" {
		return invalidInput("organization_id is required")
	}
	if _, ok := db.SupportedInteractionTypes[req.Type]; !ok {
		return invalidInput("unsupported interaction type %q", req.Type)
	}
	complexity, err := ai.ParseComplexity(string(req.Complexity))
	if err != nil {
		return err
	}
	req.Complexity = complexity
	hasPrompt := strings.TrimSpace(req.Prompt) != ""
	if hasPrompt == (req.Template != nil) {
		return invalidInput("exactly one of prompt and template is required")
	}
	return req.Options.Validate()
}

func (s *GenerationService) buildPrompt(req GenerateRequest) (string, error) {
	if req.Template == nil {
		return req.Prompt, nil
	}
	locale := req.Template.Locale
	if locale == "" {
		locale = req.Options.Language
	}
	vars := prompt.WithOptions(req.Template.Variables, req.Options.Tone, req.Options.Language)
	text, err := s.templates.Render(req.Template.Kind, locale, vars)
	if err != nil {
		return "", invalidInput("%v", err)
	}
	return text, nil
}

// Generate runs one generation end to end.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if err := s.validate(&req); err != nil {
		metrics.ObserveFailure(metrics.ReasonValidation)
		return nil, err
	}

	if s.enforceBudget {
		usage, _, err := s.costs.Usage(ctx, req.OrganizationID)
		if err != nil {
			return nil, err
		}
		if usage.Exceeded() {
			metrics.ObserveFailure(metrics.ReasonBudget)
			s.logger.Warn("Generation rejected, budget exceeded",
				"organizationID", req.OrganizationID,
				"monthlyPercentage", usage.Monthly.Percentage,
				"dailyPercentage", usage.Daily.Percentage)
			return nil, fmt.Errorf("%w: monthly %.2f%%, daily %.2f%%", ErrBudgetExceeded, usage.Monthly.Percentage, usage.Daily.Percentage)
		}
	}

	text, err := s.buildPrompt(req)
	if err != nil {
		metrics.ObserveFailure(metrics.ReasonValidation)
		return nil, err
	}

	started := time.Now()
	out, err := s.router.Generate(ctx, req.Complexity, text, s.requestContext(req.OrganizationID, req.CaseID, req.Priority), req.Options)
	if err != nil {
		metrics.ObserveFailure(failureReason(err))
		return nil, err
	}

	interaction, err := s.record(ctx, req.OrganizationID, req.CaseID, req.Type, text, out)
	if err != nil {
		metrics.ObserveFailure(metrics.ReasonStore)
		return nil, err
	}
	metrics.ObserveGeneration(metrics.Generation{
		Tier:             string(out.Tier),
		Model:            out.Model,
		Type:             string(req.Type),
		FellBack:         out.FellBack,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
		CostUSD:          out.CostUSD,
		Duration:         time.Since(started),
	})

	return &GenerateResult{
		InteractionID: interaction.ID,
		Content:       out.Content,
		Model:         out.Model,
		Tier:          out.Tier,
		FellBack:      out.FellBack,
		Usage:         out.Usage,
		CostUSD:       out.CostUSD,
		Alerts:        s.raiseAlerts(ctx, req.OrganizationID),
	}, nil
}

func (s *GenerationService) requestContext(organizationID, caseID string, priority ai.Priority) ai.RequestContext {
	values := map[string]any{"organization_id": organizationID}
	if caseID != "" {
		values["case_id"] = caseID
	}
	return ai.RequestContext{Priority: priority, Values: values}
}

// record persists the interaction and announces it.
func (s *GenerationService) record(ctx context.Context, organizationID, caseID string, kind db.InteractionType, text string, out *ai.GeneratedContent) (*db.AIInteraction, error) {
	interaction := &db.AIInteraction{
		OrganizationID:   organizationID,
		InteractionType:  kind,
		Prompt:           text,
		Response:         out.Content,
		ModelUsed:        out.Model,
		Tier:             string(out.Tier),
		FellBack:         out.FellBack,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
		TokensUsed:       out.Usage.TotalTokens,
		CostUSD:          out.CostUSD,
	}
	if caseID != "" {
		interaction.CaseID = &caseID
	}
	if err := s.interactions.Record(ctx, interaction); err != nil {
		s.logger.Error("Failed to record AI interaction", "organizationID", organizationID, "model", out.Model, "error", err)
		return nil, err
	}

	s.logger.Info("AI interaction recorded",
		"organizationID", organizationID,
		"interactionID", interaction.ID,
		"type", kind,
		"tier", out.Tier,
		"model", out.Model,
		"fellBack", out.FellBack,
		"costUSD", out.CostUSD)
	s.emitter.Emit(event.InteractionRecordedEvent{
		OrganizationID:  organizationID,
		InteractionID:   interaction.ID,
		InteractionType: string(kind),
		Model:           out.Model,
		Tier:            string(out.Tier),
		FellBack:        out.FellBack,
		CostUSD:         out.CostUSD,
	})
	return interaction, nil
}

// raiseAlerts evaluates usage after a recorded spend. Failures are logged;
// the generation already succeeded.
func (s *GenerationService) raiseAlerts(ctx context.Context, organizationID string) []costs.Alert {
	_, alerts, err := s.costs.Usage(ctx, organizationID)
	if err != nil {
		s.logger.Warn("Failed to evaluate cost alerts", "organizationID", organizationID, "error", err)
		return []costs.Alert{}
	}
	for _, a := range alerts {
		metrics.ObserveAlert(a.Category, a.Level)
		s.emitter.Emit(event.CostAlertEvent{
			OrganizationID: organizationID,
			Type:           a.Type,
			Level:          a.Level,
			Category:       a.Category,
			Message:        a.Message,
			Percentage:     a.Percentage,
		})
	}
	return alerts
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ai.ErrValidation):
		return metrics.ReasonValidation
	case errors.Is(err, ai.ErrServiceUnavailable):
		return metrics.ReasonUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonCancelled
	default:
		return metrics.ReasonUnavailable
	}
}
