// AI analysis of inbound debtor emails
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/choraleia/collectly/pkg/ai"
	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/event"
	"github.com/choraleia/collectly/pkg/metrics"
	"github.com/choraleia/collectly/pkg/prompt"
)

// EmailAnalysis is the structured verdict requested from the model.
type EmailAnalysis struct {
	Sentiment       string   `json:"sentiment"`
	Intent          string   `json:"intent"`
	ComplianceFlags []string `json:"compliance_flags"`
	Summary         string   `json:"summary"`
}

// DefaultEmailAnalysis is substituted when the model's answer cannot be parsed.
func DefaultEmailAnalysis() EmailAnalysis {
	return EmailAnalysis{
		Sentiment:       db.SentimentNeutral,
		Intent:          "unknown",
		ComplianceFlags: []string{},
		Summary:         "",
	}
}

// EmailAnalysisResult is returned by AnalyzeEmail.
type EmailAnalysisResult struct {
	CommunicationID string        `json:"communication_id"`
	InteractionID   string        `json:"interaction_id"`
	Analysis        EmailAnalysis `json:"analysis"`
	Parsed          bool          `json:"parsed"`
	Model           string        `json:"model"`
	CostUSD         float64       `json:"cost_usd"`
}

var knownSentiments = map[string]struct{}{
	db.SentimentPositive: {},
	db.SentimentNeutral:  {},
	db.SentimentNegative: {},
	db.SentimentHostile:  {},
}

// ParseEmailAnalysis extracts the JSON object from a model answer, tolerating
// code fences and surrounding prose. Unknown sentiments become neutral.
func ParseEmailAnalysis(content string) (EmailAnalysis, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return EmailAnalysis{}, fmt.Errorf("%w: no JSON object in response", ai.ErrDataParse)
	}
	var a EmailAnalysis
	if err := json.Unmarshal([]byte(content[start:end+1]), &a); err != nil {
		return EmailAnalysis{}, fmt.Errorf("%w: %v", ai.ErrDataParse, err)
	}
	a.Sentiment = strings.ToLower(strings.TrimSpace(a.Sentiment))
	if _, ok := knownSentiments[a.Sentiment]; !ok {
		a.Sentiment = db.SentimentNeutral
	}
	if strings.TrimSpace(a.Intent) == "" {
		a.Intent = "unknown"
	}
	flags := make([]string, 0, len(a.ComplianceFlags))
	for _, f := range a.ComplianceFlags {
		if f = strings.TrimSpace(f); f != "" {
			flags = append(flags, f)
		}
	}
	a.ComplianceFlags = flags
	return a, nil
}

// AnalyzeEmail asks the low-cost tier for a verdict on a stored
// communication, records the interaction and updates the communication.
func (s *GenerationService) AnalyzeEmail(ctx context.Context, organizationID, communicationID string) (*EmailAnalysisResult, error) {
	if strings.TrimSpace(organizationID) == "" || strings.TrimSpace(communicationID) == "" {
		return nil, invalidInput("organization_id and communication id are required")
	}
	comm, err := s.communications.Get(ctx, organizationID, communicationID)
	if err != nil {
		return nil, err
	}

	text, err := s.templates.Render(prompt.KindEmailAnalysis, prompt.DefaultLocale, map[string]string{
		"subject": comm.Subject,
		"content": comm.Content,
	})
	if err != nil {
		return nil, err
	}

	temperature := float32(0.2)
	started := time.Now()
	out, err := s.router.Generate(ctx, ai.ComplexitySimple, text,
		s.requestContext(organizationID, comm.CaseID, ai.PriorityNormal),
		ai.Options{Temperature: &temperature, MaxTokens: 500})
	if err != nil {
		metrics.ObserveFailure(failureReason(err))
		return nil, err
	}

	analysis, parseErr := ParseEmailAnalysis(out.Content)
	if parseErr != nil {
		s.logger.Warn("Email analysis response not parseable, using default",
			"organizationID", organizationID,
			"communicationID", communicationID,
			"model", out.Model,
			"error", parseErr)
		analysis = DefaultEmailAnalysis()
	}

	interaction, err := s.record(ctx, organizationID, comm.CaseID, db.InteractionEmailAnalysis, text, out)
	if err != nil {
		metrics.ObserveFailure(metrics.ReasonStore)
		return nil, err
	}
	metrics.ObserveGeneration(metrics.Generation{
		Tier:             string(out.Tier),
		Model:            out.Model,
		Type:             string(db.InteractionEmailAnalysis),
		FellBack:         out.FellBack,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
		CostUSD:          out.CostUSD,
		Duration:         time.Since(started),
	})
	if err := s.communications.UpdateAnalysis(ctx, organizationID, communicationID, analysis.Sentiment, analysis.ComplianceFlags); err != nil {
		return nil, err
	}
	s.emitter.Emit(event.CommunicationAnalyzedEvent{
		OrganizationID:  organizationID,
		CommunicationID: communicationID,
		Sentiment:       analysis.Sentiment,
	})
	s.raiseAlerts(ctx, organizationID)

	return &EmailAnalysisResult{
		CommunicationID: communicationID,
		InteractionID:   interaction.ID,
		Analysis:        analysis,
		Parsed:          parseErr == nil,
		Model:           out.Model,
		CostUSD:         out.CostUSD,
	}, nil
}
