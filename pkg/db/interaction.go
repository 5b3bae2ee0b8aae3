// Database models for AI interaction records
package db

import "time"

// InteractionType tags what an AI call was used for.
type InteractionType string

const (
	InteractionEmailGeneration    InteractionType = "email_generation"
	InteractionSMSGeneration      InteractionType = "sms_generation"
	InteractionScriptGeneration   InteractionType = "script_generation"
	InteractionAnalysis           InteractionType = "analysis"
	InteractionNegotiation        InteractionType = "negotiation"
	InteractionStrategyGeneration InteractionType = "strategy_generation"
	InteractionEmailAnalysis      InteractionType = "email_analysis"
)

// SupportedInteractionTypes all valid interaction type values
var SupportedInteractionTypes = map[InteractionType]struct{}{
	InteractionEmailGeneration:    {},
	InteractionSMSGeneration:      {},
	InteractionScriptGeneration:   {},
	InteractionAnalysis:           {},
	InteractionNegotiation:        {},
	InteractionStrategyGeneration: {},
	InteractionEmailAnalysis:      {},
}

// AIInteraction is one AI generation call. Rows are written once and never updated.
type AIInteraction struct {
	ID              string          `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID  string          `json:"organization_id" gorm:"index:idx_ai_org_created;size:36;not null"`
	CaseID          *string         `json:"case_id,omitempty" gorm:"index;size:36"`
	InteractionType InteractionType `json:"interaction_type" gorm:"size:40;index"`
	Prompt          string          `json:"prompt" gorm:"type:text"`
	Response        string          `json:"response" gorm:"type:text"`
	ModelUsed       string          `json:"model_used" gorm:"size:100;index"`
	Tier            string          `json:"tier,omitempty" gorm:"size:20"` // premium, low_cost
	FellBack        bool            `json:"fell_back" gorm:"default:false"`

	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TokensUsed       int     `json:"tokens_used"`
	CostUSD          float64 `json:"cost_usd"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_ai_org_created"`
}

func (AIInteraction) TableName() string {
	return "ai_interactions"
}

// NormalizeTokens fills TokensUsed from the parts when it was not reported.
// Mismatched totals are kept as reported.
func (i *AIInteraction) NormalizeTokens() {
	if i.PromptTokens < 0 {
		i.PromptTokens = 0
	}
	if i.CompletionTokens < 0 {
		i.CompletionTokens = 0
	}
	if i.TokensUsed < 0 {
		i.TokensUsed = 0
	}
	if i.TokensUsed == 0 {
		i.TokensUsed = i.PromptTokens + i.CompletionTokens
	}
}
