package ai

import (
	"context"
	"fmt"
	"strings"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// EinoBackend adapts an eino chat model to Backend and prices its usage.
type EinoBackend struct {
	chatModel einoModel.BaseChatModel
	modelName string
	pricing   Pricing
	limiter   *rate.Limiter
}

// NewEinoBackend wraps chatModel. ratePerSecond <= 0 disables client-side limiting.
func NewEinoBackend(chatModel einoModel.BaseChatModel, modelName string, pricing Pricing, ratePerSecond float64) *EinoBackend {
	b := &EinoBackend{
		chatModel: chatModel,
		modelName: modelName,
		pricing:   pricing,
	}
	if ratePerSecond > 0 {
		burst := int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return b
}

// Model returns the configured model identifier.
func (b *EinoBackend) Model() string { return b.modelName }

// Generate sends a system instruction plus the prompt as a single-turn chat.
func (b *EinoBackend) Generate(ctx context.Context, prompt string, reqCtx RequestContext, opts Options) (*GeneratedContent, error) {
	if b.chatModel == nil {
		return nil, fmt.Errorf("chat model not initialized")
	}
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	opts = opts.WithDefaults()
	messages := []*schema.Message{
		schema.SystemMessage(systemInstruction(opts)),
		schema.UserMessage(prompt),
	}

	resp, err := b.chatModel.Generate(ctx, messages,
		einoModel.WithTemperature(*opts.Temperature),
		einoModel.WithMaxTokens(opts.MaxTokens),
	)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errEmptyResponse
	}

	usage := Usage{}
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		usage = Usage{
			PromptTokens:     resp.ResponseMeta.Usage.PromptTokens,
			CompletionTokens: resp.ResponseMeta.Usage.CompletionTokens,
			TotalTokens:      resp.ResponseMeta.Usage.TotalTokens,
		}
	}
	if usage.TotalTokens == 0 {
		if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
			usage.PromptTokens = EstimateTokens(prompt)
			usage.CompletionTokens = EstimateTokens(resp.Content)
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}

	return &GeneratedContent{
		Content: resp.Content,
		Usage:   usage,
		Model:   b.modelName,
		CostUSD: b.pricing.Cost(usage.TotalTokens),
	}, nil
}

// EstimateTokens approximates a token count when the provider reports none:
// a blend of word count and chars/4.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	chars := len(text)
	return (words + chars/4) / 2
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
}

func systemInstruction(opts Options) string {
	lang := languageNames[strings.ToLower(opts.Language)]
	if lang == "" {
		lang = opts.Language
	}
	var sb strings.Builder
	sb.WriteString("You are a compliant, professional debt collection assistant. ")
	sb.WriteString("Never threaten, harass or misrepresent the debt. ")
	sb.WriteString(fmt.Sprintf("Respond in %s.", lang))
	if tone := strings.TrimSpace(opts.Tone); tone != "" {
		sb.WriteString(fmt.Sprintf(" Use a %s tone.", tone))
	}
	return sb.String()
}
