package ai

import (
	"context"
	"errors"
	"testing"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	resp     *schema.Message
	err      error
	input    []*schema.Message
	options  *einoModel.Options
	generate int
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...einoModel.Option) (*schema.Message, error) {
	f.generate++
	f.input = input
	f.options = einoModel.GetCommonOptions(nil, opts...)
	return f.resp, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einoModel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestEinoBackend_GenerateWithUsage(t *testing.T) {
	fake := &fakeChatModel{resp: &schema.Message{
		Role:    schema.Assistant,
		Content: "Dear customer, ...",
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{
			PromptTokens: 400, CompletionTokens: 600, TotalTokens: 1000,
		}},
	}}
	b := NewEinoBackend(fake, "gpt-4o", PremiumPricing(2.5, 10), 0)

	tone := "firm"
	out, err := b.Generate(context.Background(), "draft a reminder", RequestContext{}, Options{Language: "es", Tone: tone})
	require.NoError(t, err)

	assert.Equal(t, "Dear customer, ...", out.Content)
	assert.Equal(t, "gpt-4o", out.Model)
	assert.Equal(t, Usage{PromptTokens: 400, CompletionTokens: 600, TotalTokens: 1000}, out.Usage)
	// 1000 / 1e6 * (2.5+10)/2
	assert.InDelta(t, 0.00625, out.CostUSD, 1e-12)

	require.Len(t, fake.input, 2)
	assert.Equal(t, schema.System, fake.input[0].Role)
	assert.Contains(t, fake.input[0].Content, "Spanish")
	assert.Contains(t, fake.input[0].Content, "firm tone")
	assert.Equal(t, "draft a reminder", fake.input[1].Content)

	require.NotNil(t, fake.options.Temperature)
	assert.InDelta(t, 0.7, *fake.options.Temperature, 1e-6)
	require.NotNil(t, fake.options.MaxTokens)
	assert.Equal(t, 1000, *fake.options.MaxTokens)
}

func TestEinoBackend_EstimatesMissingUsage(t *testing.T) {
	fake := &fakeChatModel{resp: &schema.Message{Role: schema.Assistant, Content: "one two three four"}}
	b := NewEinoBackend(fake, "gemini-1.5-flash", LowCostPricing(0.000075, 0.0003), 0)

	out, err := b.Generate(context.Background(), "hello there friend", RequestContext{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, EstimateTokens("hello there friend"), out.Usage.PromptTokens)
	assert.Equal(t, EstimateTokens("one two three four"), out.Usage.CompletionTokens)
	assert.Equal(t, out.Usage.PromptTokens+out.Usage.CompletionTokens, out.Usage.TotalTokens)
}

func TestEinoBackend_PropagatesErrors(t *testing.T) {
	b := NewEinoBackend(&fakeChatModel{err: errors.New("401 unauthorized")}, "gpt-4o", PremiumPricing(1, 1), 0)
	_, err := b.Generate(context.Background(), "x", RequestContext{}, Options{})
	assert.EqualError(t, err, "401 unauthorized")

	nilResp := NewEinoBackend(&fakeChatModel{}, "gpt-4o", PremiumPricing(1, 1), 0)
	_, err = nilResp.Generate(context.Background(), "x", RequestContext{}, Options{})
	assert.Error(t, err)
}

func TestEinoBackend_RateLimitHonoursContext(t *testing.T) {
	fake := &fakeChatModel{resp: &schema.Message{Content: "ok"}}
	b := NewEinoBackend(fake, "m", PremiumPricing(1, 1), 0.001)

	_, err := b.Generate(context.Background(), "x", RequestContext{}, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Generate(ctx, "x", RequestContext{}, Options{})
	assert.Error(t, err)
	assert.Equal(t, 1, fake.generate)
}

func TestNewChatModel_UnknownProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), ProviderConfig{Provider: "nope"})
	assert.Error(t, err)
}
