package ai

import (
	"context"
	"strings"
)

// Tier identifies one of the two configured backends.
type Tier string

const (
	TierPremium Tier = "premium"
	TierLowCost Tier = "low_cost"
)

// Other returns the fallback tier.
func (t Tier) Other() Tier {
	if t == TierPremium {
		return TierLowCost
	}
	return TierPremium
}

// Complexity is the caller's hint about how demanding a task is.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityComplex     Complexity = "complex"
	ComplexityNegotiation Complexity = "negotiation"
)

// ParseComplexity validates a complexity tag.
func ParseComplexity(s string) (Complexity, error) {
	switch c := Complexity(strings.ToLower(strings.TrimSpace(s))); c {
	case ComplexitySimple, ComplexityComplex, ComplexityNegotiation:
		return c, nil
	default:
		return "", validationError("unknown complexity %q", s)
	}
}

// Priority is an optional hint carried in the request context.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// RequestContext is passed through to backends untouched; the router only
// reads Priority.
type RequestContext struct {
	Priority Priority       `json:"priority,omitempty"`
	Values   map[string]any `json:"values,omitempty"`
}

// Option defaults
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
	DefaultLanguage    = "en"
)

// Options tune a single generation. Zero values are replaced by defaults.
type Options struct {
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Language    string   `json:"language,omitempty"`
	Tone        string   `json:"tone,omitempty"`
}

// WithDefaults returns a copy with every unset field defaulted.
func (o Options) WithDefaults() Options {
	if o.Temperature == nil {
		t := float32(DefaultTemperature)
		o.Temperature = &t
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if strings.TrimSpace(o.Language) == "" {
		o.Language = DefaultLanguage
	}
	return o
}

// Validate rejects out-of-range option values.
func (o Options) Validate() error {
	if o.Temperature != nil && (*o.Temperature < 0 || *o.Temperature > 2) {
		return validationError("temperature %.2f out of range [0,2]", *o.Temperature)
	}
	if o.MaxTokens < 0 {
		return validationError("max_tokens must be positive")
	}
	return nil
}

// Usage is the token accounting for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GeneratedContent is a backend's answer.
type GeneratedContent struct {
	Content  string  `json:"content"`
	Usage    Usage   `json:"usage"`
	Model    string  `json:"model"`
	CostUSD  float64 `json:"cost_usd"`
	Tier     Tier    `json:"tier"`
	FellBack bool    `json:"fell_back"`
}

// Backend is a text-generation provider.
type Backend interface {
	Generate(ctx context.Context, prompt string, reqCtx RequestContext, opts Options) (*GeneratedContent, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, prompt string, reqCtx RequestContext, opts Options) (*GeneratedContent, error)

func (f BackendFunc) Generate(ctx context.Context, prompt string, reqCtx RequestContext, opts Options) (*GeneratedContent, error) {
	return f(ctx, prompt, reqCtx, opts)
}

func (c Complexity) String() string { return string(c) }

func (t Tier) String() string { return string(t) }
