package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/choraleia/collectly/pkg/utils"
)

// DefaultCallTimeout bounds a single backend call when no timeout is configured.
const DefaultCallTimeout = 60 * time.Second

var errEmptyResponse = errors.New("empty response")

// Router picks the premium or low-cost backend for a task and falls back to
// the other one once when the first call fails.
type Router struct {
	backends map[Tier]Backend
	timeout  time.Duration
	logger   *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithCallTimeout bounds each backend call. Non-positive values keep the default.
func WithCallTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger overrides the router logger.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a router over the two backends.
func NewRouter(premium, lowCost Backend, opts ...RouterOption) *Router {
	r := &Router{
		backends: map[Tier]Backend{TierPremium: premium, TierLowCost: lowCost},
		timeout:  DefaultCallTimeout,
		logger:   utils.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SelectTier is the routing rule: low-cost for simple work and for complex
// work explicitly marked low priority, premium otherwise.
func SelectTier(complexity Complexity, priority Priority) Tier {
	if complexity == ComplexitySimple {
		return TierLowCost
	}
	if complexity == ComplexityComplex && priority == PriorityLow {
		return TierLowCost
	}
	return TierPremium
}

// Generate routes prompt to the selected backend. At most two backend calls
// are made; when both fail the returned error matches ErrServiceUnavailable.
func (r *Router) Generate(ctx context.Context, complexity Complexity, prompt string, reqCtx RequestContext, opts Options) (*GeneratedContent, error) {
	if _, err := ParseComplexity(string(complexity)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, validationError("prompt is empty")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	primary := SelectTier(complexity, reqCtx.Priority)
	out, primaryErr := r.call(ctx, primary, prompt, reqCtx, opts)
	if primaryErr == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
	}

	fallback := primary.Other()
	r.logger.Warn("AI backend failed, falling back",
		"tier", primary,
		"fallbackTier", fallback,
		"complexity", complexity,
		"error", primaryErr)

	out, fallbackErr := r.call(ctx, fallback, prompt, reqCtx, opts)
	if fallbackErr == nil {
		out.FellBack = true
		return out, nil
	}

	r.logger.Error("AI backends exhausted",
		"primaryError", primaryErr,
		"fallbackError", fallbackErr)
	return nil, &ServiceError{Primary: primaryErr, Fallback: fallbackErr}
}

// call invokes one backend under the per-call timeout and normalizes every
// failure into a *BackendError.
func (r *Router) call(ctx context.Context, tier Tier, prompt string, reqCtx RequestContext, opts Options) (*GeneratedContent, error) {
	backend := r.backends[tier]
	if backend == nil {
		return nil, &BackendError{Tier: tier, Err: errors.New("backend not configured")}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	out, err := backend.Generate(callCtx, prompt, reqCtx, opts)
	if err == nil && (out == nil || strings.TrimSpace(out.Content) == "") {
		err = errEmptyResponse
	}
	if err != nil {
		var be *BackendError
		if errors.As(err, &be) {
			be.Tier = tier
			return nil, be
		}
		model := ""
		if out != nil {
			model = out.Model
		}
		return nil, &BackendError{Tier: tier, Model: model, Err: err}
	}

	out.Tier = tier
	r.logger.Debug("AI backend call completed",
		"tier", tier,
		"model", out.Model,
		"totalTokens", out.Usage.TotalTokens,
		"costUSD", out.CostUSD,
		"duration", time.Since(started))
	return out, nil
}
