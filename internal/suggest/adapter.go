// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package suggest asks an external generative model for prompt suggestions
// and turns its reply into recommendation candidates.
//
// The adapter never fails. Missing configuration, transport errors, non-2xx
// replies, timeouts, an open circuit, and malformed output all produce an
// empty list and a warning.
package suggest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pdiddy/promptrec/internal/metrics"
	"github.com/pdiddy/promptrec/pkg/types"
)

// DefaultTimeout bounds one suggestion call when the config leaves it unset.
const DefaultTimeout = 10 * time.Second

// Adapter implements the recommendation engine's suggester.
type Adapter struct {
	invoker Invoker
	timeout time.Duration
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

// Option configures an Adapter.
type Option func(*adapterOptions)

type adapterOptions struct {
	invoker Invoker
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

// WithInvoker replaces the OpenAI invoker. The adapter still wraps it in
// the circuit breaker.
func WithInvoker(inv Invoker) Option {
	return func(o *adapterOptions) { o.invoker = inv }
}

// WithMetrics records failures and breaker state on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *adapterOptions) { o.metrics = m }
}

// WithLogger sets the adapter logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *adapterOptions) { o.logger = l }
}

// New creates an adapter. Without a model and API key (and no injected
// invoker) the adapter is disabled and Suggest returns an empty list without
// any call.
func New(cfg types.SuggesterConfig, opts ...Option) *Adapter {
	o := adapterOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	a := &Adapter{
		timeout: timeout,
		metrics: o.metrics,
		logger:  o.logger,
	}

	inv := o.invoker
	if inv == nil && cfg.Enabled() {
		inv = NewOpenAIInvoker(cfg)
	}
	if inv != nil {
		a.invoker = newBreakerInvoker(inv, cfg.BreakerFailures, cfg.BreakerCooldown, o.metrics, o.logger)
	}
	return a
}

// Enabled reports whether the adapter will call a model.
func (a *Adapter) Enabled() bool {
	return a.invoker != nil
}

// Suggest returns up to MaxSuggestions external candidates for req.
func (a *Adapter) Suggest(ctx context.Context, req types.SuggestionRequest) []types.Candidate {
	if a.invoker == nil {
		return []types.Candidate{}
	}

	prompt, err := renderPrompt(req)
	if err != nil {
		a.fail("prompt", err)
		return []types.Candidate{}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.invoker.Invoke(ctx, prompt)
	if err != nil {
		a.fail(failureReason(err), err)
		return []types.Candidate{}
	}

	candidates, err := Parse(raw, req)
	if err != nil {
		a.fail("malformed", err)
		return []types.Candidate{}
	}
	a.logger.Debug().Int("suggestions", len(candidates)).Msg("external suggestions parsed")
	return candidates
}

func (a *Adapter) fail(reason string, err error) {
	a.metrics.SuggesterFailure(reason)
	a.logger.Warn().Err(err).Str("reason", reason).Msg("external suggestions unavailable")
}

// failureReason buckets an invoke error for the failure counter.
func failureReason(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &statusErr):
		return "status"
	default:
		return "transport"
	}
}
